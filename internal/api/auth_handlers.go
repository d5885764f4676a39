package api

import (
	"net/http"
	"os"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/logging"

	"github.com/google/uuid"
)

const oauthStateCookie = "biblioruche_oauth_state"

func secureCookies() bool {
	return os.Getenv("APP_ENV") == "production"
}

// LoginHandler starts the Twitch OAuth flow. A random state lands in a
// short-lived cookie and must come back unchanged on the callback.
func (h *Handlers) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := uuid.New().String()

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   600,
			HttpOnly: true,
			Secure:   secureCookies(),
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, h.deps.Services.Twitch.AuthorizeURL(state), http.StatusFound)
	}
}

// CallbackHandler finishes the OAuth flow: code exchange, identity fetch,
// account provisioning and session creation.
func (h *Handlers) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stateCookie, err := r.Cookie(oauthStateCookie)
		if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
			common.RespondError(w, initTime, nil, "État OAuth invalide", http.StatusBadRequest)
			return
		}
		// Burn the state cookie either way.
		http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

		code := r.URL.Query().Get("code")
		if code == "" {
			common.RespondError(w, initTime, nil, "Code OAuth manquant", http.StatusBadRequest)
			return
		}

		accessToken, err := h.deps.Services.Twitch.ExchangeCode(code)
		if err != nil {
			logging.Error("OAuth code exchange failed", "error", err)
			common.RespondError(w, initTime, nil, "Échec de la connexion Twitch", http.StatusBadGateway)
			return
		}

		identity, err := h.deps.Services.Twitch.FetchUser(accessToken)
		if err != nil {
			logging.Error("Twitch user fetch failed", "error", err)
			common.RespondError(w, initTime, nil, "Échec de la connexion Twitch", http.StatusBadGateway)
			return
		}

		user, err := h.deps.Services.Users.GetOrCreateFromTwitch(r.Context(), identity)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		sessionID, err := h.deps.Services.Session.CreateSession(r.Context(), user.ID, user.Username, user.DisplayName, user.IsAdmin)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     common.SessionCookieName,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int((7 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			Secure:   secureCookies(),
			SameSite: http.SameSiteLaxMode,
		})

		redirect := os.Getenv("POST_LOGIN_REDIRECT")
		if redirect == "" {
			redirect = "/"
		}
		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

// LogoutHandler destroys the session and clears the cookie
func (h *Handlers) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if cookie, err := r.Cookie(common.SessionCookieName); err == nil && cookie.Value != "" {
			if err := h.deps.Services.Session.DeleteSession(r.Context(), cookie.Value); err != nil {
				logging.Warn("Session delete failed", "error", err)
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     common.SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureCookies(),
			SameSite: http.SameSiteLaxMode,
		})

		common.RespondSuccess(w, initTime, "Déconnexion réussie", nil)
	}
}

// MeHandler returns the authenticated user's own summary
func (h *Handlers) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, constants.ErrMsgUnauthorized, http.StatusUnauthorized)
			return
		}

		profile, err := h.deps.Services.Users.Profile(r.Context(), claims.UserID())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Profil récupéré", profile)
	}
}
