package middleware

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
)

// AuthMiddleware resolves the session cookie into user claims. Requests
// without a valid session are rejected.
func AuthMiddleware(sessions *common.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			cookie, err := r.Cookie(common.SessionCookieName)
			if err != nil || cookie.Value == "" {
				common.RespondError(w, time.Now(), nil, constants.ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			session, err := sessions.GetSession(r.Context(), cookie.Value)
			if err != nil {
				common.RespondError(w, time.Now(), nil, constants.ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			claims := &auth.SessionClaims{
				UserUUID:      session.UserID,
				UsernameValue: session.Username,
				AdminFlag:     session.IsAdmin,
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves claims when a session cookie is present
// but lets anonymous requests through. Public listings use it to tailor
// the response to the viewer.
func OptionalAuthMiddleware(sessions *common.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			cookie, err := r.Cookie(common.SessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, err := sessions.GetSession(r.Context(), cookie.Value); err == nil {
					claims := &auth.SessionClaims{
						UserUUID:      session.UserID,
						UsernameValue: session.Username,
						AdminFlag:     session.IsAdmin,
					}
					r = r.WithContext(auth.SetUserClaims(r.Context(), claims))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
