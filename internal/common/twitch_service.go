package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// TwitchUser is the subset of the Twitch user payload the club needs.
type TwitchUser struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"profile_image_url"`
}

// TwitchService drives the OAuth authorization-code flow against Twitch.
type TwitchService struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthBaseURL  string
	APIBaseURL   string
	Client       *http.Client

	adminUsernames map[string]struct{}
}

// NewTwitchService creates a new instance, reading config from environment variables
func NewTwitchService() *TwitchService {
	authBase := os.Getenv("TWITCH_AUTH_BASE_URL")
	if authBase == "" {
		authBase = "https://id.twitch.tv/oauth2"
	}
	apiBase := os.Getenv("TWITCH_API_BASE_URL")
	if apiBase == "" {
		apiBase = "https://api.twitch.tv/helix"
	}

	admins := make(map[string]struct{})
	for _, name := range strings.Split(os.Getenv("ADMIN_USERNAMES"), ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			admins[name] = struct{}{}
		}
	}

	return &TwitchService{
		ClientID:       os.Getenv("TWITCH_CLIENT_ID"),
		ClientSecret:   os.Getenv("TWITCH_CLIENT_SECRET"),
		RedirectURI:    os.Getenv("TWITCH_REDIRECT_URI"),
		AuthBaseURL:    authBase,
		APIBaseURL:     apiBase,
		Client:         &http.Client{Timeout: 10 * time.Second},
		adminUsernames: admins,
	}
}

// AuthorizeURL builds the redirect target starting the code flow.
func (svc *TwitchService) AuthorizeURL(state string) string {
	params := url.Values{
		"client_id":     {svc.ClientID},
		"redirect_uri":  {svc.RedirectURI},
		"response_type": {"code"},
		"scope":         {"user:read:email"},
		"state":         {state},
	}
	return svc.AuthBaseURL + "/authorize?" + params.Encode()
}

// ExchangeCode trades an authorization code for an access token.
func (svc *TwitchService) ExchangeCode(code string) (string, error) {
	form := url.Values{
		"client_id":     {svc.ClientID},
		"client_secret": {svc.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {svc.RedirectURI},
	}

	resp, err := svc.Client.PostForm(svc.AuthBaseURL+"/token", form)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("token response missing access_token")
	}

	return payload.AccessToken, nil
}

// FetchUser retrieves the authenticated user's profile.
func (svc *TwitchService) FetchUser(accessToken string) (*TwitchUser, error) {
	req, err := http.NewRequest("GET", svc.APIBaseURL+"/users", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Client-Id", svc.ClientID)

	resp, err := svc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user fetch returned status %d", resp.StatusCode)
	}

	var payload struct {
		Data []TwitchUser `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}
	if len(payload.Data) == 0 {
		return nil, errors.New("user response contained no users")
	}

	return &payload.Data[0], nil
}

// IsAdminUsername reports whether a login is in the configured admin list.
func (svc *TwitchService) IsAdminUsername(login string) bool {
	_, ok := svc.adminUsernames[strings.ToLower(login)]
	return ok
}
