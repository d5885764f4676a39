package auth

// UserClaims is what middleware resolves a request's credentials into.
type UserClaims interface {
	UserID() string
	Username() string
	IsAdmin() bool
	Source() string
}

// SessionClaims come from a Redis-backed session cookie.
type SessionClaims struct {
	UserUUID      string
	UsernameValue string
	AdminFlag     bool
}

func (c *SessionClaims) UserID() string   { return c.UserUUID }
func (c *SessionClaims) Username() string { return c.UsernameValue }
func (c *SessionClaims) IsAdmin() bool    { return c.AdminFlag }
func (c *SessionClaims) Source() string   { return "SESSION" }
