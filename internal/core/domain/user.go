package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// User identifies the account a session acts for.
type User struct {
	IDToken       string `json:"id_token,omitempty"       yaml:"id_token,omitempty"       toml:"id_token,omitempty"`
	SessionSecret string `json:"session_secret,omitempty" yaml:"session_secret,omitempty" toml:"session_secret,omitempty"`
}

// IsAnonymous reports whether the user carries no credentials.
func (u User) IsAnonymous() bool {
	return u.IDToken == "" && u.SessionSecret == ""
}

// Username reads the display name from the id token without verifying it.
// The token is only forwarded to the API, which performs verification.
func (u User) Username() string {
	if u.IDToken == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(u.IDToken, claims); err != nil {
		return ""
	}
	for _, key := range []string{"nickname", "username", "preferred_username"} {
		if name, ok := claims[key].(string); ok && name != "" {
			return name
		}
	}
	sub, _ := claims.GetSubject()
	return sub
}
