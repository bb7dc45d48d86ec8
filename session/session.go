package session

import (
	"github.com/jrsteele09/go-auth-client/authapi"
	"golang.org/x/oauth2"
)

// Principal is the authenticated identity attached to a session.
type Principal = authapi.Principal

// Session is a snapshot of the credentials held by a Store.
// AccessToken is non-empty iff the session is authenticated, and Principal is
// only set when AccessToken is.
type Session struct {
	AccessToken  string
	RefreshToken string
	Principal    *Principal
}

// IsAuthenticated reports whether the session holds an access credential.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != ""
}

// Role returns the principal's role, or "" when there is no principal.
func (s Session) Role() string {
	if s.Principal == nil {
		return ""
	}
	return s.Principal.Role
}

// Token returns the access credential as a bearer oauth2.Token, or nil when
// the session is not authenticated.
func (s Session) Token() *oauth2.Token {
	if !s.IsAuthenticated() {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: s.RefreshToken,
	}
}
