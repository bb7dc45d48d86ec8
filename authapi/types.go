package authapi

import "time"

// LoginRequest is the body of POST RouteLogin.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	// AccessToken is the short-lived credential sent as "Authorization: Bearer <access_token>".
	AccessToken string `json:"access_token"`

	// RefreshToken is an opaque long-lived credential, only ever sent back to
	// RouteRefresh and RouteLogout.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "bearer".
	TokenType string `json:"token_type"`

	User Principal `json:"user"`
}

// RefreshRequest is the body of POST RouteRefresh. Logout uses the same shape.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest asks the backend to invalidate a refresh credential.
type LogoutRequest = RefreshRequest

// RefreshResponse carries the renewed access credential. The refresh
// credential is not rotated.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Principal is the authenticated identity returned with a login.
type Principal struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	RealName  string    `json:"real_name,omitempty"`
	OrgID     *int64    `json:"org_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrorResponse is the body of every non-2xx JSON answer from the backend.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
