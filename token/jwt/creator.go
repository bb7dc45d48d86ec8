package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the decoded content of an access token.
type Claims struct {
	UserID    string
	Username  string
	Role      string
	OrgID     *int64
	JTI       string
	ExpiresAt time.Time
}

// Creator issues signed access tokens
type Creator struct {
	config config.OAuthConfig
	signer token.Signer
}

// NewCreator creates a new JWT creator
func NewCreator(cfg config.OAuthConfig, signer token.Signer) *Creator {
	return &Creator{
		config: cfg,
		signer: signer,
	}
}

// CreateAccessToken signs an access token for user that expires after the
// configured access token lifetime.
func (c *Creator) CreateAccessToken(user *users.User) (string, *Claims, error) {
	now := NowTimeFunc()
	issued := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		OrgID:     user.OrgID,
		JTI:       uuid.New().String(),
		ExpiresAt: now.Add(c.config.GetDefaultAccessTokenExpiry()),
	}

	claims := jwtlib.MapClaims{
		"sub":      issued.UserID,           // The user the token was issued to
		"username": issued.Username,         // Display name for the console
		"role":     issued.Role,             // Console role
		"iat":      now.Unix(),              // Issued At
		"exp":      issued.ExpiresAt.Unix(), // Expiry
		"jti":      issued.JTI,              // Unique token ID for revocation
		"org_id":   nil,                     // Organisation, null for system users
	}
	if user.OrgID != nil {
		claims["org_id"] = *user.OrgID
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, issued, nil
}
