package auth

import (
	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/jrsteele09/go-auth-client/internal/config"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/token/jwt"
	"github.com/jrsteele09/go-auth-client/token/refresh"
	"github.com/jrsteele09/go-auth-client/users"
	"github.com/pkg/errors"
)

// Repos holds all repository dependencies for the AuthService
type Repos struct {
	Users         users.UserRepo // Repository for user data
	RefreshTokens refresh.Repo   // Repository for hashed refresh tokens
}

// AuthService implements the password login, refresh and logout exchanges.
type AuthService struct {
	repos         Repos
	creator       *jwt.Creator
	inspector     *jwt.Inspector
	refreshTokens *refresh.Manager
	revoked       token.RevokedTokenCache
}

// AuthServiceOption defines a function type to modify the AuthService instance.
type AuthServiceOption func(*AuthService)

// WithRevokedTokenCache replaces the in-memory revoked access token cache.
func WithRevokedTokenCache(cache token.RevokedTokenCache) AuthServiceOption {
	return func(as *AuthService) {
		as.revoked = cache
	}
}

// NewAuthService initializes a new AuthService signing access tokens with the
// configured secret key.
func NewAuthService(repos Repos, cfg config.OAuthConfig, options ...AuthServiceOption) (*AuthService, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewAuthService] Users repo is required")
	}
	if repos.RefreshTokens == nil {
		return nil, errors.New("[NewAuthService] RefreshTokens repo is required")
	}
	signer, err := token.NewHMACSigner(cfg.GetSecretKey())
	if err != nil {
		return nil, errors.Wrap(err, "[NewAuthService] signer")
	}

	as := &AuthService{
		repos:         repos,
		creator:       jwt.NewCreator(cfg, signer),
		refreshTokens: refresh.NewManager(repos.RefreshTokens, cfg),
		revoked:       token.NewInMemoryRevokedTokenCache(),
	}
	for _, opt := range options {
		opt(as)
	}
	as.inspector = jwt.NewInspector(signer, as.revoked)
	return as, nil
}

// RevokedTokens exposes the revoked access token cache so callers can run
// periodic cleanup.
func (as *AuthService) RevokedTokens() token.RevokedTokenCache {
	return as.revoked
}

// Login checks username and password against an active user and issues an
// access and a refresh token. Unknown users, inactive users and bad passwords
// all fail with ErrInvalidCredentials.
func (as *AuthService) Login(username, password string) (*authapi.LoginResponse, error) {
	user, err := as.repos.Users.GetByUsername(username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Login] user lookup")
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, _, err := as.creator.CreateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Login] access token")
	}
	refreshToken, err := as.refreshTokens.Create(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Login] refresh token")
	}
	if err := as.repos.Users.SetLoggedIn(user.Username); err != nil {
		return nil, errors.Wrap(err, "[Login] record login")
	}

	return &authapi.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    authapi.TokenTypeBearer,
		User:         ToPrincipal(user),
	}, nil
}

// Refresh mints a new access token for the owner of rawRefreshToken. The
// refresh token itself is left in place.
func (as *AuthService) Refresh(rawRefreshToken string) (*authapi.RefreshResponse, error) {
	rt, err := as.refreshTokens.Validate(rawRefreshToken)
	if err != nil {
		return nil, err
	}
	user, err := as.repos.Users.GetByID(rt.UserID)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrInvalidRefreshToken, "[Refresh] token owner")
	}
	if !user.IsActive {
		return nil, errors.Wrap(apperrors.ErrUserInactive, "[Refresh]")
	}

	accessToken, _, err := as.creator.CreateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Refresh] access token")
	}
	return &authapi.RefreshResponse{
		AccessToken: accessToken,
		TokenType:   authapi.TokenTypeBearer,
	}, nil
}

// Authenticate verifies a bearer access token and returns its active owner.
func (as *AuthService) Authenticate(accessToken string) (*users.User, *jwt.Claims, error) {
	claims, err := as.inspector.Verify(accessToken)
	if err != nil {
		return nil, nil, err
	}
	user, err := as.repos.Users.GetByID(claims.UserID)
	if err != nil {
		return nil, nil, errors.Wrap(apperrors.ErrInvalidToken, "[Authenticate] token subject")
	}
	if !user.IsActive {
		return nil, nil, errors.Wrap(apperrors.ErrUserInactive, "[Authenticate]")
	}
	return user, claims, nil
}

// Logout revokes rawRefreshToken and the access token described by claims.
func (as *AuthService) Logout(claims *jwt.Claims, rawRefreshToken string) error {
	if rawRefreshToken != "" {
		if err := as.refreshTokens.Revoke(rawRefreshToken); err != nil {
			return errors.Wrap(err, "[Logout] revoke refresh token")
		}
	}
	if claims != nil && claims.JTI != "" {
		if err := as.revoked.Add(claims.JTI, claims.ExpiresAt); err != nil {
			return errors.Wrap(err, "[Logout] revoke access token")
		}
	}
	return nil
}

// RevokeAllSessions removes every refresh token held by userID, e.g. after a
// password reset.
func (as *AuthService) RevokeAllSessions(userID string) (int, error) {
	n, err := as.refreshTokens.RevokeAll(userID)
	if err != nil {
		return 0, errors.Wrap(err, "[RevokeAllSessions]")
	}
	return n, nil
}

// ToPrincipal converts a backend user into the record returned to clients.
func ToPrincipal(u *users.User) authapi.Principal {
	return authapi.Principal{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		RealName:  u.RealName,
		OrgID:     u.OrgID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
