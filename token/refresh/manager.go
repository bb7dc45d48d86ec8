package refresh

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager handles refresh token creation, validation and revocation. Tokens
// are not rotated on use: a refresh only mints a new access token.
type Manager struct {
	repo   Repo
	config config.OAuthConfig
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, cfg config.OAuthConfig) *Manager {
	return &Manager{
		repo:   repo,
		config: cfg,
	}
}

// Create generates a new refresh token for userID, stores its hash and returns
// the raw token.
func (m *Manager) Create(userID string) (string, error) {
	tokenBytes := make([]byte, m.config.GetRefreshTokenLength())
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	raw := base64.RawURLEncoding.EncodeToString(tokenBytes)
	now := NowTimeFunc()
	if err := m.repo.Upsert(&StoredRefreshToken{
		TokenHash: HashToken(raw),
		UserID:    userID,
		Iat:       now,
		ExpiresAt: now.Add(m.config.GetDefaultRefreshTokenExpiry()),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return raw, nil
}

// Validate returns the stored token for raw. Unknown tokens fail with
// ErrInvalidRefreshToken and expired ones with ErrRefreshTokenExpired.
func (m *Manager) Validate(raw string) (*StoredRefreshToken, error) {
	if raw == "" {
		return nil, errors.ErrInvalidRefreshToken
	}
	rt, err := m.repo.Get(HashToken(raw))
	if err != nil {
		return nil, errors.Join(errors.ErrInvalidRefreshToken, err)
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(rt.TokenHash)
		return nil, errors.ErrRefreshTokenExpired
	}
	return rt, nil
}

// Revoke removes raw. Revoking an unknown token is not an error.
func (m *Manager) Revoke(raw string) error {
	err := m.repo.Delete(HashToken(raw))
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}
	return nil
}

// RevokeAll removes every token held by userID.
func (m *Manager) RevokeAll(userID string) (int, error) {
	return m.repo.DeleteByUserID(userID)
}

// IsExpired checks if a refresh token has expired
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return !NowTimeFunc().Before(rt.ExpiresAt)
}

// HashToken returns the hex SHA-256 digest stored in place of raw.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
