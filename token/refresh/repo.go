package refresh

import (
	"time"
)

// StoredRefreshToken represents the server-side storage of a refresh token.
// The client only ever holds the raw token; the server keeps its SHA-256 hash
// so a leaked store cannot be replayed.
type StoredRefreshToken struct {
	TokenHash string    // hex SHA-256 of the raw token
	UserID    string    // user the token was issued to
	Iat       time.Time // issued at
	ExpiresAt time.Time
}

// Repo manages server-side storage of refresh tokens keyed by token hash.
// A user may hold several tokens, one per logged-in device.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(tokenHash string) error
	Get(tokenHash string) (*StoredRefreshToken, error)
	DeleteByUserID(userID string) (int, error)
	List(offset, limit int) ([]*StoredRefreshToken, error)
}
