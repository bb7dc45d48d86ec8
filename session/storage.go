package session

// Durable slot keys. Each slot is written independently so a crash between
// writes never leaves a half-encoded record behind.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyPrincipal    = "user"
)

// Storage is the durable backing of a Store: independently keyed string slots.
// Get reports ok=false for a missing slot. Remove of a missing slot is not an error.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
