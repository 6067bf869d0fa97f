package ports

import "context"

// Session store keys.
const (
	SessionKeyToken   = "token"
	SessionKeyUser    = "user"
	SessionKeyProfile = "profileData"
)

// SessionStore is the persisted key-value state behind a client session.
// Every write replaces the whole value stored under a key.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
