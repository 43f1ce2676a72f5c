// Package metadata persists small client-side values (the session hint,
// the account snapshot and transport cookies) in a SQLite key/value table.
package metadata

import (
	"context"
)

// Well-known keys. Logout clears all of them.
const (
	KeySession = "session"
	KeyAccount = "account"
	KeyCookies = "cookies"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
