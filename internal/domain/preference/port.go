package preference

import "context"

// Store is a per-visitor key-value store (cookies in the browser, or a SQL table).
type Store interface {
	Get(ctx context.Context, visitorID, key string) (string, bool, error)
	Set(ctx context.Context, visitorID, key, value string) error
}
