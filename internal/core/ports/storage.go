package ports

import "context"

// LocalStorage is the client-local key/value store holding the credential
// token and the theme preference of one client.
type LocalStorage interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// StorageProvider hands out LocalStorage scoped to one browser session.
type StorageProvider interface {
	Scope(namespace string) LocalStorage
}

// TokenSource yields the credential token attached to outgoing backend calls.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}
