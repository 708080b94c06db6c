package ports

import "context"

// SecretStore is the durable key-value storage used for credentials and the session user.
// Get returns an error wrapping domain.ErrSecretNotFound when the key does not exist.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
