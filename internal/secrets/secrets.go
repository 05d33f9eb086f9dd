// Package secrets defines the secret store interface and the keyring
// facade layered on top of it. Backends live in the pass, file and
// chain subpackages.
package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no secret exists under the key.
var ErrNotFound = errors.New("secret not found")

// Store persists named secrets. Implementations must return an error
// wrapping ErrNotFound from Get when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
