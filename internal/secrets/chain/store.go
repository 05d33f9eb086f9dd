// Package chain composes two secret stores: an encrypting primary and
// a degraded fallback. The fallback is consulted only when the primary
// is unavailable on this machine, never to paper over real failures.
package chain

import (
	"context"
	"errors"

	"github.com/sitais/devon/internal/secrets"
	filestore "github.com/sitais/devon/internal/secrets/file"
	passstore "github.com/sitais/devon/internal/secrets/pass"
)

type Store struct {
	primary  secrets.Store
	fallback secrets.Store
}

var _ secrets.Store = (*Store)(nil)

func NewStore(primary, fallback secrets.Store) *Store {
	return &Store{primary: primary, fallback: fallback}
}

// NewDefault is pass-first with a plain-file fallback rooted at
// fileRoot, the stock configuration of devond.
func NewDefault(fileRoot string) *Store {
	return NewStore(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil || !useFallback(err) {
		return value, err
	}
	return s.fallback.Get(ctx, key)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil || !useFallback(err) {
		return err
	}
	return s.fallback.Put(ctx, key, value)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if err == nil || !useFallback(err) {
		return err
	}
	return s.fallback.Delete(ctx, key)
}

func useFallback(err error) bool {
	return errors.Is(err, passstore.ErrUnavailable)
}
