package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// keyringEntry is the single secret under which the whole keyring blob
// is stored.
const keyringEntry = "keyring"

// keyringBlob is the JSON document holding every named value. The whole
// blob is rewritten on every mutation; there are no partial updates.
type keyringBlob struct {
	APIKeys      map[string]string `json:"api_keys"`
	UseModelName string            `json:"use_model_name,omitempty"`
}

// Keyring is the mapping convenience layer over a Store: a handful of
// named API keys and the preferred model name, kept in one encrypted
// JSON blob. Every mutation is a load, edit, save cycle serialized by
// an in-process mutex, which makes this a single-writer store; it must
// not be shared across processes.
type Keyring struct {
	store Store
	mu    sync.Mutex
}

func NewKeyring(store Store) *Keyring {
	return &Keyring{store: store}
}

func (k *Keyring) load(ctx context.Context) (*keyringBlob, error) {
	raw, err := k.store.Get(ctx, keyringEntry)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &keyringBlob{APIKeys: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("load keyring: %w", err)
	}
	blob := &keyringBlob{}
	if err := json.Unmarshal([]byte(raw), blob); err != nil {
		return nil, fmt.Errorf("decode keyring: %w", err)
	}
	if blob.APIKeys == nil {
		blob.APIKeys = make(map[string]string)
	}
	return blob, nil
}

func (k *Keyring) save(ctx context.Context, blob *keyringBlob) error {
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode keyring: %w", err)
	}
	if err := k.store.Put(ctx, keyringEntry, string(data)); err != nil {
		return fmt.Errorf("save keyring: %w", err)
	}
	return nil
}

// AddAPIKey stores value under name, replacing any previous value.
func (k *Keyring) AddAPIKey(ctx context.Context, name, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	blob, err := k.load(ctx)
	if err != nil {
		return err
	}
	blob.APIKeys[name] = value
	return k.save(ctx, blob)
}

// GetAPIKey returns the key stored under name. The second result is
// false when no such key exists; that is not an error.
func (k *Keyring) GetAPIKey(ctx context.Context, name string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	blob, err := k.load(ctx)
	if err != nil {
		return "", false, err
	}
	value, ok := blob.APIKeys[name]
	return value, ok, nil
}

// RemoveAPIKey deletes the key stored under name. Removing an absent
// key is a no-op.
func (k *Keyring) RemoveAPIKey(ctx context.Context, name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	blob, err := k.load(ctx)
	if err != nil {
		return err
	}
	delete(blob.APIKeys, name)
	return k.save(ctx, blob)
}

// SetUseModelName records the preferred model.
func (k *Keyring) SetUseModelName(ctx context.Context, name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	blob, err := k.load(ctx)
	if err != nil {
		return err
	}
	blob.UseModelName = name
	return k.save(ctx, blob)
}

// GetUseModelName returns the preferred model, or "" when unset.
func (k *Keyring) GetUseModelName(ctx context.Context) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	blob, err := k.load(ctx)
	if err != nil {
		return "", err
	}
	return blob.UseModelName, nil
}

// Has reports whether an encrypted keyring blob exists at all.
func (k *Keyring) Has(ctx context.Context) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, err := k.store.Get(ctx, keyringEntry)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Reset deletes the whole keyring blob.
func (k *Keyring) Reset(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.store.Delete(ctx, keyringEntry); err != nil {
		return fmt.Errorf("reset keyring: %w", err)
	}
	return nil
}
