package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sitais/devon/internal/secrets"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(t.TempDir())

	if err := s.Put(ctx, "keyring", "secret-value"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "keyring")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "secret-value" {
		t.Errorf("Get = %q", got)
	}

	if err := s.Delete(ctx, "keyring"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "keyring"); !errors.Is(err, secrets.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := NewStore(t.TempDir())
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, secrets.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreDeleteMissingIsNoop(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Delete(context.Background(), "nope"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestStoreFileModes(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	if err := s.Put(context.Background(), "keyring", "v"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "keyring"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %o, want 600", info.Mode().Perm())
	}
}

func TestStoreRejectsEscapingKeys(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "  ", "..", "../outside", "/etc/passwd", "."} {
		if err := s.Put(ctx, key, "v"); err == nil {
			t.Errorf("Put(%q) accepted", key)
		}
		if _, err := s.Get(ctx, key); err == nil {
			t.Errorf("Get(%q) accepted", key)
		}
	}
}

func TestStoreCancelledContext(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Put(ctx, "k", "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("Put err = %v, want context.Canceled", err)
	}
}
