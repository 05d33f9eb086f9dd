// Package pass stores secrets in the pass(1) password store, which
// encrypts at rest with the user's GPG identity. Encryption itself
// happens entirely out of process; this package only shells out.
package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"

	"github.com/sitais/devon/internal/secrets"
)

// ErrUnavailable means the pass binary is not installed; callers fall
// back to another store.
var ErrUnavailable = errors.New("pass command unavailable")

// DefaultPrefix namespaces all keys inside the password store.
const DefaultPrefix = "devon"

// run executes a pass subcommand. Replaced in tests.
type run func(ctx context.Context, stdin string, args ...string) (stdout, stderr string, err error)

type Store struct {
	prefix string
	run    run
}

var _ secrets.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{prefix: DefaultPrefix, run: execPass}
}

func (s *Store) entry(key string) string {
	return path.Join(s.prefix, key)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, stderr, err := s.run(ctx, value+"\n", "insert", "-m", "-f", s.entry(key))
	if err != nil {
		return opError("put", key, err, stderr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	stdout, stderr, err := s.run(ctx, "", "show", s.entry(key))
	if err != nil {
		if isMissing(stderr) {
			return "", fmt.Errorf("pass get %q: %w", key, secrets.ErrNotFound)
		}
		return "", opError("get", key, err, stderr)
	}
	return strings.TrimRight(stdout, "\r\n"), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, stderr, err := s.run(ctx, "", "rm", "-f", s.entry(key))
	if err != nil {
		// Deleting a secret that was never stored is not an error.
		if isMissing(stderr) {
			return nil
		}
		return opError("delete", key, err, stderr)
	}
	return nil
}

func isMissing(stderr string) bool {
	return strings.Contains(stderr, "is not in the password store")
}

func execPass(ctx context.Context, stdin string, args ...string) (string, string, error) {
	bin, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func opError(op, key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}
	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
