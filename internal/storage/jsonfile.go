// Package storage holds the file primitives shared by the JSON-backed
// statistics store and feedback sink.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrLockTimeout is returned when the write lock could not be acquired in time.
var ErrLockTimeout = lockError{}

type lockError struct{}

func (lockError) Error() string { return "storage: lock timeout" }
func (lockError) Code() string  { return "lock_timeout" }

// ErrMalformed marks a document that exists but does not decode.
var ErrMalformed = errors.New("storage: malformed document")

// Lock is a process-wide mutex whose acquisition is bounded in time.
type Lock struct {
	sem     chan struct{}
	timeout time.Duration
}

// NewLock creates a lock. A non-positive timeout waits only on ctx.
func NewLock(timeout time.Duration) *Lock {
	return &Lock{sem: make(chan struct{}, 1), timeout: timeout}
}

// Acquire blocks until the lock is held, ctx is done or the timeout
// elapses. The returned func releases the lock.
func (l *Lock) Acquire(ctx context.Context) (func(), error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrLockTimeout
		}
		return nil, ctx.Err()
	}
}

// ReadJSON decodes the file at path into dst. A missing or empty file
// leaves dst untouched and returns nil; undecodable content returns
// ErrMalformed.
func ReadJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return nil
}

// Encode renders v the way documents are stored on disk: two-space
// indent, non-ASCII and HTML characters kept literal.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON replaces the file at path with the encoding of v. The data is
// written to a temp file in the same directory and renamed over path.
func WriteJSON(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
