package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/internal/storage"
)

// JSONSink appends entries to a JSON array document. Entries already in
// the file are kept as raw JSON, so layouts written by older versions of
// the bot survive an append unchanged.
type JSONSink struct {
	path string
	lock *storage.Lock
}

// NewJSONSink writes to the document at path.
func NewJSONSink(path string, lockTimeout time.Duration) *JSONSink {
	return &JSONSink{path: path, lock: storage.NewLock(lockTimeout)}
}

func (s *JSONSink) Append(ctx context.Context, e Entry) error {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	var entries []json.RawMessage
	if err := storage.ReadJSON(s.path, &entries); err != nil {
		if !errors.Is(err, storage.ErrMalformed) {
			return err
		}
		logger.Warn(ctx, "service.feedback", "feedback.malformed", slog.String("path", s.path), slog.String("err", err.Error()))
		entries = nil
	}
	raw, err := storage.Encode(e)
	if err != nil {
		return fmt.Errorf("encode feedback entry: %w", err)
	}
	return storage.WriteJSON(s.path, append(entries, bytes.TrimSpace(raw)))
}
