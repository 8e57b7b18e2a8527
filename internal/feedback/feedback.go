// Package feedback stores free-text messages users send to the authors.
package feedback

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/commedeschamps/KieliSan/core/logger"
)

// MaxTextLength caps a single entry; longer text is truncated.
const MaxTextLength = 4000

// ErrEmptyText is returned for blank feedback.
var ErrEmptyText = errors.New("feedback: empty text")

// Entry is one feedback message.
type Entry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Sink is an append-only feedback log.
type Sink interface {
	Append(ctx context.Context, e Entry) error
}

// Service validates and stamps entries before handing them to a sink.
type Service struct {
	sink Sink
	now  func() time.Time
}

// NewService wraps sink.
func NewService(sink Sink) *Service {
	return &Service{sink: sink, now: time.Now}
}

// Submit records text from userID and returns the stored entry.
func (s *Service) Submit(ctx context.Context, userID int64, username, text string) (Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		text = string([]rune(text)[:MaxTextLength])
	}
	e := Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  username,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sink.Append(ctx, e); err != nil {
		logger.Error(ctx, "service.feedback", "feedback.append_failed", slog.String("err", err.Error()))
		return Entry{}, err
	}
	logger.Info(ctx, "service.feedback", "feedback.received",
		slog.String("feedback_id", e.ID.String()),
		slog.Int("text_len", utf8.RuneCountInString(text)),
	)
	return e, nil
}
