package stats

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/internal/storage"
)

// JSONStore keeps every record in one JSON document keyed by user id.
// Each operation holds a process-wide lock so concurrent updates of
// different users never lose each other's writes.
type JSONStore struct {
	path string
	lock *storage.Lock
}

// NewJSONStore opens the document at path. lockTimeout bounds how long an
// operation waits for the lock.
func NewJSONStore(path string, lockTimeout time.Duration) *JSONStore {
	return &JSONStore{path: path, lock: storage.NewLock(lockTimeout)}
}

// Path returns the document location.
func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) LoadAll(ctx context.Context) (map[int64]UserStats, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.read(ctx)
}

func (s *JSONStore) SaveAll(ctx context.Context, all map[int64]UserStats) error {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return s.write(all)
}

func (s *JSONStore) Get(ctx context.Context, userID int64) (UserStats, bool, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return UserStats{}, false, err
	}
	u, ok := all[userID]
	return u, ok, nil
}

func (s *JSONStore) Update(ctx context.Context, userID int64, fn func(UserStats) UserStats) (UserStats, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		logger.Warn(ctx, "service.stats", "stats.lock_timeout", slog.String("path", s.path))
		return UserStats{}, err
	}
	defer release()

	all, err := s.read(ctx)
	if err != nil {
		return UserStats{}, err
	}
	u, ok := all[userID]
	if !ok {
		u = NewUserStats()
	}
	u = fn(u)
	all[userID] = u
	if err := s.write(all); err != nil {
		return UserStats{}, err
	}
	return u, nil
}

// read must be called with the lock held. A malformed document degrades
// to an empty one.
func (s *JSONStore) read(ctx context.Context) (map[int64]UserStats, error) {
	all := map[int64]UserStats{}
	err := storage.ReadJSON(s.path, &all)
	if errors.Is(err, storage.ErrMalformed) {
		logger.Warn(ctx, "service.stats", "stats.malformed", slog.String("path", s.path), slog.String("err", err.Error()))
		return map[int64]UserStats{}, nil
	}
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = map[int64]UserStats{}
	}
	return all, nil
}

func (s *JSONStore) write(all map[int64]UserStats) error {
	if all == nil {
		all = map[int64]UserStats{}
	}
	return storage.WriteJSON(s.path, all)
}
