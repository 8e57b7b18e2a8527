package quiz

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource map[Pool][]Question

func (s staticSource) Questions(pool Pool) []Question { return s[pool] }

type recorderStub struct {
	mu      sync.Mutex
	results []Result
	players []Player
	err     error
}

func (r *recorderStub) Record(_ context.Context, p Player, res Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = append(r.players, p)
	r.results = append(r.results, res)
	return r.err
}

func newTestService(rec Recorder) *Service {
	src := staticSource{
		PoolNumbers: bank(),
		PoolCompare: bank()[2:3],
	}
	return NewService(NewEngine(DefaultPoints(), WithShuffle(noShuffle)), NewSessionStore(), src, rec)
}

func TestServiceFullRun(t *testing.T) {
	rec := &recorderStub{}
	svc := newTestService(rec)
	ctx := context.Background()
	player := Player{ID: 7, Username: "aru"}

	view, err := svc.Start(ctx, 1, PoolNumbers, ModeEasy)
	require.NoError(t, err)
	assert.Equal(t, "e1", view.Question.ID)

	step, err := svc.Answer(ctx, 1, player, PoolNumbers, 0, "B")
	require.NoError(t, err)
	require.NotNil(t, step.Next)
	assert.True(t, step.Outcome.IsCorrect)
	assert.Equal(t, 2, step.Next.Number)
	assert.True(t, step.Next.Multi)

	view, err = svc.Toggle(1, PoolNumbers, 1, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, view.Selected)

	step, err = svc.Submit(ctx, 1, player, PoolNumbers, 1)
	require.NoError(t, err)
	require.NotNil(t, step.Result)
	assert.Nil(t, step.Next)
	assert.Equal(t, Result{Pool: PoolNumbers, Mode: ModeEasy, Correct: 2, Total: 2, Points: 2}, *step.Result)

	_, ok := svc.Active(1)
	assert.False(t, ok)
	require.Len(t, rec.results, 1)
	assert.Equal(t, player, rec.players[0])
}

func TestServiceRejectsOtherPool(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	_, err := svc.Start(ctx, 1, PoolCompare, ModeMixed)
	require.NoError(t, err)

	_, err = svc.Answer(ctx, 1, Player{}, PoolNumbers, 0, "A")
	assert.ErrorIs(t, err, ErrStaleAnswer)
	_, err = svc.Toggle(1, PoolNumbers, 0, "A")
	assert.ErrorIs(t, err, ErrStaleQuestion)

	pool, ok := svc.Active(1)
	assert.True(t, ok)
	assert.Equal(t, PoolCompare, pool)
}

func TestServiceNoSession(t *testing.T) {
	svc := newTestService(nil)
	_, err := svc.Answer(context.Background(), 9, Player{}, PoolNumbers, 0, "A")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.Current(9)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.False(t, svc.Cancel(context.Background(), 9))
}

func TestServiceStartFailureKeepsPrevious(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	_, err := svc.Start(ctx, 1, PoolNumbers, ModeEasy)
	require.NoError(t, err)

	_, err = svc.Start(ctx, 1, PoolCompare, ModeEasy)
	assert.ErrorIs(t, err, ErrNoQuestionsAvailable)
	pool, ok := svc.Active(1)
	assert.True(t, ok)
	assert.Equal(t, PoolNumbers, pool)
}

func TestServiceRecordErrorStillFinishes(t *testing.T) {
	rec := &recorderStub{err: errors.New("disk full")}
	svc := newTestService(rec)
	ctx := context.Background()
	_, err := svc.Start(ctx, 1, PoolCompare, ModeMixed)
	require.NoError(t, err)

	step, err := svc.Answer(ctx, 1, Player{ID: 1}, PoolCompare, 0, "A")
	require.NoError(t, err)
	require.NotNil(t, step.Result)
	assert.EqualError(t, step.RecordErr, "disk full")
	assert.Equal(t, 3, step.Result.Points)
}

func TestSessionStoreGetReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	store.Set(1, &Session{Questions: bank(), Selected: map[string]bool{}})

	cp, ok := store.Get(1)
	require.True(t, ok)
	cp.Current = 3
	cp.Selected["A"] = true

	orig, _ := store.Get(1)
	assert.Zero(t, orig.Current)
	assert.Empty(t, orig.Selected)

	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Clear(1))
	assert.False(t, store.Clear(1))
	assert.ErrorIs(t, store.Update(1, func(*Session) error { return nil }), ErrNoSession)
}

func TestSessionStoreConcurrentUpdates(t *testing.T) {
	store := NewSessionStore()
	store.Set(1, &Session{Selected: map[string]bool{}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Update(1, func(s *Session) error {
				s.Points++
				return nil
			})
		}()
	}
	wg.Wait()
	sess, _ := store.Get(1)
	assert.Equal(t, 50, sess.Points)
}

func TestSessionStoreMutateDropsUnderLock(t *testing.T) {
	store := NewSessionStore()
	store.Set(1, &Session{Pool: PoolNumbers, Questions: bank()})

	err := store.Mutate(1, func(s *Session) (bool, error) {
		assert.Equal(t, 1, len(store.sessions))
		return false, nil
	})
	require.NoError(t, err)
	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Set(2, &Session{Pool: PoolNumbers, Questions: bank()})
	err = store.Mutate(2, func(*Session) (bool, error) { return false, ErrStaleAnswer })
	assert.ErrorIs(t, err, ErrStaleAnswer)
	_, ok = store.Get(2)
	assert.True(t, ok, "a failed mutation keeps the session")
}

type restartingRecorder struct {
	svc *Service
}

func (r *restartingRecorder) Record(ctx context.Context, _ Player, _ Result) error {
	_, err := r.svc.Start(ctx, 1, PoolNumbers, ModeEasy)
	return err
}

func TestServiceFinishKeepsSessionStartedAfterIt(t *testing.T) {
	rec := &restartingRecorder{}
	svc := newTestService(rec)
	rec.svc = svc
	ctx := context.Background()
	_, err := svc.Start(ctx, 1, PoolCompare, ModeMixed)
	require.NoError(t, err)

	step, err := svc.Answer(ctx, 1, Player{ID: 1}, PoolCompare, 0, "A")
	require.NoError(t, err)
	require.NotNil(t, step.Result)
	require.NoError(t, step.RecordErr)

	pool, ok := svc.Active(1)
	require.True(t, ok)
	assert.Equal(t, PoolNumbers, pool)
}
