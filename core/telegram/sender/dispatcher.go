// Package sender runs outbound Bot API calls on a small pool of workers.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/core/telegram/netutil"
)

const component = "tg.sender"

var (
	// ErrQueueClosed is returned by Enqueue after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull is returned when the chat's shard has no room.
	ErrQueueFull = errors.New("telegram sender: queue full")

	errNilRun = errors.New("telegram sender: nil run function")
)

// Options tunes the dispatcher. Zero values get defaults; QueueSize is
// split across the Workers shards.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds one job including all its retries.
	MaxDuration time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	o.MaxRetries = max(o.MaxRetries, 0)
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 12 * time.Second
	}
	return o
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

func (j job) attrs(extra ...slog.Attr) []slog.Attr {
	attrs := []slog.Attr{slog.String("action", j.action)}
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	return append(attrs, extra...)
}

// Dispatcher runs send jobs asynchronously with retries. A chat always maps
// to the same worker, so a quiz explanation can never overtake the question
// it follows.
type Dispatcher struct {
	opts   Options
	shards []chan job
	mu     sync.RWMutex
	closed bool
	once   sync.Once
	wg     sync.WaitGroup
	errs   atomic.Uint64
	rr     atomic.Uint64
}

// NewDispatcher starts the workers.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{opts: opts, shards: make([]chan job, opts.Workers)}
	perShard := max(opts.QueueSize/opts.Workers, 16)
	d.wg.Add(len(d.shards))
	for i := range d.shards {
		d.shards[i] = make(chan job, perShard)
		go d.work(d.shards[i])
	}
	return d
}

func (d *Dispatcher) shard(chatID int64) chan job {
	n := uint64(len(d.shards))
	if chatID == 0 {
		return d.shards[d.rr.Add(1)%n]
	}
	if chatID < 0 {
		chatID = -chatID
	}
	return d.shards[uint64(chatID)%n]
}

// Enqueue schedules run on the worker owning the chat stored in ctx. run
// may be called more than once when it fails with a retryable error.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errNilRun
	}
	if ctx == nil {
		ctx = context.Background()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.shard(logger.ChatIDFrom(ctx)) <- job{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

// ErrorCount returns how many jobs failed for good.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// Close stops accepting jobs and waits until the queued ones finish.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		for _, ch := range d.shards {
			close(ch)
		}
		d.mu.Unlock()
		d.wg.Wait()
	})
}

func (d *Dispatcher) work(jobs <-chan job) {
	defer d.wg.Done()
	for j := range jobs {
		d.process(j)
	}
}

func (d *Dispatcher) process(j job) {
	start := time.Now()
	logger.Debug(j.ctx, component, "send.start", j.attrs()...)

	attempt, err := d.attempt(j)
	elapsed := slog.Int64("elapsed_ms", logger.RoundMS(time.Since(start)).Milliseconds())
	if err == nil {
		if attempt > 1 {
			logger.Info(j.ctx, component, "send.retry.success", j.attrs(slog.Int("attempt", attempt), elapsed)...)
			return
		}
		logger.Debug(j.ctx, component, "send.success", j.attrs(elapsed)...)
		return
	}
	d.errs.Add(1)
	logger.Error(j.ctx, component, "send.fail", j.attrs(
		slog.String("error", netutil.Redact(err)),
		slog.String("error_kind", netutil.Classify(err)),
		slog.Int("attempts", attempt),
		elapsed,
	)...)
}

// attempt runs the job until it succeeds, fails permanently, runs out of
// retries or hits MaxDuration. It returns the number of calls made.
func (d *Dispatcher) attempt(j job) (int, error) {
	ctx, cancel := context.WithTimeout(j.ctx, d.opts.MaxDuration)
	defer cancel()

	limit := d.opts.MaxRetries + 1
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return n - 1, err
		}
		err := j.run()
		if err == nil {
			return n, nil
		}
		if n == limit || !netutil.ShouldRetry(err) {
			return n, err
		}
		delay := d.opts.RetryBackoff * time.Duration(n)
		if wait, ok := netutil.RetryAfter(err); ok && wait > delay {
			delay = wait
		}
		logger.Debug(j.ctx, component, "send.retry.backoff", j.attrs(slog.Int("attempt", n), slog.Duration("delay", delay))...)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return n, ctx.Err()
		case <-timer.C:
		}
	}
}
