package state

import (
	"log/slog"
	"sync"
	"time"

	"github.com/commedeschamps/KieliSan/core/logger"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

type entry struct {
	state State
	at    time.Time
}

type memoryManager struct {
	mu       sync.RWMutex
	states   map[int64]entry
	handlers map[State]tele.HandlerFunc
	ttl      time.Duration
	now      func() time.Time
}

// Option configures NewMemoryManager.
type Option func(*memoryManager)

// WithTTL makes a state lapse back to idle after d. Zero keeps states
// until cleared.
func WithTTL(d time.Duration) Option {
	return func(m *memoryManager) { m.ttl = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *memoryManager) { m.now = now }
}

// NewMemoryManager returns a Manager that keeps states in memory only.
func NewMemoryManager(opts ...Option) Manager {
	m := &memoryManager{
		states:   make(map[int64]entry),
		handlers: make(map[State]tele.HandlerFunc),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == StateIdle || st == "" {
		delete(m.states, userID)
		return
	}
	m.states[userID] = entry{state: st, at: m.now()}
}

func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	e, ok := m.states[userID]
	m.mu.RUnlock()
	if !ok {
		return StateIdle
	}
	if m.ttl > 0 && m.now().Sub(e.at) > m.ttl {
		m.mu.Lock()
		if cur, still := m.states[userID]; still && cur.at.Equal(e.at) {
			delete(m.states, userID)
		}
		m.mu.Unlock()
		return StateIdle
	}
	return e.state
}

func (m *memoryManager) ClearState(userID int64) {
	m.SetState(userID, StateIdle)
}

func (m *memoryManager) InProgress(userID int64) bool {
	return m.GetState(userID) != StateIdle
}

func (m *memoryManager) Handle(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.mu.Lock()
	m.handlers[st] = h
	m.mu.Unlock()
}

// ManagerHandler runs the handler bound to the sender's current state.
// Idle users and states without a handler are ignored.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	current := m.GetState(user.ID)
	m.mu.RLock()
	handler, ok := m.handlers[current]
	m.mu.RUnlock()

	logger.Debug(tghelpers.BuildContext(c), "tg", "fsm.manager",
		slog.String("state", string(current)),
		slog.Bool("handled", ok),
	)
	if !ok {
		return nil
	}
	return handler(c)
}
