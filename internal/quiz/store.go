package quiz

import "sync"

// SessionStore keeps at most one session per conversation in memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]*Session)}
}

// Get returns a copy of the session for chatID.
func (s *SessionStore) Get(chatID int64) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return nil, false
	}
	return sess.clone(), true
}

// Set stores sess for chatID, replacing any previous session.
func (s *SessionStore) Set(chatID int64, sess *Session) {
	if sess == nil {
		s.Clear(chatID)
		return
	}
	s.mu.Lock()
	s.sessions[chatID] = sess
	s.mu.Unlock()
}

// Clear drops the session for chatID and reports whether one existed.
func (s *SessionStore) Clear(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	return ok
}

// Update runs fn on the stored session under the store lock. fn must not
// block. ErrNoSession is returned when chatID has no session.
func (s *SessionStore) Update(chatID int64, fn func(*Session) error) error {
	return s.Mutate(chatID, func(sess *Session) (bool, error) {
		return true, fn(sess)
	})
}

// Mutate is Update where fn also decides whether the session stays. When fn
// returns keep == false without an error, the session is dropped before the
// lock is released.
func (s *SessionStore) Mutate(chatID int64, fn func(*Session) (keep bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return ErrNoSession
	}
	keep, err := fn(sess)
	if err != nil {
		return err
	}
	if !keep {
		delete(s.sessions, chatID)
	}
	return nil
}

// Len returns the number of active sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
