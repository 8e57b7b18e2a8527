package bot

import "sync"

// answeredLimit bounds the remembered mini quiz messages.
const answeredLimit = 5000

type messageKey struct {
	chatID    int64
	messageID int
}

// answeredSet remembers which mini quiz messages were already answered.
// It forgets everything once limit entries accumulate.
type answeredSet struct {
	mu    sync.Mutex
	seen  map[messageKey]struct{}
	limit int
}

func newAnsweredSet(limit int) *answeredSet {
	return &answeredSet{seen: make(map[messageKey]struct{}), limit: limit}
}

// Mark records the message and reports whether it was new.
func (s *answeredSet) Mark(chatID int64, messageID int) bool {
	key := messageKey{chatID: chatID, messageID: messageID}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	if s.limit > 0 && len(s.seen) >= s.limit {
		clear(s.seen)
	}
	s.seen[key] = struct{}{}
	return true
}

func (s *answeredSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
