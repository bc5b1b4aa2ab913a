package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"sous-chef/backend/internal/graph"
	"sous-chef/backend/pkg/logger"
)

// Session is the per-user conversation state. The NLU context is an opaque
// blob owned by the conversation service and echoed back each turn; the
// remaining fields are the turn handler's own scratch, kept separate from
// that blob on purpose.
type Session struct {
	// mu serializes turns for this user; a second message sent before the
	// first turn resolves waits instead of racing on the shared state
	mu sync.Mutex

	UserID     string
	NLUContext map[string]interface{}
	UserVertex *graph.Vertex
	Anchor     *graph.Vertex
	Matches    []graph.RecipeRef
	Started    bool
}

// Lock acquires the session for one turn
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session after a turn
func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Reset clears all per-conversation state so the next message starts a
// fresh cycle. The user vertex survives; it is not conversation state.
func (s *Session) Reset() {
	s.NLUContext = nil
	s.Anchor = nil
	s.Matches = nil
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store holds sessions keyed by user id with TTL-based eviction. Sessions
// are created lazily on first access and expire after the idle TTL, so the
// map does not grow without bound over the process lifetime.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	done    chan struct{}
	closed  sync.Once
	logger  *zap.Logger
}

// NewStore creates a session store and starts its eviction janitor
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		done:    make(chan struct{}),
		logger:  logger.Get(),
	}
	go s.janitor()
	return s
}

// Get returns the session for the user, creating it on first access.
// Access refreshes the session's idle deadline.
func (s *Store) Get(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if e, ok := s.entries[userID]; ok {
		e.lastSeen = now
		return e.session
	}

	sess := &Session{UserID: userID}
	s.entries[userID] = &entry{session: sess, lastSeen: now}
	s.logger.Debug("Session created", zap.String("user_id", userID))
	return sess
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the eviction janitor
func (s *Store) Close() {
	s.closed.Do(func() {
		close(s.done)
	})
}

func (s *Store) janitor() {
	interval := s.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.done:
			return
		}
	}
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, userID)
			s.logger.Debug("Session expired", zap.String("user_id", userID))
		}
	}
}
