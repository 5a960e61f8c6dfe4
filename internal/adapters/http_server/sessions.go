package httpserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"listing_console/internal/adapters/observability"
	"listing_console/internal/app"
	"listing_console/internal/domain"
)

type session struct {
	mu       sync.Mutex
	w        *app.Wizard
	lastSeen time.Time
}

// Sessions holds wizard sessions in memory. Each wizard is used by one
// request at a time; requests for different sessions do not contend.
type Sessions struct {
	mu   sync.RWMutex
	m    map[string]*session
	idle time.Duration
	now  func() time.Time
}

func NewSessions(idle time.Duration) *Sessions {
	return &Sessions{m: map[string]*session{}, idle: idle, now: time.Now}
}

func (s *Sessions) Add(w *app.Wizard) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.m[id] = &session{w: w, lastSeen: s.now()}
	n := len(s.m)
	s.mu.Unlock()
	observability.OpenSessions.Set(float64(n))
	return id
}

// With runs fn with exclusive access to the session's wizard.
func (s *Sessions) With(id string, fn func(w *app.Wizard) error) error {
	s.mu.RLock()
	sess, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("wizard session %q: %w", id, domain.ErrNotFound)
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastSeen = s.now()
	return fn(sess.w)
}

func (s *Sessions) Remove(id string) {
	s.mu.Lock()
	delete(s.m, id)
	n := len(s.m)
	s.mu.Unlock()
	observability.OpenSessions.Set(float64(n))
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Sweep cancels and drops sessions idle for longer than the idle timeout.
// Sessions busy with a request are skipped.
func (s *Sessions) Sweep() int {
	if s.idle <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	var dropped int
	for id, sess := range s.m {
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastSeen.Before(cutoff) {
			sess.w.Cancel()
			delete(s.m, id)
			dropped++
		}
		sess.mu.Unlock()
	}
	n := len(s.m)
	s.mu.Unlock()

	observability.OpenSessions.Set(float64(n))
	return dropped
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				log.Info().Int("dropped", n).Msg("idle wizard sessions swept")
			}
		}
	}
}
