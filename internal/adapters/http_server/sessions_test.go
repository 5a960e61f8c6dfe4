package httpserver

import (
	"errors"
	"sync"
	"testing"
	"time"

	"listing_console/internal/app"
	"listing_console/internal/domain"
)

func newTestWizard() *app.Wizard {
	return app.NewWizard(nil, nil, domain.NewHierarchyIndex(nil, nil, nil), domain.NewDraft(), app.WizardOptions{})
}

func TestSessions_AddWithRemove(t *testing.T) {
	s := NewSessions(time.Hour)
	w := newTestWizard()
	id := s.Add(w)
	if s.Len() != 1 {
		t.Fatalf("len=%d", s.Len())
	}

	var got *app.Wizard
	if err := s.With(id, func(x *app.Wizard) error { got = x; return nil }); err != nil {
		t.Fatalf("with: %v", err)
	}
	if got != w {
		t.Fatal("wrong wizard")
	}

	s.Remove(id)
	if err := s.With(id, func(*app.Wizard) error { return nil }); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSessions_SweepDropsIdleOnly(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(30 * time.Minute)
	s.now = func() time.Time { return now }

	old := newTestWizard()
	oldID := s.Add(old)
	now = now.Add(20 * time.Minute)
	freshID := s.Add(newTestWizard())

	now = now.Add(15 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Fatalf("dropped=%d", n)
	}
	if !old.Closed() {
		t.Fatal("swept wizard must be cancelled")
	}
	if err := s.With(oldID, func(*app.Wizard) error { return nil }); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("old session still present: %v", err)
	}
	if err := s.With(freshID, func(*app.Wizard) error { return nil }); err != nil {
		t.Fatalf("fresh session: %v", err)
	}
}

func TestSessions_SweepSkipsBusy(t *testing.T) {
	now := time.Now()
	s := NewSessions(time.Minute)
	s.now = func() time.Time { return now }
	id := s.Add(newTestWizard())

	entered := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.With(id, func(*app.Wizard) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	s.mu.Lock()
	s.m[id].lastSeen = now.Add(-time.Hour)
	s.mu.Unlock()

	if n := s.Sweep(); n != 0 {
		t.Fatalf("busy session swept")
	}
	close(release)
	wg.Wait()
	if s.Len() != 1 {
		t.Fatalf("len=%d", s.Len())
	}
}

func TestSessions_NoIdleTimeout(t *testing.T) {
	s := NewSessions(0)
	s.Add(newTestWizard())
	if n := s.Sweep(); n != 0 || s.Len() != 1 {
		t.Fatalf("sweep with idle=0 must keep sessions")
	}
}
