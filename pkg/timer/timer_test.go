package timer

import (
	"testing"
	"time"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)}
}

func TestStartStop(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	if s.Running() {
		t.Fatal("new session should be idle")
	}

	s.Start("社内", "準備")
	if !s.Running() {
		t.Fatal("session should be running after Start")
	}

	clock.Advance(90 * time.Second)
	if got := s.Observe(); got != 90*time.Second {
		t.Errorf("Observe() = %v, want 90s", got)
	}

	entry := s.Stop()
	if s.Running() {
		t.Error("session should be idle after Stop")
	}
	if entry.Category != "社内" || entry.SubCategory != "準備" {
		t.Errorf("unexpected categories: %s / %s", entry.Category, entry.SubCategory)
	}
	if entry.DurationMinutes != 1.5 {
		t.Errorf("DurationMinutes = %v, want 1.5", entry.DurationMinutes)
	}
	if entry.Source != model.SourceManual {
		t.Errorf("Source = %s, want %s", entry.Source, model.SourceManual)
	}
	if entry.Memo != "" {
		t.Errorf("Memo should be empty, got %q", entry.Memo)
	}
	if !entry.Timestamp.Equal(clock.Now()) {
		t.Errorf("Timestamp = %v, want %v", entry.Timestamp, clock.Now())
	}
	if got := s.Observe(); got != 0 {
		t.Errorf("elapsed should reset to 0 after stop, got %v", got)
	}
}

func TestStartWhileRunningIsIgnored(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	s.Start("社内", "社内")
	clock.Advance(10 * time.Minute)

	// Repeated starts must not preempt the active session.
	s.Start("研修", "MENTA")
	s.Start("社外", "商談")

	category, subCategory := s.Category()
	if category != "社内" || subCategory != "社内" {
		t.Errorf("active session preempted: %s / %s", category, subCategory)
	}
	if got := s.Observe(); got != 10*time.Minute {
		t.Errorf("Observe() = %v, want 10m: startInstant must be unchanged", got)
	}
}

func TestDurationRounding(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	s.Start("社内", "準備")
	clock.Advance(100 * time.Second) // 1.666... minutes

	entry := s.Stop()
	if entry.DurationMinutes != 1.67 {
		t.Errorf("DurationMinutes = %v, want 1.67 (2-decimal rounding)", entry.DurationMinutes)
	}
}

func TestObserveMonotonicWhileRunning(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	s.Start("社内", "準備")
	prev := s.Observe()
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
		got := s.Observe()
		if got < prev {
			t.Fatalf("Observe() decreased: %v -> %v", prev, got)
		}
		prev = got
	}
}

func TestObserveFrozenWhileIdle(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	s.Start("社内", "準備")
	clock.Advance(time.Minute)
	s.Stop()

	clock.Advance(time.Hour)
	if got := s.Observe(); got != 0 {
		t.Errorf("idle Observe() = %v, want frozen 0", got)
	}
}

func TestCancelDiscardsSession(t *testing.T) {
	clock := newFakeClock()
	s := New(clock.Now)

	s.Start("社内", "準備")
	clock.Advance(time.Minute)
	s.Cancel()

	if s.Running() {
		t.Error("session should be idle after Cancel")
	}
	if got := s.Observe(); got != 0 {
		t.Errorf("Observe() = %v after Cancel, want 0", got)
	}

	// The slot is free again.
	s.Start("研修", "MENTA")
	if category, _ := s.Category(); category != "研修" {
		t.Errorf("Start after Cancel picked up %s", category)
	}
}
