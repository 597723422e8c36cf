// Package timer implements the single-active-session stopwatch.
package timer

import (
	"time"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
)

// Clock supplies the current time. Tests inject a fake; production uses
// time.Now.
type Clock func() time.Time

// Session is the timer state machine: Idle until Start, Running until Stop
// or Cancel. Exactly one logical session exists; a Start while running is
// ignored so the active session is never preempted.
type Session struct {
	clock Clock

	running     bool
	start       time.Time
	category    string
	subCategory string
	elapsed     time.Duration // frozen value, authoritative only while idle
}

// New creates an idle session. A nil clock defaults to time.Now.
func New(clock Clock) *Session {
	if clock == nil {
		clock = time.Now
	}
	return &Session{clock: clock}
}

// Running reports whether a session is active.
func (s *Session) Running() bool { return s.running }

// Category returns the category being timed, empty while idle.
func (s *Session) Category() (string, string) {
	return s.category, s.subCategory
}

// Start begins timing the given category. If a session is already running
// the request is ignored: first writer wins.
func (s *Session) Start(category, subCategory string) {
	if s.running {
		return
	}
	s.running = true
	s.start = s.clock()
	s.category = category
	s.subCategory = subCategory
}

// Observe returns the elapsed time: derived from the clock while running,
// the frozen value while idle.
func (s *Session) Observe() time.Duration {
	if s.running {
		return s.clock().Sub(s.start)
	}
	return s.elapsed
}

// Stop ends the running session and returns the candidate log entry for
// the store: Source=Manual, empty memo. The memo is attached afterwards
// with UpdateMemo so the timed duration is saved even if the user abandons
// the memo prompt. Elapsed resets to zero.
func (s *Session) Stop() model.LogEntry {
	entry := model.LogEntry{
		Timestamp:       s.clock(),
		Category:        s.category,
		SubCategory:     s.subCategory,
		DurationMinutes: model.RoundMinutes(s.Observe()),
		Source:          model.SourceManual,
	}
	s.reset()
	return entry
}

// Cancel discards the running session without producing a record.
func (s *Session) Cancel() {
	s.reset()
}

func (s *Session) reset() {
	s.running = false
	s.start = time.Time{}
	s.category = ""
	s.subCategory = ""
	s.elapsed = 0
}
