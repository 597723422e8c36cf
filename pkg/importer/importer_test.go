package importer

import (
	"errors"
	"testing"
	"time"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/registry"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/store"
)

// fakeAppender collects appended entries and enforces event id uniqueness
// like the real store.
type fakeAppender struct {
	entries []model.LogEntry
	nextID  int64
	failOn  map[string]error
}

func newFakeAppender() *fakeAppender {
	return &fakeAppender{failOn: map[string]error{}}
}

func (f *fakeAppender) Append(e model.LogEntry) (int64, error) {
	if err, ok := f.failOn[e.EventID]; ok {
		return 0, err
	}
	for _, existing := range f.entries {
		if e.EventID != "" && existing.EventID == e.EventID {
			return 0, store.ErrDuplicateEvent
		}
	}
	f.nextID++
	e.ID = f.nextID
	f.entries = append(f.entries, e)
	return e.ID, nil
}

func (f *fakeAppender) eventIDs() map[string]struct{} {
	set := map[string]struct{}{}
	for _, e := range f.entries {
		set[e.EventID] = struct{}{}
	}
	return set
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.Local)
}

func TestSyncAppendsAndClassifies(t *testing.T) {
	reg := registry.New(nil)
	appender := newFakeAppender()

	events := []Event{
		{ID: "ev1", Title: "社内会議", Start: at(9, 0), End: at(10, 0)},
		{ID: "ev2", Title: "Random Topic", Start: at(10, 0), End: at(10, 30)},
	}

	res := Sync(events, nil, reg, appender)
	if len(res.Added) != 2 {
		t.Fatalf("Added = %d, want 2", len(res.Added))
	}
	if len(res.Skipped) != 0 {
		t.Fatalf("Skipped = %v, want none", res.Skipped)
	}

	first := res.Added[0]
	if first.Category != "社内" {
		t.Errorf("ev1 category = %s, want 社内", first.Category)
	}
	if first.DurationMinutes != 60 {
		t.Errorf("ev1 duration = %v, want 60", first.DurationMinutes)
	}
	if first.Source != model.SourceCalendar {
		t.Errorf("ev1 source = %s, want %s", first.Source, model.SourceCalendar)
	}
	if first.Memo != "社内会議" {
		t.Errorf("ev1 memo = %q, want the event title", first.Memo)
	}
	if first.EventID != "ev1" {
		t.Errorf("ev1 event id = %q", first.EventID)
	}
	if first.ID == 0 {
		t.Error("appended entry should carry the assigned id")
	}

	second := res.Added[1]
	if second.Category != "デフォルト" {
		t.Errorf("ev2 category = %s, want catch-all デフォルト", second.Category)
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	reg := registry.New(nil)
	appender := newFakeAppender()

	events := []Event{
		{ID: "ev1", Title: "社内会議", Start: at(9, 0), End: at(10, 0)},
		{ID: "ev2", Title: "研修資料", Start: at(10, 0), End: at(11, 0)},
	}

	first := Sync(events, nil, reg, appender)
	if len(first.Added) != 2 {
		t.Fatalf("first run Added = %d, want 2", len(first.Added))
	}

	second := Sync(events, appender.eventIDs(), reg, appender)
	if len(second.Added) != 0 {
		t.Errorf("second run Added = %d, want 0", len(second.Added))
	}
	if len(appender.entries) != 2 {
		t.Errorf("store has %d entries, want 2", len(appender.entries))
	}
}

func TestSyncSkipsInvalidRangeAndContinues(t *testing.T) {
	reg := registry.New(nil)
	appender := newFakeAppender()

	events := []Event{
		{ID: "bad", Title: "社内", Start: at(10, 0), End: at(10, 0)}, // end == start
		{ID: "ok", Title: "社内", Start: at(10, 0), End: at(11, 0)},
	}

	res := Sync(events, nil, reg, appender)
	if len(res.Added) != 1 || res.Added[0].EventID != "ok" {
		t.Fatalf("Added = %+v, want just ok", res.Added)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("Skipped = %d, want 1", len(res.Skipped))
	}
	if !errors.Is(res.Skipped[0], store.ErrInvalidRange) {
		t.Errorf("skip reason = %v, want ErrInvalidRange", res.Skipped[0])
	}
}

func TestSyncContinuesPastAppendFailure(t *testing.T) {
	reg := registry.New(nil)
	appender := newFakeAppender()
	// Simulate a concurrent import racing on ev1.
	appender.failOn["ev1"] = store.ErrDuplicateEvent

	events := []Event{
		{ID: "ev1", Title: "社内", Start: at(9, 0), End: at(10, 0)},
		{ID: "ev2", Title: "社内", Start: at(10, 0), End: at(11, 0)},
	}

	res := Sync(events, nil, reg, appender)
	if len(res.Added) != 1 || res.Added[0].EventID != "ev2" {
		t.Fatalf("Added = %+v, want just ev2", res.Added)
	}
	if len(res.Skipped) != 1 || !errors.Is(res.Skipped[0], store.ErrDuplicateEvent) {
		t.Errorf("Skipped = %v, want one ErrDuplicateEvent", res.Skipped)
	}
}

func TestSyncProcessesInFeedOrder(t *testing.T) {
	reg := registry.New(nil)
	appender := newFakeAppender()

	events := []Event{
		{ID: "later", Title: "社内", Start: at(15, 0), End: at(16, 0)},
		{ID: "earlier", Title: "社内", Start: at(9, 0), End: at(10, 0)},
	}

	res := Sync(events, nil, reg, appender)
	if res.Added[0].EventID != "later" || res.Added[1].EventID != "earlier" {
		t.Error("events must be processed in feed order, not reordered")
	}
}
