// Package importer performs the one-way sync from an external event feed
// into the log store.
package importer

import (
	"fmt"
	"log"
	"time"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
	"github.com/tomokot1225-ops/sagyo-mania/pkg/store"
)

// Event is one item from the external feed. The importer does not fetch or
// authenticate; it only consumes a prepared sequence.
type Event struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
}

// Appender is the slice of the log store the importer writes through.
type Appender interface {
	Append(model.LogEntry) (int64, error)
}

// Classifier maps an event title to a (category, sub-category) pair.
type Classifier interface {
	Classify(text string) (string, string)
}

// EventError records why a single event was skipped.
type EventError struct {
	EventID string
	Err     error
}

func (e EventError) Error() string {
	return fmt.Sprintf("event %s: %v", e.EventID, e.Err)
}

func (e EventError) Unwrap() error { return e.Err }

// Result reports one sync run: the entries actually appended and the
// events that were skipped. A failed event never aborts the batch.
type Result struct {
	Added   []model.LogEntry
	Skipped []EventError
}

// Sync appends every event not present in existing to the store, in feed
// order. Events with end ≤ start are skipped with ErrInvalidRange; append
// failures (including a concurrent import of the same id) are collected
// and the batch continues. Re-running with a store that already holds all
// events appends nothing.
func Sync(events []Event, existing map[string]struct{}, classifier Classifier, appender Appender) Result {
	var res Result
	for _, ev := range events {
		if _, ok := existing[ev.ID]; ok {
			continue
		}
		if !ev.End.After(ev.Start) {
			res.Skipped = append(res.Skipped, EventError{EventID: ev.ID, Err: store.ErrInvalidRange})
			continue
		}
		category, subCategory := classifier.Classify(ev.Title)
		entry := model.LogEntry{
			Timestamp:       ev.Start,
			Category:        category,
			SubCategory:     subCategory,
			DurationMinutes: model.RoundMinutes(ev.End.Sub(ev.Start)),
			Memo:            ev.Title,
			Source:          model.SourceCalendar,
			EventID:         ev.ID,
		}
		id, err := appender.Append(entry)
		if err != nil {
			log.Printf("sync: skipping event %s: %v", ev.ID, err)
			res.Skipped = append(res.Skipped, EventError{EventID: ev.ID, Err: err})
			continue
		}
		entry.ID = id
		res.Added = append(res.Added, entry)
	}
	return res
}
