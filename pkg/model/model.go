package model

import (
	"math"
	"time"
)

// Source identifies how a log entry was created.
const (
	SourceManual      = "Manual"
	SourceManualEntry = "ManualEntry"
	SourceCalendar    = "Calendar"
)

// Unclassified is the sub-category used when a matched category has no
// sub-categories of its own.
const Unclassified = "未分類"

// Category is one top-level work classification. Color is a display hint
// only; Keywords drive automatic classification of imported events.
type Category struct {
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	Subs     []string `json:"subs"`
	Keywords []string `json:"keywords"`
}

// LogEntry is one completed (or backfilled) unit of tracked work time.
// Category/SubCategory reference a Category by name only; rows survive
// category edits unchanged.
type LogEntry struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"` // session start, local time
	Category        string    `json:"category"`
	SubCategory     string    `json:"sub_category"`
	DurationMinutes float64   `json:"duration_minutes"`
	Memo            string    `json:"memo"`
	Source          string    `json:"source"`
	EventID         string    `json:"event_id,omitempty"` // unique when present
}

// RoundMinutes rounds a duration to the 2-decimal minute precision stored
// in log rows.
func RoundMinutes(d time.Duration) float64 {
	return math.Round(d.Minutes()*100) / 100
}
