package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
)

// logRow is the persisted form of a model.LogEntry. EventID is a pointer so
// that rows without an external event keep a NULL column and stay out of
// the unique index.
type logRow struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	Timestamp       time.Time
	Category        string
	SubCategory     string
	DurationMinutes float64
	Memo            string
	Source          string
	EventID         *string `gorm:"uniqueIndex"`
}

func (logRow) TableName() string { return "logs" }

// categoryRow persists one registry category. Subs and Keywords are stored
// comma-joined, the same shape the original settings sheet used.
type categoryRow struct {
	Name     string `gorm:"primaryKey"`
	Color    string
	Position int
	Subs     string
	Keywords string
}

func (categoryRow) TableName() string { return "categories" }

// Store is the durable backend for log entries and categories, an embedded
// sqlite database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the sqlite database at path and runs
// schema migration.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&logRow{}, &categoryRow{}); err != nil {
		return nil, fmt.Errorf("unable to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func toRow(e model.LogEntry) logRow {
	row := logRow{
		ID:              e.ID,
		Timestamp:       e.Timestamp,
		Category:        e.Category,
		SubCategory:     e.SubCategory,
		DurationMinutes: e.DurationMinutes,
		Memo:            e.Memo,
		Source:          e.Source,
	}
	if e.EventID != "" {
		id := e.EventID
		row.EventID = &id
	}
	return row
}

func toEntry(row logRow) model.LogEntry {
	e := model.LogEntry{
		ID:              row.ID,
		Timestamp:       row.Timestamp,
		Category:        row.Category,
		SubCategory:     row.SubCategory,
		DurationMinutes: row.DurationMinutes,
		Memo:            row.Memo,
		Source:          row.Source,
	}
	if row.EventID != nil {
		e.EventID = *row.EventID
	}
	return e
}

// Append durably stores a new log entry and returns the assigned id.
// An entry carrying an already-stored external event id fails with
// ErrDuplicateEvent.
func (s *Store) Append(e model.LogEntry) (int64, error) {
	if e.DurationMinutes < 0 {
		return 0, fmt.Errorf("duration %.2f is negative: %w", e.DurationMinutes, ErrValidation)
	}
	row := toRow(e)
	row.ID = 0
	if err := s.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("event %s already imported: %w", e.EventID, ErrDuplicateEvent)
		}
		return 0, fmt.Errorf("unable to append log entry: %w", err)
	}
	return row.ID, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// List returns every log entry, most recent first.
func (s *Store) List() ([]model.LogEntry, error) {
	var rows []logRow
	if err := s.db.Order("timestamp DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("unable to list log entries: %w", err)
	}
	entries := make([]model.LogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntry(row))
	}
	return entries, nil
}

// Get returns the log entry with the given id.
func (s *Store) Get(id int64) (model.LogEntry, error) {
	var row logRow
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.LogEntry{}, fmt.Errorf("log entry %d: %w", id, ErrNotFound)
		}
		return model.LogEntry{}, fmt.Errorf("unable to get log entry %d: %w", id, err)
	}
	return toEntry(row), nil
}

// LogUpdate is a partial update of an existing log entry. Nil fields are
// left untouched.
type LogUpdate struct {
	Timestamp       *time.Time
	Category        *string
	SubCategory     *string
	DurationMinutes *float64
	Memo            *string
}

// Update applies a partial update to the entry with the given id. The
// category fields are not validated against the registry; rows may
// reference names that no longer exist.
func (s *Store) Update(id int64, u LogUpdate) error {
	if u.DurationMinutes != nil && *u.DurationMinutes < 0 {
		return fmt.Errorf("duration %.2f is negative: %w", *u.DurationMinutes, ErrValidation)
	}
	fields := map[string]interface{}{}
	if u.Timestamp != nil {
		fields["timestamp"] = *u.Timestamp
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.SubCategory != nil {
		fields["sub_category"] = *u.SubCategory
	}
	if u.DurationMinutes != nil {
		fields["duration_minutes"] = *u.DurationMinutes
	}
	if u.Memo != nil {
		fields["memo"] = *u.Memo
	}

	var row logRow
	if err := s.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("log entry %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("unable to load log entry %d: %w", id, err)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.db.Model(&row).Updates(fields).Error; err != nil {
		return fmt.Errorf("unable to update log entry %d: %w", id, err)
	}
	return nil
}

// UpdateMemo sets the memo of an existing entry. This is the second phase
// of the save-then-prompt flow: the row is appended with an empty memo
// first so the timed duration is never lost.
func (s *Store) UpdateMemo(id int64, memo string) error {
	return s.Update(id, LogUpdate{Memo: &memo})
}

// Delete removes the entry with the given id. Deleting an id that does not
// exist is a no-op.
func (s *Store) Delete(id int64) error {
	if err := s.db.Delete(&logRow{}, id).Error; err != nil {
		return fmt.Errorf("unable to delete log entry %d: %w", id, err)
	}
	return nil
}

// DeleteMany deletes each id independently. A failing id does not stop the
// remaining deletions; all failures are reported together.
func (s *Store) DeleteMany(ids []int64) error {
	var errs []error
	for _, id := range ids {
		if err := s.Delete(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EventIDs returns the set of external event ids already stored, used by
// the importer to keep re-runs idempotent.
func (s *Store) EventIDs() (map[string]struct{}, error) {
	var ids []string
	err := s.db.Model(&logRow{}).Where("event_id IS NOT NULL").Pluck("event_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("unable to list event ids: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// LoadCategories returns the stored categories in configured order. An
// empty result means the registry has never been saved.
func (s *Store) LoadCategories() ([]model.Category, error) {
	var rows []categoryRow
	if err := s.db.Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("unable to load categories: %w", err)
	}
	cats := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		cats = append(cats, model.Category{
			Name:     row.Name,
			Color:    row.Color,
			Subs:     splitList(row.Subs),
			Keywords: splitList(row.Keywords),
		})
	}
	return cats, nil
}

// SaveCategories replaces the whole stored registry with cats, preserving
// their order.
func (s *Store) SaveCategories(cats []model.Category) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&categoryRow{}).Error; err != nil {
			return err
		}
		for i, c := range cats {
			row := categoryRow{
				Name:     c.Name,
				Color:    c.Color,
				Position: i,
				Subs:     strings.Join(c.Subs, ","),
				Keywords: strings.Join(c.Keywords, ","),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to save categories: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
