// Package export renders a full snapshot of the log for external tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tomokot1225-ops/sagyo-mania/pkg/model"
)

// Header matches the column layout of the original log sheet.
var Header = []string{"Date", "Category", "SubCategory", "Duration", "Memo", "Source", "EventID"}

// WriteCSV writes all entries as CSV, header first, in the order given.
func WriteCSV(w io.Writer, entries []model.LogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Category,
			e.SubCategory,
			strconv.FormatFloat(e.DurationMinutes, 'f', 2, 64),
			e.Memo,
			e.Source,
			e.EventID,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
