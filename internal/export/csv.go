package export

import (
	"encoding/csv"
	"io"
	"os"

	"attendance-engine/internal/engine"
	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

// WriteExceptionsCSV writes the compliance export consumed by audit
// reporting: raw exception fields with the employee id resolved to a
// display name. Unknown employees render as the "Unknown" placeholder.
func WriteExceptionsCSV(w io.Writer, rows []engine.ExceptionRecord, dir roster.Directory) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"id",
		"employee",
		"date",
		"type",
		"details",
		"status",
		"source_event_id",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, ex := range rows {
		rec := []string{
			ex.ID,
			dir.DisplayName(ex.EmployeeID),
			ex.Date.Format(timeclock.DayKeyFormat),
			string(ex.Type),
			ex.Details,
			string(ex.Status),
			ex.SourceEventID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	return cw.Error()
}

// WriteExceptionsCSVFile is WriteExceptionsCSV against a file path.
func WriteExceptionsCSVFile(path string, rows []engine.ExceptionRecord, dir roster.Directory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteExceptionsCSV(f, rows, dir)
}
