package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"attendance-engine/internal/engine"
	"attendance-engine/internal/roster"
)

func TestWriteExceptionsCSV(t *testing.T) {
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	rows := []engine.ExceptionRecord{
		{
			ID:            "ex-1",
			EmployeeID:    "E-1",
			Date:          day,
			Type:          engine.LateIn,
			Details:       "Clocked in 15 minute(s) past the grace period",
			Status:        engine.ExceptionPending,
			SourceEventID: "ev-1",
		},
		{
			ID:         "ex-2",
			EmployeeID: "E-404",
			Date:       day,
			Type:       engine.MissingIn,
			Details:    "No clock-in recorded for the scheduled shift",
			Status:     engine.ExceptionAcknowledged,
		},
	}
	dir := roster.NewDirectory([]roster.Employee{{ID: "E-1", FullName: "Amara Velez"}})

	var buf bytes.Buffer
	if err := WriteExceptionsCSV(&buf, rows, dir); err != nil {
		t.Fatalf("WriteExceptionsCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(records))
	}

	want := []string{"ex-1", "Amara Velez", "2024-03-18", "LateIn", "Clocked in 15 minute(s) past the grace period", "Pending", "ev-1"}
	for i, cell := range want {
		if records[1][i] != cell {
			t.Errorf("Row 1 column %d = %q, want %q", i, records[1][i], cell)
		}
	}

	if records[2][1] != "Unknown" {
		t.Errorf("Unknown employee must render as placeholder, got %q", records[2][1])
	}
	if records[2][6] != "" {
		t.Errorf("Exceptions without a source event must leave the column empty, got %q", records[2][6])
	}
}
