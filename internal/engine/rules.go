package engine

import (
	"fmt"
	"time"

	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

// ExceptionType classifies a machine-detected attendance anomaly.
type ExceptionType string

const (
	LateIn        ExceptionType = "LateIn"
	MissingIn     ExceptionType = "MissingIn"
	MissingOut    ExceptionType = "MissingOut"
	Undertime     ExceptionType = "Undertime"
	DoubleLog     ExceptionType = "DoubleLog"
	MissingBreak  ExceptionType = "MissingBreak"
	ExtendedBreak ExceptionType = "ExtendedBreak"
	// OutsideFence exists in the taxonomy for geofence violations; no
	// rule emits it because fence definitions are not an engine input.
	OutsideFence ExceptionType = "OutsideFence"
)

// ExceptionStatus is the acknowledgement state of an exception.
// Detection always emits Pending; only a reviewer action outside the
// engine moves it forward.
type ExceptionStatus string

const (
	ExceptionPending      ExceptionStatus = "Pending"
	ExceptionAcknowledged ExceptionStatus = "Acknowledged"
)

// ExceptionRecord is one flagged anomaly for human review.
type ExceptionRecord struct {
	ID            string          `json:"id" gorm:"column:id;primaryKey"`
	EmployeeID    string          `json:"employeeId" gorm:"column:employee_id;index"`
	Date          time.Time       `json:"date" gorm:"column:date;type:date;index"`
	Type          ExceptionType   `json:"type" gorm:"column:type"`
	Details       string          `json:"details" gorm:"column:details"`
	Status        ExceptionStatus `json:"status" gorm:"column:status"`
	SourceEventID string          `json:"sourceEventId,omitempty" gorm:"column:source_event_id"`
}

func (ExceptionRecord) TableName() string {
	return "exception_records"
}

// Tolerance buffers applied by the rule battery.
const (
	undertimeToleranceMinutes = 1
	breakToleranceMinutes     = 5
)

// EvaluateRules runs the standalone anomaly battery for one assignment.
// It is computed from the punch stream directly, independent of the
// daily record's schedule tags; consumers query the two separately.
//
// Rules never return errors: missing data for a rule means the rule
// does not fire. Assignments whose template is absent, the day-off
// sentinel, or starts at literal midnight are treated as non-working
// and skipped entirely.
func EvaluateRules(a roster.ShiftAssignment, tmpl *roster.ShiftTemplate, day *timeclock.DaySequence, clock Clock, loc *time.Location) []ExceptionRecord {
	if tmpl == nil || tmpl.IsDayOff() {
		return nil
	}
	startMin, err := roster.MinutesOfDay(tmpl.StartTime)
	if err != nil || startMin == 0 {
		return nil
	}

	start, end := ResolveWindow(a, tmpl, loc)
	if start == nil || end == nil {
		return nil
	}

	var out []ExceptionRecord
	now := clock.Now()

	var firstIn, lastOut, breakStart, breakEnd *timeclock.TimeEvent
	if day != nil {
		firstIn = day.FirstIn()
		lastOut = day.LastOut()
		breakStart = day.FirstBreakStart()
		breakEnd = day.FirstBreakEnd()
	}

	// 1. LateIn: first punch-in past the grace window
	graceEnd := start.Add(time.Duration(tmpl.GracePeriodMinutes) * time.Minute)
	if firstIn != nil && firstIn.Timestamp.After(graceEnd) {
		delta := int(firstIn.Timestamp.Sub(graceEnd).Minutes())
		out = append(out, ExceptionRecord{
			ID:            deriveID("late-in", firstIn.ID),
			EmployeeID:    a.EmployeeID,
			Date:          a.Date,
			Type:          LateIn,
			Details:       fmt.Sprintf("Clocked in %d minute(s) past the grace period", delta),
			Status:        ExceptionPending,
			SourceEventID: firstIn.ID,
		})
	}

	// 2. MissingIn: no punch-in and the shift has already ended
	if firstIn == nil && now.After(*end) {
		out = append(out, ExceptionRecord{
			ID:         deriveID("missing-in", a.ID),
			EmployeeID: a.EmployeeID,
			Date:       a.Date,
			Type:       MissingIn,
			Details:    "No clock-in recorded for the scheduled shift",
			Status:     ExceptionPending,
		})
	}

	// 3. MissingOut: punched in, never out, shift over
	if firstIn != nil && lastOut == nil && now.After(*end) {
		out = append(out, ExceptionRecord{
			ID:            deriveID("missing-out", a.ID),
			EmployeeID:    a.EmployeeID,
			Date:          a.Date,
			Type:          MissingOut,
			Details:       "No clock-out recorded for the scheduled shift",
			Status:        ExceptionPending,
			SourceEventID: firstIn.ID,
		})
	}

	// 4. Undertime: left more than the tolerance before scheduled end
	if lastOut != nil {
		cutoff := end.Add(-time.Duration(undertimeToleranceMinutes) * time.Minute)
		if lastOut.Timestamp.Before(cutoff) {
			delta := int(end.Sub(lastOut.Timestamp).Minutes())
			out = append(out, ExceptionRecord{
				ID:            deriveID("undertime", lastOut.ID),
				EmployeeID:    a.EmployeeID,
				Date:          a.Date,
				Type:          Undertime,
				Details:       fmt.Sprintf("Clocked out %d minute(s) before scheduled end", delta),
				Status:        ExceptionPending,
				SourceEventID: lastOut.ID,
			})
		}
	}

	// 5. MissingBreak: full working span with an allowance but no break punches
	if firstIn != nil && lastOut != nil && tmpl.BreakMinutes > 0 && breakStart == nil && breakEnd == nil {
		out = append(out, ExceptionRecord{
			ID:         deriveID("missing-break", a.ID),
			EmployeeID: a.EmployeeID,
			Date:       a.Date,
			Type:       MissingBreak,
			Details:    fmt.Sprintf("No break taken against a %d-minute allowance", tmpl.BreakMinutes),
			Status:     ExceptionPending,
		})
	}

	// 6. MissingBreak (unterminated): break started but never ended
	if breakStart != nil && breakEnd == nil {
		out = append(out, ExceptionRecord{
			ID:            deriveID("unterminated-break", breakStart.ID),
			EmployeeID:    a.EmployeeID,
			Date:          a.Date,
			Type:          MissingBreak,
			Details:       "Break started but never ended",
			Status:        ExceptionPending,
			SourceEventID: breakStart.ID,
		})
	}

	// 7. ExtendedBreak: first break pair exceeds allowance plus tolerance
	if breakStart != nil && breakEnd != nil {
		observed := int(breakEnd.Timestamp.Sub(breakStart.Timestamp).Minutes())
		if observed > tmpl.BreakMinutes+breakToleranceMinutes {
			out = append(out, ExceptionRecord{
				ID:            deriveID("extended-break", breakStart.ID),
				EmployeeID:    a.EmployeeID,
				Date:          a.Date,
				Type:          ExtendedBreak,
				Details:       fmt.Sprintf("Break lasted %d minute(s) against a %d-minute allowance", observed, tmpl.BreakMinutes),
				Status:        ExceptionPending,
				SourceEventID: breakStart.ID,
			})
		}
	}

	// 8. DoubleLog: duplicate-punch state machine over the day's stream
	if day != nil {
		for _, e := range day.DoublePunches() {
			out = append(out, ExceptionRecord{
				ID:            deriveID("double-log", e.ID),
				EmployeeID:    a.EmployeeID,
				Date:          a.Date,
				Type:          DoubleLog,
				Details:       fmt.Sprintf("Duplicate %s punch", e.Type),
				Status:        ExceptionPending,
				SourceEventID: e.ID,
			})
		}
	}

	return out
}
