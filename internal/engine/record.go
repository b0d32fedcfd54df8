package engine

import (
	"time"

	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

// RecordStatus is the review lifecycle state of a daily record. The
// engine only ever initializes it; transitions are external input.
type RecordStatus string

const (
	RecordPending   RecordStatus = "Pending"
	RecordReviewed  RecordStatus = "Reviewed"
	RecordDisputed  RecordStatus = "Disputed"
	RecordFinalized RecordStatus = "Finalized"
)

// RecordTag is a schedule-deviation marker attached to a daily record.
// Tags are the first-pass check computed against the resolved schedule;
// the standalone rule battery in rules.go is a second, independent pass
// and downstream consumers read the two separately.
type RecordTag string

const (
	TagLate       RecordTag = "Late"
	TagAbsent     RecordTag = "Absent"
	TagUndertime  RecordTag = "Undertime"
	TagMissingOut RecordTag = "MissingOut"
)

// AttendanceRecord is the reconciled per-employee-per-day summary.
// It is recomputed fresh on every run; only Status carries externally
// annotated state between runs.
type AttendanceRecord struct {
	ID             string     `json:"id" gorm:"column:id;primaryKey"`
	EmployeeID     string     `json:"employeeId" gorm:"column:employee_id;index"`
	Date           time.Time  `json:"date" gorm:"column:date;type:date;index"`
	ScheduledStart *time.Time `json:"scheduledStart,omitempty" gorm:"column:scheduled_start;type:timestamptz"`
	ScheduledEnd   *time.Time `json:"scheduledEnd,omitempty" gorm:"column:scheduled_end;type:timestamptz"`
	ShiftName      string     `json:"shiftName" gorm:"column:shift_name"`
	FirstIn        *time.Time `json:"firstIn,omitempty" gorm:"column:first_in;type:timestamptz"`
	LastOut        *time.Time `json:"lastOut,omitempty" gorm:"column:last_out;type:timestamptz"`
	// TotalWorkMinutes is the single span first-in to last-out minus the
	// nominal break allowance, intentionally not a sum of sub-intervals.
	TotalWorkMinutes int `json:"totalWorkMinutes" gorm:"column:total_work_minutes"`
	BreakMinutes     int `json:"breakMinutes" gorm:"column:break_minutes"`
	// OvertimeMinutes is a placeholder; approved overtime is merged
	// downstream during payroll staging.
	OvertimeMinutes int          `json:"overtimeMinutes" gorm:"column:overtime_minutes"`
	Tags            []RecordTag  `json:"tags,omitempty" gorm:"column:tags;serializer:json"`
	HasManualEntry  bool         `json:"hasManualEntry" gorm:"column:has_manual_entry"`
	Status          RecordStatus `json:"status" gorm:"column:status"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// BuildRecord combines a resolved schedule with the day's sequenced
// events into one attendance record. day may be nil when the employee
// produced no punches on the assignment's date.
func BuildRecord(a roster.ShiftAssignment, tmpl *roster.ShiftTemplate, day *timeclock.DaySequence, clock Clock, loc *time.Location) AttendanceRecord {
	rec := AttendanceRecord{
		ID:         recordID(a),
		EmployeeID: a.EmployeeID,
		Date:       a.Date,
		Status:     RecordPending,
	}

	rec.ScheduledStart, rec.ScheduledEnd = ResolveWindow(a, tmpl, loc)

	breakAllowance := 0
	grace := 0
	if tmpl != nil {
		rec.ShiftName = tmpl.Name
		breakAllowance = tmpl.BreakMinutes
		grace = tmpl.GracePeriodMinutes
	}

	if day != nil {
		if in := day.FirstIn(); in != nil {
			t := in.Timestamp
			rec.FirstIn = &t
		}
		if out := day.LastOut(); out != nil {
			t := out.Timestamp
			rec.LastOut = &t
		}
		rec.HasManualEntry = day.HasManualEntry()
	}

	if rec.FirstIn != nil && rec.LastOut != nil {
		span := int(rec.LastOut.Sub(*rec.FirstIn).Minutes())
		worked := span - breakAllowance
		if worked < 0 {
			worked = 0
		}
		rec.TotalWorkMinutes = worked
		rec.BreakMinutes = breakAllowance
	}

	rec.Tags = scheduleTags(rec, grace, clock)
	return rec
}

// scheduleTags computes the first-pass deviation tags against the
// resolved schedule. Records without a schedule carry no tags.
func scheduleTags(rec AttendanceRecord, graceMinutes int, clock Clock) []RecordTag {
	if rec.ScheduledStart == nil || rec.ScheduledEnd == nil {
		return nil
	}

	var tags []RecordTag
	now := clock.Now()
	graceEnd := rec.ScheduledStart.Add(time.Duration(graceMinutes) * time.Minute)

	if rec.FirstIn != nil && rec.FirstIn.After(graceEnd) {
		tags = append(tags, TagLate)
	}
	if rec.FirstIn == nil && now.After(*rec.ScheduledEnd) {
		tags = append(tags, TagAbsent)
	}
	if rec.LastOut != nil && rec.LastOut.Before(*rec.ScheduledEnd) {
		tags = append(tags, TagUndertime)
	}
	if rec.FirstIn != nil && rec.LastOut == nil && now.After(*rec.ScheduledEnd) {
		tags = append(tags, TagMissingOut)
	}

	return tags
}
