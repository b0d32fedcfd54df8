package engine

import (
	"testing"
	"time"

	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

func punch(id, emp string, ts time.Time, typ timeclock.EventType) timeclock.TimeEvent {
	return timeclock.TimeEvent{ID: id, EmployeeID: emp, Timestamp: ts, Type: typ, Source: timeclock.SourceDevice}
}

func sequenceFor(emp string, events []timeclock.TimeEvent, day time.Time) *timeclock.DaySequence {
	days := timeclock.PartitionByDay(emp, events, time.UTC)
	return days[day.Format(timeclock.DayKeyFormat)]
}

var officeTemplate = roster.ShiftTemplate{
	ID:                 "T-OFFICE",
	Name:               "Office",
	StartTime:          "09:00",
	EndTime:            "18:00",
	BreakMinutes:       60,
	GracePeriodMinutes: 10,
}

func TestBuildRecord_ExampleScenario(t *testing.T) {
	// Within grace at 09:07, a 70-minute break, out at 17:30.
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	a := roster.ShiftAssignment{ID: "A-1", EmployeeID: "E-1", Date: day, ShiftTemplateID: officeTemplate.ID}
	events := []timeclock.TimeEvent{
		punch("ev-1", "E-1", day.Add(9*time.Hour+7*time.Minute), timeclock.ClockIn),
		punch("ev-2", "E-1", day.Add(12*time.Hour), timeclock.StartBreak),
		punch("ev-3", "E-1", day.Add(13*time.Hour+10*time.Minute), timeclock.EndBreak),
		punch("ev-4", "E-1", day.Add(17*time.Hour+30*time.Minute), timeclock.ClockOut),
	}

	clock := FixedClock(day.Add(20 * time.Hour))
	rec := BuildRecord(a, &officeTemplate, sequenceFor("E-1", events, day), clock, time.UTC)

	if rec.FirstIn == nil || !rec.FirstIn.Equal(day.Add(9*time.Hour+7*time.Minute)) {
		t.Errorf("Unexpected firstIn: %v", rec.FirstIn)
	}
	if rec.LastOut == nil || !rec.LastOut.Equal(day.Add(17*time.Hour+30*time.Minute)) {
		t.Errorf("Unexpected lastOut: %v", rec.LastOut)
	}
	// (17:30 - 09:07) = 503 minutes, minus the 60-minute allowance
	if rec.TotalWorkMinutes != 443 {
		t.Errorf("Expected 443 worked minutes, got %d", rec.TotalWorkMinutes)
	}
	if rec.BreakMinutes != 60 {
		t.Errorf("Expected the nominal 60-minute break allowance, got %d", rec.BreakMinutes)
	}
	if rec.Status != RecordPending {
		t.Errorf("New records must initialize at Pending, got %s", rec.Status)
	}

	// 09:07 is within grace; 17:30 is before 18:00.
	assertTags(t, rec.Tags, []RecordTag{TagUndertime})
}

func TestBuildRecord_LateTagRespectsGrace(t *testing.T) {
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	a := roster.ShiftAssignment{ID: "A-2", EmployeeID: "E-1", Date: day, ShiftTemplateID: officeTemplate.ID}

	cases := []struct {
		name   string
		in     time.Duration
		isLate bool
	}{
		{"exactly at grace boundary", 9*time.Hour + 10*time.Minute, false},
		{"one minute past grace", 9*time.Hour + 11*time.Minute, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := []timeclock.TimeEvent{
				punch("ev-in", "E-1", day.Add(tc.in), timeclock.ClockIn),
				punch("ev-out", "E-1", day.Add(18*time.Hour), timeclock.ClockOut),
			}
			rec := BuildRecord(a, &officeTemplate, sequenceFor("E-1", events, day), FixedClock(day.Add(20*time.Hour)), time.UTC)

			if got := hasTag(rec.Tags, TagLate); got != tc.isLate {
				t.Errorf("Late tag = %v, want %v (tags %v)", got, tc.isLate, rec.Tags)
			}
		})
	}
}

func TestBuildRecord_AbsentOnlyAfterShiftEnd(t *testing.T) {
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	a := roster.ShiftAssignment{ID: "A-3", EmployeeID: "E-1", Date: day, ShiftTemplateID: officeTemplate.ID}

	// Mid-shift: no punches yet, but not absent yet either.
	rec := BuildRecord(a, &officeTemplate, nil, FixedClock(day.Add(12*time.Hour)), time.UTC)
	if hasTag(rec.Tags, TagAbsent) {
		t.Errorf("Absent must not fire before scheduled end, tags %v", rec.Tags)
	}

	// After shift end with no punches.
	rec = BuildRecord(a, &officeTemplate, nil, FixedClock(day.Add(19*time.Hour)), time.UTC)
	assertTags(t, rec.Tags, []RecordTag{TagAbsent})
	if rec.TotalWorkMinutes != 0 {
		t.Errorf("No punches must yield 0 worked minutes, got %d", rec.TotalWorkMinutes)
	}
}

func TestBuildRecord_MissingOutTag(t *testing.T) {
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	a := roster.ShiftAssignment{ID: "A-4", EmployeeID: "E-1", Date: day, ShiftTemplateID: officeTemplate.ID}
	events := []timeclock.TimeEvent{
		punch("ev-in", "E-1", day.Add(9*time.Hour), timeclock.ClockIn),
	}

	rec := BuildRecord(a, &officeTemplate, sequenceFor("E-1", events, day), FixedClock(day.Add(19*time.Hour)), time.UTC)
	assertTags(t, rec.Tags, []RecordTag{TagMissingOut})
}

func TestBuildRecord_ManualEntryFlag(t *testing.T) {
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	a := roster.ShiftAssignment{ID: "A-5", EmployeeID: "E-1", Date: day, ShiftTemplateID: officeTemplate.ID}
	events := []timeclock.TimeEvent{
		punch("ev-in", "E-1", day.Add(9*time.Hour), timeclock.ClockIn),
		{ID: "ev-out", EmployeeID: "E-1", Timestamp: day.Add(18 * time.Hour), Type: timeclock.ClockOut, Source: timeclock.SourceManual},
	}

	rec := BuildRecord(a, &officeTemplate, sequenceFor("E-1", events, day), FixedClock(day.Add(20*time.Hour)), time.UTC)
	if !rec.HasManualEntry {
		t.Error("Expected manual-entry flag when any punch is manual")
	}
}

func TestBuildRecord_NoScheduleNoTags(t *testing.T) {
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	a := roster.ShiftAssignment{ID: "A-6", EmployeeID: "E-1", Date: day}

	rec := BuildRecord(a, nil, nil, FixedClock(day.Add(23*time.Hour)), time.UTC)
	if rec.ScheduledStart != nil || rec.ScheduledEnd != nil {
		t.Errorf("Missing template must yield a null window, got (%v, %v)", rec.ScheduledStart, rec.ScheduledEnd)
	}
	if len(rec.Tags) != 0 {
		t.Errorf("Records without a schedule must carry no tags, got %v", rec.Tags)
	}
}

func hasTag(tags []RecordTag, want RecordTag) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}

func assertTags(t *testing.T, got []RecordTag, want []RecordTag) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("Expected tags %v, got %v", want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected tags %v, got %v", want, got)
			return
		}
	}
}
