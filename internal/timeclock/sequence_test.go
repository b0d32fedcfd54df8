package timeclock

import (
	"testing"
	"time"
)

func TestPartitionByDay_BucketsAndSorts(t *testing.T) {
	day1 := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	events := []TimeEvent{
		ev("d", day2.Add(9*time.Hour), ClockIn),
		ev("b", day1.Add(18*time.Hour), ClockOut),
		ev("a", day1.Add(9*time.Hour), ClockIn),
	}

	days := PartitionByDay("E-1", events, time.UTC)
	if len(days) != 2 {
		t.Fatalf("Expected 2 day buckets, got %d", len(days))
	}

	seq := days["2024-03-18"]
	if seq == nil || len(seq.Events) != 2 {
		t.Fatalf("Unexpected first-day bucket: %+v", seq)
	}
	if seq.Events[0].ID != "a" || seq.Events[1].ID != "b" {
		t.Errorf("Day events must be sorted ascending, got %s then %s", seq.Events[0].ID, seq.Events[1].ID)
	}
}

func TestDaySequence_Views(t *testing.T) {
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	events := []TimeEvent{
		ev("in-1", day.Add(9*time.Hour), ClockIn),
		ev("bs-1", day.Add(12*time.Hour), StartBreak),
		ev("be-1", day.Add(12*time.Hour+45*time.Minute), EndBreak),
		ev("bs-2", day.Add(15*time.Hour), StartBreak),
		ev("be-2", day.Add(15*time.Hour+20*time.Minute), EndBreak),
		ev("out-1", day.Add(17*time.Hour), ClockOut),
		ev("out-2", day.Add(18*time.Hour), ClockOut),
	}

	seq := PartitionByDay("E-1", events, time.UTC)["2024-03-18"]

	if got := seq.FirstIn(); got == nil || got.ID != "in-1" {
		t.Errorf("Unexpected FirstIn: %+v", got)
	}
	if got := seq.LastOut(); got == nil || got.ID != "out-2" {
		t.Errorf("LastOut must be the latest ClockOut, got %+v", got)
	}
	// Only the first break pair is evaluated by duration rules.
	if got := seq.FirstBreakStart(); got == nil || got.ID != "bs-1" {
		t.Errorf("Unexpected FirstBreakStart: %+v", got)
	}
	if got := seq.FirstBreakEnd(); got == nil || got.ID != "be-1" {
		t.Errorf("Unexpected FirstBreakEnd: %+v", got)
	}
}

func TestDaySequence_EmptyViews(t *testing.T) {
	seq := &DaySequence{EmployeeID: "E-1", Day: "2024-03-18"}
	if seq.FirstIn() != nil || seq.LastOut() != nil || seq.FirstBreakStart() != nil || seq.FirstBreakEnd() != nil {
		t.Error("Views over an empty day must all be nil")
	}
	if seq.HasManualEntry() {
		t.Error("Empty day cannot have manual entries")
	}
}

func TestDoublePunches_StateMachine(t *testing.T) {
	day := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		types   []EventType
		flagged []int // indexes into types
	}{
		{"clean day", []EventType{ClockIn, ClockOut}, nil},
		{"double in and out", []EventType{ClockIn, ClockIn, ClockOut, ClockOut}, []int{1, 3}},
		{"triple in", []EventType{ClockIn, ClockIn, ClockIn}, []int{1, 2}},
		{"breaks are not significant", []EventType{ClockIn, StartBreak, EndBreak, ClockIn}, []int{3}},
		{"alternating is clean", []EventType{ClockIn, ClockOut, ClockIn, ClockOut}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var events []TimeEvent
			for i, typ := range tc.types {
				events = append(events, ev(string(rune('a'+i)), day.Add(time.Duration(i)*time.Minute), typ))
			}
			seq := PartitionByDay("E-1", events, time.UTC)["2024-03-18"]

			got := seq.DoublePunches()
			if len(got) != len(tc.flagged) {
				t.Fatalf("Expected %d flags, got %d", len(tc.flagged), len(got))
			}
			for i, idx := range tc.flagged {
				if got[i].ID != events[idx].ID {
					t.Errorf("Flag %d anchored to %s, want %s", i, got[i].ID, events[idx].ID)
				}
			}
		})
	}
}
