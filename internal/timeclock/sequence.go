package timeclock

import (
	"sort"
	"time"
)

// DayKeyFormat is the canonical calendar-day bucket key.
const DayKeyFormat = "2006-01-02"

// DaySequence holds one employee's punches for one calendar day,
// sorted ascending by timestamp. It provides the convenience views the
// record builder and rule battery read instead of re-scanning raw
// events.
type DaySequence struct {
	EmployeeID string
	Day        string // DayKeyFormat in the reconciliation location
	Events     []TimeEvent
}

// PartitionByDay buckets one employee's events by calendar day in the
// given location. Each bucket's events are sorted ascending by
// timestamp, ties broken by original order.
func PartitionByDay(employeeID string, events []TimeEvent, loc *time.Location) map[string]*DaySequence {
	days := make(map[string]*DaySequence)

	for _, e := range events {
		key := e.Timestamp.In(loc).Format(DayKeyFormat)
		seq, ok := days[key]
		if !ok {
			seq = &DaySequence{EmployeeID: employeeID, Day: key}
			days[key] = seq
		}
		seq.Events = append(seq.Events, e)
	}

	for _, seq := range days {
		sort.SliceStable(seq.Events, func(i, j int) bool {
			return seq.Events[i].Timestamp.Before(seq.Events[j].Timestamp)
		})
	}

	return days
}

// FirstIn returns the earliest ClockIn of the day, or nil.
func (s *DaySequence) FirstIn() *TimeEvent {
	return s.first(ClockIn)
}

// LastOut returns the latest ClockOut of the day, or nil.
func (s *DaySequence) LastOut() *TimeEvent {
	return s.last(ClockOut)
}

// FirstBreakStart returns the first StartBreak of the day, or nil.
func (s *DaySequence) FirstBreakStart() *TimeEvent {
	return s.first(StartBreak)
}

// FirstBreakEnd returns the first EndBreak of the day, or nil. When
// multiple break pairs occur only the first pair is evaluated by
// break-duration rules; multiplicity is a separate anomaly class.
func (s *DaySequence) FirstBreakEnd() *TimeEvent {
	return s.first(EndBreak)
}

// HasManualEntry reports whether any punch that day was entered by hand.
func (s *DaySequence) HasManualEntry() bool {
	for _, e := range s.Events {
		if e.Source == SourceManual {
			return true
		}
	}
	return false
}

// DoublePunches runs the strict duplicate-punch state machine over the
// day's events and returns the offending punches. Only ClockIn and
// ClockOut are significant; break events do not reset the machine. The
// last significant type is updated on every significant event whether
// or not it was flagged, so three consecutive ClockIns yield exactly
// two flags.
func (s *DaySequence) DoublePunches() []TimeEvent {
	var flagged []TimeEvent
	var lastSignificant EventType

	for _, e := range s.Events {
		if e.Type != ClockIn && e.Type != ClockOut {
			continue
		}
		if e.Type == lastSignificant {
			flagged = append(flagged, e)
		}
		lastSignificant = e.Type
	}

	return flagged
}

func (s *DaySequence) first(t EventType) *TimeEvent {
	for i := range s.Events {
		if s.Events[i].Type == t {
			return &s.Events[i]
		}
	}
	return nil
}

func (s *DaySequence) last(t EventType) *TimeEvent {
	for i := len(s.Events) - 1; i >= 0; i-- {
		if s.Events[i].Type == t {
			return &s.Events[i]
		}
	}
	return nil
}
