package engine

import (
	"time"

	"attendance-engine/internal/roster"
)

// ResolveWindow computes the scheduled working window for an assignment
// as absolute timestamps on the assignment's date. It returns
// (nil, nil) when the template is missing or the day-off sentinel: a
// missing template means "no schedule", never an error.
//
// Overnight arithmetic lives here and nowhere else: when the end
// time-of-day precedes the start, the scheduled end is anchored to the
// following calendar date. All downstream comparisons use the resolved
// timestamps, never raw time-of-day strings.
func ResolveWindow(a roster.ShiftAssignment, tmpl *roster.ShiftTemplate, loc *time.Location) (*time.Time, *time.Time) {
	if tmpl == nil || tmpl.IsDayOff() {
		return nil, nil
	}

	startMin, err := roster.MinutesOfDay(tmpl.StartTime)
	if err != nil {
		return nil, nil
	}
	endMin, err := roster.MinutesOfDay(tmpl.EndTime)
	if err != nil {
		return nil, nil
	}

	anchor := time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, loc)

	start := anchor.Add(time.Duration(startMin) * time.Minute)
	end := anchor.Add(time.Duration(endMin) * time.Minute)
	if endMin < startMin {
		// Overnight shift: the end falls on the next calendar day
		end = end.AddDate(0, 0, 1)
	}

	return &start, &end
}
