package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

// Input is the full read-only dataset for one batch run.
type Input struct {
	Templates   []roster.ShiftTemplate
	Assignments []roster.ShiftAssignment
	Events      []timeclock.TimeEvent
}

// Output is the complete result set of one run. Re-running identical
// inputs with a fixed clock reproduces it byte for byte, ids included.
type Output struct {
	Records    []AttendanceRecord
	Exceptions []ExceptionRecord
}

// Engine is the pure batch transform over assignments, templates and
// punches. It holds no mutable state between runs.
type Engine struct {
	clock   Clock
	loc     *time.Location
	workers int
}

// New creates an Engine. A nil clock falls back to the system clock, a
// nil location to UTC, and workers <= 0 to a single worker.
func New(clock Clock, loc *time.Location, workers int) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	if workers <= 0 {
		workers = 1
	}
	return &Engine{clock: clock, loc: loc, workers: workers}
}

// Run executes the transform. Computation is partitioned by employee
// and fanned out across workers; there is no ordering requirement
// across employees, but each employee's event stream is processed in
// strict chronological order. Results are fanned in and sorted so the
// output ordering is part of the determinism contract.
func (e *Engine) Run(ctx context.Context, in Input) (Output, error) {
	templates := make(map[string]*roster.ShiftTemplate, len(in.Templates))
	for i := range in.Templates {
		templates[in.Templates[i].ID] = &in.Templates[i]
	}

	assignmentsByEmployee := make(map[string][]roster.ShiftAssignment)
	for _, a := range in.Assignments {
		assignmentsByEmployee[a.EmployeeID] = append(assignmentsByEmployee[a.EmployeeID], a)
	}

	eventsByEmployee := make(map[string][]timeclock.TimeEvent)
	for _, ev := range in.Events {
		eventsByEmployee[ev.EmployeeID] = append(eventsByEmployee[ev.EmployeeID], ev)
	}

	employeeIDs := make([]string, 0, len(assignmentsByEmployee))
	for id := range assignmentsByEmployee {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	var (
		mu  sync.Mutex
		out Output
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, employeeID := range employeeIDs {
		employeeID := employeeID
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			records, exceptions := e.runEmployee(
				employeeID,
				assignmentsByEmployee[employeeID],
				eventsByEmployee[employeeID],
				templates,
			)

			mu.Lock()
			out.Records = append(out.Records, records...)
			out.Exceptions = append(out.Exceptions, exceptions...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Output{}, err
	}

	sortOutput(&out)
	return out, nil
}

// runEmployee reconciles all of one employee's assignments against the
// employee's sequenced punches. Events without a matching assignment
// produce nothing: the engine is schedule-driven.
func (e *Engine) runEmployee(employeeID string, assignments []roster.ShiftAssignment, events []timeclock.TimeEvent, templates map[string]*roster.ShiftTemplate) ([]AttendanceRecord, []ExceptionRecord) {
	// Restore strict chronological order regardless of input ordering.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})

	days := timeclock.PartitionByDay(employeeID, events, e.loc)

	var records []AttendanceRecord
	var exceptions []ExceptionRecord

	for _, a := range assignments {
		tmpl := templates[a.ShiftTemplateID]
		day := days[a.DayKey()]

		records = append(records, BuildRecord(a, tmpl, day, e.clock, e.loc))
		exceptions = append(exceptions, EvaluateRules(a, tmpl, day, e.clock, e.loc)...)
	}

	return records, exceptions
}

func sortOutput(out *Output) {
	sort.Slice(out.Records, func(i, j int) bool {
		a, b := out.Records[i], out.Records[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})

	sort.Slice(out.Exceptions, func(i, j int) bool {
		a, b := out.Exceptions[i], out.Exceptions[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.ID < b.ID
	})
}
