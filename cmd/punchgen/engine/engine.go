package engine

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

// GeneratorConfig controls the synthetic punch dataset.
type GeneratorConfig struct {
	Scenario  string // "clean", "messy", "overnight"
	Employees int
	Days      int
	Seed      int64
	Now       time.Time
	Location  *time.Location
}

// Dataset is a complete file-mode input for the reconcile command.
type Dataset struct {
	Templates   []roster.ShiftTemplate
	Assignments []roster.ShiftAssignment
	Events      []timeclock.TimeEvent
}

// Generate produces a deterministic dataset for the given seed. The
// "messy" scenario salts the punches with late arrivals, duplicate
// punches, missing clock-outs and overlong breaks so every rule in the
// battery has something to find.
func Generate(cfg GeneratorConfig) Dataset {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	office := roster.ShiftTemplate{ID: "TPL-OFFICE", Name: "Office", StartTime: "09:00", EndTime: "18:00", BreakMinutes: 60, GracePeriodMinutes: 10}
	night := roster.ShiftTemplate{ID: "TPL-NIGHT", Name: "Night", StartTime: "22:00", EndTime: "06:00", BreakMinutes: 30, GracePeriodMinutes: 5}
	dayOff := roster.ShiftTemplate{ID: "TPL-OFF", Name: roster.DayOffName}

	ds := Dataset{Templates: []roster.ShiftTemplate{office, night, dayOff}}

	firstDay := cfg.Now.In(cfg.Location).AddDate(0, 0, -cfg.Days)
	firstDay = time.Date(firstDay.Year(), firstDay.Month(), firstDay.Day(), 0, 0, 0, 0, cfg.Location)

	for e := 1; e <= cfg.Employees; e++ {
		employeeID := fmt.Sprintf("EMP-%03d", e)

		for d := 0; d < cfg.Days; d++ {
			day := firstDay.AddDate(0, 0, d)

			tmpl := office
			switch {
			case day.Weekday() == time.Saturday || day.Weekday() == time.Sunday:
				tmpl = dayOff
			case cfg.Scenario == "overnight" && e%2 == 0:
				tmpl = night
			}

			ds.Assignments = append(ds.Assignments, roster.ShiftAssignment{
				ID:              fmt.Sprintf("ASG-%s-%s", employeeID, day.Format("20060102")),
				EmployeeID:      employeeID,
				Date:            day,
				ShiftTemplateID: tmpl.ID,
			})

			if tmpl.IsDayOff() {
				continue
			}
			ds.Events = append(ds.Events, punchesFor(rng, cfg.Scenario, employeeID, day, tmpl)...)
		}
	}

	return ds
}

func punchesFor(rng *rand.Rand, scenario, employeeID string, day time.Time, tmpl roster.ShiftTemplate) []timeclock.TimeEvent {
	startMin, _ := roster.MinutesOfDay(tmpl.StartTime)
	endMin, _ := roster.MinutesOfDay(tmpl.EndTime)
	if endMin < startMin {
		endMin += 24 * 60
	}

	messy := scenario == "messy"

	// Messy days occasionally never punch in at all.
	if messy && rng.Float64() < 0.05 {
		return nil
	}

	seq := 0
	next := func(minute int, typ timeclock.EventType) timeclock.TimeEvent {
		seq++
		source := timeclock.SourceDevice
		if messy && rng.Float64() < 0.1 {
			source = timeclock.SourceManual
		}
		return timeclock.TimeEvent{
			ID:         fmt.Sprintf("EV-%s-%s-%d", employeeID, day.Format("20060102"), seq),
			EmployeeID: employeeID,
			Timestamp:  day.Add(time.Duration(minute) * time.Minute),
			Type:       typ,
			Source:     source,
		}
	}

	var events []timeclock.TimeEvent

	inMinute := startMin + rng.Intn(tmpl.GracePeriodMinutes+1)
	if messy && rng.Float64() < 0.2 {
		inMinute = startMin + tmpl.GracePeriodMinutes + 1 + rng.Intn(45)
	}
	events = append(events, next(inMinute, timeclock.ClockIn))
	if messy && rng.Float64() < 0.1 {
		// Duplicate punch from an over-eager terminal
		events = append(events, next(inMinute+1, timeclock.ClockIn))
	}

	if tmpl.BreakMinutes > 0 {
		breakStart := startMin + (endMin-startMin)/2
		breakLen := tmpl.BreakMinutes
		if messy && rng.Float64() < 0.15 {
			breakLen += 6 + rng.Intn(30)
		}
		skipBreak := messy && rng.Float64() < 0.1
		if !skipBreak {
			events = append(events, next(breakStart, timeclock.StartBreak))
			if !messy || rng.Float64() >= 0.05 {
				events = append(events, next(breakStart+breakLen, timeclock.EndBreak))
			}
		}
	}

	if !messy || rng.Float64() >= 0.1 {
		outMinute := endMin
		if messy && rng.Float64() < 0.15 {
			outMinute = endMin - 2 - rng.Intn(60)
		}
		events = append(events, next(outMinute, timeclock.ClockOut))
	}

	return events
}

// Save writes the dataset in the layout the reconcile command's file
// mode expects: per-employee JSONL punch files plus templates.json and
// assignments.json.
func Save(outDir string, ds Dataset) error {
	store := timeclock.NewEventStore()
	byEmployee := make(map[string][]timeclock.TimeEvent)
	for _, e := range ds.Events {
		byEmployee[e.EmployeeID] = append(byEmployee[e.EmployeeID], e)
	}
	for employeeID, events := range byEmployee {
		store.Append(employeeID, events)
		if err := store.Save(outDir, employeeID); err != nil {
			return err
		}
	}

	if err := writeJSON(filepath.Join(outDir, "templates.json"), ds.Templates); err != nil {
		return err
	}
	return writeJSON(filepath.Join(outDir, "assignments.json"), ds.Assignments)
}
