package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"attendance-engine/internal/engine"
	"attendance-engine/internal/roster"
	"attendance-engine/internal/timeclock"
)

var (
	reconcileFrom      string
	reconcileTo        string
	reconcileCacheDir  string
	reconcileRoster    string
	reconcileOutDir    string
	reconcileDryRun    bool
	reconcileReference string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run the batch reconciliation over a date range",
	Long: `Loads shift templates, assignments and punches for the requested window,
runs the reconciliation transform, and persists the resulting attendance
records and exceptions. With --cache-dir the inputs are read from JSONL
and JSON files instead of the database.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileFrom, "from", "", "first day to reconcile (YYYY-MM-DD, default today)")
	reconcileCmd.Flags().StringVar(&reconcileTo, "to", "", "last day to reconcile (YYYY-MM-DD, default today)")
	reconcileCmd.Flags().StringVar(&reconcileCacheDir, "cache-dir", "", "read punches from per-employee JSONL files in this directory instead of the database")
	reconcileCmd.Flags().StringVar(&reconcileRoster, "roster-dir", "", "directory holding templates.json and assignments.json (file mode, defaults to --cache-dir)")
	reconcileCmd.Flags().StringVar(&reconcileOutDir, "out", "", "file mode output directory (default DATA_PATH)")
	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "compute and log, but do not persist")
	reconcileCmd.Flags().StringVar(&reconcileReference, "reference-time", "", "override the wall clock (RFC3339), mainly for replays")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	now := time.Now().In(cfg.Timezone)

	from, err := parseDay(reconcileFrom, now)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parseDay(reconcileTo, now)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("--to %s precedes --from %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	clock := engine.SystemClock()
	if reconcileReference != "" {
		ref, err := time.Parse(time.RFC3339, reconcileReference)
		if err != nil {
			return fmt.Errorf("invalid --reference-time: %w", err)
		}
		clock = engine.FixedClock(ref)
	}

	var in engine.Input
	if reconcileCacheDir != "" {
		in, err = loadFileInput(from, to)
	} else {
		in, err = loadDatabaseInput(cmd, from, to)
	}
	if err != nil {
		return err
	}

	log.Info().
		Int("templates", len(in.Templates)).
		Int("assignments", len(in.Assignments)).
		Int("events", len(in.Events)).
		Str("from", from.Format("2006-01-02")).
		Str("to", to.Format("2006-01-02")).
		Msg("Reconciliation inputs loaded")

	eng := engine.New(clock, cfg.Timezone, cfg.Workers)
	out, err := eng.Run(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	log.Info().
		Int("records", len(out.Records)).
		Int("exceptions", len(out.Exceptions)).
		Msg("Reconciliation complete")

	if reconcileDryRun {
		log.Info().Msg("Dry run, skipping persistence")
		return nil
	}

	if reconcileCacheDir != "" {
		return writeFileOutput(out)
	}

	repo, err := openRepository()
	if err != nil {
		return err
	}
	if err := repo.UpsertRecords(cmd.Context(), out.Records); err != nil {
		return err
	}
	if err := repo.UpsertExceptions(cmd.Context(), out.Exceptions); err != nil {
		return err
	}
	return nil
}

func loadDatabaseInput(cmd *cobra.Command, from, to time.Time) (engine.Input, error) {
	repo, err := openRepository()
	if err != nil {
		return engine.Input{}, err
	}

	ctx := cmd.Context()
	templates, err := repo.Templates(ctx)
	if err != nil {
		return engine.Input{}, err
	}
	assignments, err := repo.Assignments(ctx, from, to)
	if err != nil {
		return engine.Input{}, err
	}
	// Event window extends a day past the range so overnight shifts can
	// find their clock-outs.
	events, err := repo.Events(ctx, from, to.AddDate(0, 0, 2))
	if err != nil {
		return engine.Input{}, err
	}

	return engine.Input{Templates: templates, Assignments: assignments, Events: events}, nil
}

// loadFileInput reads the punch cache plus templates.json and
// assignments.json, filtering assignments to the requested window.
func loadFileInput(from, to time.Time) (engine.Input, error) {
	rosterDir := reconcileRoster
	if rosterDir == "" {
		rosterDir = reconcileCacheDir
	}

	var templates []roster.ShiftTemplate
	if err := readJSON(filepath.Join(rosterDir, "templates.json"), &templates); err != nil {
		return engine.Input{}, err
	}
	for _, tmpl := range templates {
		if err := roster.ValidateTemplate(tmpl); err != nil {
			return engine.Input{}, err
		}
	}

	var assignments []roster.ShiftAssignment
	if err := readJSON(filepath.Join(rosterDir, "assignments.json"), &assignments); err != nil {
		return engine.Input{}, err
	}
	var inRange []roster.ShiftAssignment
	for _, a := range assignments {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		inRange = append(inRange, a)
	}

	eventStore := timeclock.NewEventStore()
	if err := eventStore.LoadDir(reconcileCacheDir); err != nil {
		return engine.Input{}, err
	}
	var events []timeclock.TimeEvent
	for _, id := range eventStore.EmployeeIDs() {
		events = append(events, eventStore.Events(id)...)
	}

	return engine.Input{Templates: templates, Assignments: inRange, Events: events}, nil
}

func writeFileOutput(out engine.Output) error {
	outDir := reconcileOutDir
	if outDir == "" {
		outDir = cfg.DataPath
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeJSON(filepath.Join(outDir, "records.json"), out.Records); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(outDir, "exceptions.json"), out.Exceptions); err != nil {
		return err
	}
	log.Info().Str("dir", outDir).Msg("Results written")
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
