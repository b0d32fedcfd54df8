package commands

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"attendance-engine/internal/config"
	"attendance-engine/internal/logging"
	"attendance-engine/internal/store"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "attendance-engine",
	Short: "Attendance reconciliation and exception detection engine",
	Long: `Turns raw clock events and shift schedules into daily attendance records
and flagged exceptions (late arrivals, missed punches, break violations,
duplicate punches, undertime). Invoked by a scheduler/cron or on demand.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		logging.Init(verbose, cfg.LogDir)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("attendance-engine starting")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// openRepository connects to the configured database. Commands that
// need persistence call this; file-backed runs never touch it.
func openRepository() (*store.Repository, error) {
	if cfg.DatabaseDSN == "" {
		return nil, errors.New("no database configured: set DB_DSN or the DB_* variables")
	}
	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return store.NewRepository(db), nil
}

// parseDay parses an inclusive "YYYY-MM-DD" boundary in the
// reconciliation timezone, defaulting to today.
func parseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, cfg.Timezone), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, cfg.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
