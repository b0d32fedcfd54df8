package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"attendance-engine/internal/export"
	"attendance-engine/internal/roster"
)

var (
	exportFrom string
	exportTo   string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export exception records to a compliance CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now().In(cfg.Timezone)

		from, err := parseDay(exportFrom, now)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		to, err := parseDay(exportTo, now)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		repo, err := openRepository()
		if err != nil {
			return err
		}

		exceptions, err := repo.Exceptions(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		employees, err := repo.Employees(cmd.Context())
		if err != nil {
			return err
		}

		if err := export.WriteExceptionsCSVFile(exportOut, exceptions, roster.NewDirectory(employees)); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}

		log.Info().Int("rows", len(exceptions)).Str("path", exportOut).Msg("Exceptions exported")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first day to export (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last day to export (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVar(&exportOut, "out", "exceptions.csv", "output CSV path")
	rootCmd.AddCommand(exportCmd)
}
