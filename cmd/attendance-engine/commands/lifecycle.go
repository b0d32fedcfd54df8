package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"attendance-engine/internal/engine"
)

var ackCmd = &cobra.Command{
	Use:   "ack <exception-id>",
	Short: "Acknowledge a pending exception",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepository()
		if err != nil {
			return err
		}
		if err := repo.AcknowledgeException(cmd.Context(), args[0]); err != nil {
			return err
		}
		log.Info().Str("id", args[0]).Msg("Exception acknowledged")
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <record-id> <status>",
	Short: "Advance a daily record's review lifecycle",
	Long:  "Valid target statuses: Reviewed, Disputed, Finalized.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := engine.RecordStatus(args[1])
		switch target {
		case engine.RecordReviewed, engine.RecordDisputed, engine.RecordFinalized:
		default:
			return fmt.Errorf("unknown target status %q", args[1])
		}

		repo, err := openRepository()
		if err != nil {
			return err
		}
		if err := repo.TransitionRecordStatus(cmd.Context(), args[0], target); err != nil {
			return err
		}
		log.Info().Str("id", args[0]).Str("status", args[1]).Msg("Record transitioned")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(reviewCmd)
}
