package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/v75-value/internal/comparison"
	"github.com/yourusername/v75-value/internal/datasource"
	"github.com/yourusername/v75-value/internal/models"
	"github.com/yourusername/v75-value/internal/recovery"
	"github.com/yourusername/v75-value/internal/scoring"
	"github.com/yourusername/v75-value/internal/service"
)

var replyFile string

func init() {
	recoverCmd.Flags().StringVar(&replyFile, "reply", "", "File holding a saved generator reply")
	recoverCmd.Flags().StringVar(&raceFile, "race", "", "Race CSV file the reply was generated for")
	recoverCmd.Flags().StringVar(&marketFile, "market", "", "Betting-share JSON file")
	_ = recoverCmd.MarkFlagRequired("reply")
	_ = recoverCmd.MarkFlagRequired("race")
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover a distribution from a saved generator reply and compare it",
	RunE: func(cmd *cobra.Command, args []string) error {
		reply, err := os.ReadFile(replyFile)
		if err != nil {
			return fmt.Errorf("failed to read reply: %w", err)
		}

		input, err := datasource.NewLoader(cfg.Data.RaceKeyPrefix, log).LoadRace(datasource.RaceFiles{
			RaceCSV:    raceFile,
			MarketJSON: marketFile,
		})
		if err != nil {
			return err
		}

		opts := service.OptionsFromConfig(cfg)
		scoring.AssignBettingPercentages(input.Race, input.Market)

		dist := recovery.NewRecoverer(opts.Recovery, log).Recover(string(reply), input.Race.Entrants)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Recovery method: %s (normalized: %t)\n", dist.Method, dist.Normalized)
		if missing := dist.MissingStartNumbers(input.Race.Entrants); len(missing) > 0 {
			fmt.Fprintf(out, "Missing start numbers: %v\n", missing)
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, comparison.GenerateConsoleReport(comparison.Compare(dist, input.Race.Entrants, opts.Comparison)))

		if dist.Method == models.RecoveryUniform {
			return fmt.Errorf("reply could not be recovered")
		}
		return nil
	},
}
