package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/v75-value/internal/datasource"
	"github.com/yourusername/v75-value/internal/generator"
	"github.com/yourusername/v75-value/internal/health"
	"github.com/yourusername/v75-value/internal/logger"
	"github.com/yourusername/v75-value/internal/metrics"
	"github.com/yourusername/v75-value/internal/scheduler"
	"github.com/yourusername/v75-value/internal/service"
)

var (
	raceFile     string
	marketFile   string
	trackFile    string
	runSchedule  bool
	scheduleSpec string
)

func init() {
	analyzeCmd.Flags().StringVar(&raceFile, "race", "", "Race CSV file (interactive selection when empty)")
	analyzeCmd.Flags().StringVar(&marketFile, "market", "", "Betting-share JSON file")
	analyzeCmd.Flags().StringVar(&trackFile, "track", "", "Track statistics JSON file")
	analyzeCmd.Flags().BoolVar(&runSchedule, "schedule", false, "Re-run the analysis on the configured cron schedule")
	analyzeCmd.Flags().StringVar(&scheduleSpec, "cron", "", "Cron expression overriding schedule.cron")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a race and compare the fair distribution with the betting shares",
	RunE: func(cmd *cobra.Command, args []string) error {
		selector := datasource.NewSelector(cmd.InOrStdin(), cmd.OutOrStdout())
		audit := logger.NewAuditLogger(log)
		files, err := resolveFiles(selector)
		if err != nil {
			return err
		}
		audit.LogInputFiles(files.RaceCSV, files.MarketJSON, files.TrackJSON)

		gen := generator.NewFromConfig(&cfg.Generator, log)
		svc := service.NewAnalysisService(gen, service.OptionsFromConfig(cfg), log)
		loader := datasource.NewLoader(cfg.Data.RaceKeyPrefix, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var server *health.Server
		if cfg.Metrics.Enabled {
			pinger, _ := gen.(generator.HealthChecker)
			server = health.NewServer(health.Config{
				ServiceName:    cfg.App.Name,
				Version:        Version,
				Port:           cfg.Metrics.Port,
				MetricsPath:    cfg.Metrics.Path,
				MetricsHandler: metrics.Handler(),
				Logger:         log,
				Generator:      pinger,
			})
			if err := server.Start(ctx); err != nil {
				return err
			}
		}

		run := func(ctx context.Context, files datasource.RaceFiles) error {
			input, err := loader.LoadRace(files)
			if err != nil {
				return err
			}
			result, err := svc.Analyze(ctx, input.Race, input.Market)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), result.Render())
			if server != nil {
				server.MarkRun(time.Now())
			}
			return nil
		}
		analyze := func(ctx context.Context) error {
			return run(ctx, files)
		}

		if err := analyze(ctx); err != nil {
			return err
		}
		if server != nil {
			server.SetReady(true)
		}

		if !runSchedule && !cfg.Schedule.Enabled {
			if raceFile != "" {
				return nil
			}
			next := func() (datasource.RaceFiles, error) {
				files, err := resolveFiles(selector)
				if err == nil {
					audit.LogInputFiles(files.RaceCSV, files.MarketJSON, files.TrackJSON)
				}
				return files, err
			}
			return analyzeMore(ctx, selector, next, run, cmd.ErrOrStderr(), log)
		}

		spec := cfg.Schedule.Cron
		if scheduleSpec != "" {
			spec = scheduleSpec
		}
		sched := scheduler.NewScheduler(cfg.Generator.Timeout()+time.Minute, log)
		if err := sched.Schedule(spec, "analyze", analyze); err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nRe-running on %q, next run %s. Press Ctrl+C to stop.\n",
			spec, sched.NextRun().Format(time.RFC3339))

		<-ctx.Done()
		sched.Stop()
		return nil
	},
}

// analyzeMore offers another race after each interactive analysis until the user declines or
// ctx is cancelled. A failed selection or analysis is reported on errOut and the loop goes on.
func analyzeMore(
	ctx context.Context,
	selector *datasource.Selector,
	next func() (datasource.RaceFiles, error),
	run func(context.Context, datasource.RaceFiles) error,
	errOut io.Writer,
	warn logrus.FieldLogger,
) error {
	for ctx.Err() == nil && selector.Confirm("Analyse another race?") {
		files, err := next()
		if err == nil {
			err = run(ctx, files)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			warn.WithError(err).Warn("Analysis of selected race failed")
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}
	return nil
}

// resolveFiles uses the flags when given and asks the user otherwise
func resolveFiles(selector *datasource.Selector) (datasource.RaceFiles, error) {
	c := catalog()
	if raceFile != "" {
		return datasource.RaceFiles{RaceCSV: raceFile, MarketJSON: marketFile, TrackJSON: trackFile}, nil
	}

	files := datasource.RaceFiles{MarketJSON: marketFile, TrackJSON: trackFile}

	csvFiles, err := c.ListCSV()
	if err != nil {
		return files, err
	}
	race, err := selector.Choose("race files", csvFiles, false)
	if err != nil {
		return files, err
	}
	files.RaceCSV = c.CSVPath(race)

	if files.MarketJSON == "" {
		markets, err := c.MarketFiles()
		if err != nil {
			return files, err
		}
		if market, err := selector.Choose("betting-share files", markets, true); err != nil {
			return files, err
		} else if market != "" {
			files.MarketJSON = c.JSONPath(market)
		}
	}

	if files.TrackJSON == "" {
		tracks, err := c.TrackFiles()
		if err != nil {
			return files, err
		}
		if track, err := selector.Choose("track statistics files", tracks, true); err != nil {
			return files, err
		} else if track != "" {
			files.TrackJSON = c.JSONPath(track)
		}
	}

	return files, nil
}
