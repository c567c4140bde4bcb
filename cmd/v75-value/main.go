package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/v75-value/internal/config"
	"github.com/yourusername/v75-value/internal/datasource"
	"github.com/yourusername/v75-value/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	envFile    string
	log        *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file with secrets")

	rootCmd.AddCommand(listCmd, analyzeCmd, recoverCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "v75-value",
	Short: "Find over- and underplayed horses in V75 races",
	Long: `Scores every horse in a race from its form, career, distance and gate record,
asks a language model for a fair winning-percentage distribution and compares it
with the public betting shares.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "v75-value %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(ctx context.Context) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	_, statErr := os.Stat(configFile)
	usedDefaults := os.IsNotExist(statErr)

	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log = logger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.App.Environment, os.Stderr)
	audit := logger.NewAuditLogger(log)
	audit.LogConfigLoaded(configFile, cfg.App.Environment, usedDefaults)

	config.ApplyEnvSecrets(cfg)
	source := "env"
	if cfg.UseSecretsManager() {
		secretCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := config.LoadSecretsFromAWS(secretCtx, cfg); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
		source = "aws_secrets_manager"
	}
	audit.LogSecretsLoaded(source, cfg.Generator.APIKey != "")

	if err := config.Validate(cfg); err != nil {
		return err
	}
	return config.ValidateEnvironment(cfg)
}

func catalog() datasource.Catalog {
	return datasource.Catalog{
		CSVDir:        cfg.Data.CSVDir,
		JSONDir:       cfg.Data.JSONDir,
		MarketPattern: cfg.Data.MarketPattern,
		TrackName:     cfg.Track.Name,
	}
}
