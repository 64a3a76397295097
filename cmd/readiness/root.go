// ABOUTME: Root Cobra command for readiness CLI.
// ABOUTME: Opens config, storage, and the readiness service for subcommands.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/readiness/internal/cache"
	"github.com/harperreed/readiness/internal/config"
	"github.com/harperreed/readiness/internal/readiness"
	"github.com/harperreed/readiness/internal/storage"
)

var (
	cfg     *config.Config
	repo    storage.Repository
	svc     *readiness.Service
	logger  *zap.Logger
	verbose bool
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Training readiness and risk detection",
	Long: `Readiness turns your daily physiological metrics into a training verdict
and risk alerts.

WHAT IT EVALUATES:

  Baselines    rolling HRV, resting HR, and sleep baselines with deviations
  Load         acute:chronic workload ratio (ACWR), hard-day streaks,
               week-over-week load ramps
  Risks        overtraining, illness, and injury alerts at warning or
               critical severity

QUICK START:

  $ readiness import garmin-export.json    # Load provider data
  $ readiness status                       # Today's verdict
  $ readiness baselines                    # Baseline details
  $ readiness alerts                       # Active alerts
  $ readiness report                       # Write a markdown report

MANUAL ENTRY:

  $ readiness add sample --hrv 52 --rhr 48 --sleep 7.5
  $ readiness add activity run-123 --load 85 --name "Tempo run"

SYNC:

  Mirror your data to Charm Cloud, E2E encrypted with your SSH key.

  $ readiness sync push     # Mirror local data to the cloud
  $ readiness sync pull     # Merge cloud data into the local store
  $ readiness sync status   # Check the mirror account

MCP INTEGRATION:

  Run 'readiness mcp' to start the Model Context Protocol server for use
  with Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "readiness": { "command": "readiness", "args": ["mcp"] }
    }
  }

THRESHOLDS:

  Risk thresholds come from thresholds.json in the config directory.
  Missing or malformed config falls back to safe defaults. Run
  'readiness thresholds init' to write the defaults out for editing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't need storage
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		logger = zap.NewNop()
		if verbose {
			var err error
			logger, err = zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if dbPath != "" {
			repo, err = storage.Open(dbPath)
		} else {
			repo, err = cfg.OpenStorage()
		}
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		thresholds := readiness.LoadThresholds(cfg.GetThresholdsPath(), logger)
		messages := readiness.LoadMessages(cfg.GetMessagesPath(), logger)
		verdictCache := cache.New(cfg.GetCacheCapacity(), cfg.GetCacheTTL(), logger)
		svc = readiness.New(repo, verdictCache, thresholds, messages, logger)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Override database path")
}

// parseDateArg resolves an optional positional date argument, defaulting
// to today.
func parseDateArg(args []string) (time.Time, error) {
	if len(args) == 0 {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", args[0], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", args[0])
	}
	return t, nil
}
