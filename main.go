// foodbots evolves tiny bytecode programs that forage on a toroidal grid.
//
// Usage:
//
//	foodbots run              - Run headless, logging each generation
//	foodbots view             - Watch the simulation in a window
//	foodbots watch            - Watch the simulation in the terminal
//	foodbots history [run-id] - List recorded runs or one run's generations
//	foodbots export <run-id>  - Write a recorded run's best genome as JSON
//
// Global flags:
//
//	--config <path>      - YAML overrides for the embedded defaults
//	--seed <value>       - RNG seed (0 = time-based)
//	--log-format <fmt>   - json or text
//	--db <path>          - Run history database ("" disables recording)
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/game"
	"github.com/pthm-cable/foodbots/storage"
)

var (
	// Global flags
	flagConfig    string
	flagSeed      int64
	flagLogFormat string
	flagDBPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "foodbots",
	Short: "Evolve foraging bots with a genetic algorithm",
	Long: `foodbots runs a population of bots whose brains are 256-instruction
programs. Each generation the bots forage for food on a wrapping grid,
and the best eaters are bred into the next generation.

Examples:
  foodbots run --generations 200 --output-dir out
  foodbots view --seed 42
  foodbots history
  foodbots export 3 --out best.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(flagLogFormat); err != nil {
			return err
		}
		return config.Init(flagConfig)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = time-based)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "json", "Log format: json or text")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Run history database (default storage.path, \"\" disables)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}

// setupLogger installs the default slog logger.
func setupLogger(format string) error {
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, nil)
	case "text":
		handler = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Level:           charmlog.InfoLevel,
		})
	default:
		return fmt.Errorf("unknown log format %q (want json or text)", format)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// resolveSeed returns the --seed value, or a time-based seed for 0.
func resolveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// dbPath returns the history database path: --db when given, storage.path otherwise.
func dbPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("db") {
		return flagDBPath
	}
	return config.Cfg().Storage.Path
}

// simulation bundles a game with its optional history store.
type simulation struct {
	game  *game.Game
	store *storage.Store
	runID int64
}

// newSimulation creates a game for cmd, recording to the history database
// unless it is disabled.
func newSimulation(cmd *cobra.Command, opts game.Options) (*simulation, error) {
	cfg := config.Cfg()
	opts.Config = cfg
	opts.Seed = resolveSeed()

	sim := &simulation{}
	if path := dbPath(cmd); path != "" {
		store, err := storage.Open(path)
		if err != nil {
			return nil, err
		}
		runID, err := store.CreateRun(opts.Seed, cfg)
		if err != nil {
			store.Close()
			return nil, err
		}
		sim.store = store
		sim.runID = runID
		opts.Recorder = storage.NewRunRecorder(store, runID)
	}

	g, err := game.NewGame(opts)
	if err != nil {
		sim.close()
		return nil, err
	}
	sim.game = g

	slog.Info("simulation started",
		"seed", opts.Seed,
		"run_id", sim.runID,
		"population", cfg.Population.Size,
		"grid", fmt.Sprintf("%dx%d", cfg.World.Width, cfg.World.Height),
	)
	return sim, nil
}

func (s *simulation) close() {
	if s.game != nil {
		if err := s.game.Close(); err != nil {
			slog.Error("closing game", "error", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Error("closing history", "error", err)
		}
	}
}
