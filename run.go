package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/game"
)

var (
	flagGenerations int
	flagOutputDir   string
	flagLogStats    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation headless",
	Long: `Run generations without graphics until --generations is reached or
the process is interrupted.

Examples:
  foodbots run --generations 100 --log-stats
  foodbots run --output-dir out --db ""`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagGenerations, "generations", 0, "Stop after N generations (0 = sim.max_generations)")
	runCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Directory for CSV, config and genome output")
	runCmd.Flags().BoolVar(&flagLogStats, "log-stats", true, "Log generation stats via slog")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := newSimulation(cmd, game.Options{
		LogStats:  flagLogStats,
		OutputDir: flagOutputDir,
	})
	if err != nil {
		return err
	}
	defer sim.close()

	generations := flagGenerations
	if generations == 0 {
		generations = config.Cfg().Sim.MaxGenerations
	}

	err = sim.game.Run(ctx, generations)
	if errors.Is(err, context.Canceled) {
		slog.Info("interrupted", "generation", sim.game.Generation())
		return nil
	}
	if err != nil {
		return err
	}

	stats, _ := sim.game.LastStats()
	slog.Info("run complete", "generations", sim.game.Generation(), "best_fitness", stats.BestFitness)
	return nil
}
