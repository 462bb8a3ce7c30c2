package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/game"
	"github.com/pthm-cable/foodbots/renderer"
	"github.com/pthm-cable/foodbots/telemetry"
	"github.com/pthm-cable/foodbots/tui"
)

var flagExportPath string

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Watch the simulation in a window",
	Long: `Open a window showing the grid, the bots and the best genome.

Keys:
  SPACE   pause / resume
  + / -   faster / slower
  E       export the best genome
  G L N H toggle grid, leader, genome panel, controls`,
	Args: cobra.NoArgs,
	RunE: runView,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the simulation in the terminal",
	Long: `Show the grid in the terminal. Bots are drawn as arrows pointing
where they face, food as 'o'.

Keys:
  p       pause / resume
  + / -   faster / slower
  q       quit`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	viewCmd.Flags().StringVar(&flagExportPath, "export", telemetry.BestGenomeFile, "Where the export button writes the best genome")
}

func runView(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := newSimulation(cmd, game.Options{})
	if err != nil {
		return err
	}
	defer sim.close()

	return renderer.NewView(config.Cfg(), flagExportPath).Run(ctx, sim.game)
}

func runWatch(cmd *cobra.Command, args []string) error {
	sim, err := newSimulation(cmd, game.Options{})
	if err != nil {
		return err
	}
	defer sim.close()

	return tui.Run(sim.game, config.Cfg().Screen.TargetFPS)
}
