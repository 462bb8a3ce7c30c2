package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/foodbots/storage"
	"github.com/pthm-cable/foodbots/telemetry"
)

var (
	flagLimit   int
	flagOutPath string
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded runs",
	Long: `Without arguments, list the most recent runs. With a run ID, list
that run's generations.

Examples:
  foodbots history
  foodbots history 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Write a recorded run's best genome as a JSON array",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of runs to list")
	exportCmd.Flags().StringVar(&flagOutPath, "out", telemetry.BestGenomeFile, "Output file")
}

func openHistory(cmd *cobra.Command) (*storage.Store, error) {
	path := dbPath(cmd)
	if path == "" {
		return nil, fmt.Errorf("no history database (set --db or storage.path)")
	}
	return storage.Open(path)
}

func parseRunID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q: %w", arg, err)
	}
	return id, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		runID, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		return printGenerations(store, runID)
	}

	runs, err := store.Runs(flagLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-5s  %-20s  %-11s  %-8s  %s\n", "ID", "Seed", "Generations", "Best", "Date")
	fmt.Printf("  %-5s  %-20s  %-11s  %-8s  %s\n", "--", "----", "-----------", "----", "----")
	for _, r := range runs {
		fmt.Printf("  %-5d  %-20d  %-11d  %-8s  %s\n",
			r.ID, r.Seed, r.Generations, telemetry.FormatPercent(r.BestFitness),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printGenerations(store *storage.Store, runID int64) error {
	records, err := store.Generations(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("Run %d has no recorded generations.\n", runID)
		return nil
	}

	fmt.Printf("Run %d\n\n", runID)
	fmt.Printf("  %-5s  %-6s  %-7s  %-8s  %-8s  %s\n", "Gen", "Ticks", "Eaten", "Best", "Mean", "Volatility")
	for _, r := range records {
		fmt.Printf("  %-5d  %-6d  %-7s  %-8s  %-8s  %.3f\n",
			r.Generation, r.Ticks, telemetry.FormatPercent(r.EatenFraction),
			telemetry.FormatPercent(r.BestFitness), telemetry.FormatPercent(r.FitnessMean),
			r.VolatilityMean)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	runID, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.BestGenome(runID)
	if err != nil {
		return err
	}
	if err := telemetry.WriteGenomeJSON(flagOutPath, names); err != nil {
		return err
	}
	slog.Info("exported best genome", "run_id", runID, "path", flagOutPath, "genes", len(names))
	return nil
}
