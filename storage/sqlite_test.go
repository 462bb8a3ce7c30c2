package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/telemetry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.CreateRun(1, config.Default()); err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	runs, err := store.Runs(10)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs = %d, want 1", len(runs))
	}
}

func TestSaveAndRetrieveGenerations(t *testing.T) {
	store := openTestStore(t)

	runID, err := store.CreateRun(42, config.Default())
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	input := []struct {
		stats telemetry.GenerationStats
		best  []string
	}{
		{telemetry.GenerationStats{Generation: 0, Ticks: 512, FoodEaten: 10, EatenFraction: 0.02, BestFitness: 0.5, FitnessMean: 0.1}, []string{"TURN_L"}},
		{telemetry.GenerationStats{Generation: 1, Ticks: 400, FoodEaten: 30, EatenFraction: 0.06, BestFitness: 1.5, FitnessMean: 0.3, InvalidOps: 2}, []string{"SENSE", "MOVE_F"}},
		{telemetry.GenerationStats{Generation: 2, Ticks: 512, FoodEaten: 25, EatenFraction: 0.05, BestFitness: 1.5, FitnessMean: 0.25}, []string{"LABEL"}},
	}
	for _, in := range input {
		if err := store.SaveGeneration(runID, in.stats, in.best); err != nil {
			t.Fatalf("SaveGeneration(%d) failed: %v", in.stats.Generation, err)
		}
	}

	records, err := store.Generations(runID)
	if err != nil {
		t.Fatalf("Generations() failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	second := records[1]
	if second.Generation != 1 || second.Ticks != 400 || second.FoodEaten != 30 || second.InvalidOps != 2 {
		t.Errorf("record 1 = %+v", second)
	}
	if second.BestFitness != 1.5 || second.EatenFraction != 0.06 {
		t.Errorf("record 1 floats = %v/%v, want 1.5/0.06", second.BestFitness, second.EatenFraction)
	}

	// Ties go to the earliest generation
	best, err := store.BestGenome(runID)
	if err != nil {
		t.Fatalf("BestGenome() failed: %v", err)
	}
	if len(best) != 2 || best[0] != "SENSE" || best[1] != "MOVE_F" {
		t.Errorf("best genome = %v, want [SENSE MOVE_F]", best)
	}

	runs, err := store.Runs(10)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].Seed != 42 || runs[0].Generations != 3 || runs[0].BestFitness != 1.5 {
		t.Errorf("run = %+v, want seed 42, 3 generations, best 1.5", runs[0])
	}
}

func TestRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	for seed := int64(1); seed <= 3; seed++ {
		if _, err := store.CreateRun(seed, config.Default()); err != nil {
			t.Fatalf("CreateRun() failed: %v", err)
		}
	}

	runs, err := store.Runs(2)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want limit 2", len(runs))
	}
	if runs[0].Seed != 3 || runs[1].Seed != 2 {
		t.Errorf("seeds = %d,%d, want 3,2", runs[0].Seed, runs[1].Seed)
	}
}

func TestUnknownRun(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.BestGenome(99); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("BestGenome err = %v, want ErrRunNotFound", err)
	}
	if err := store.SaveGeneration(99, telemetry.GenerationStats{}, nil); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("SaveGeneration err = %v, want ErrRunNotFound", err)
	}

	records, err := store.Generations(99)
	if err != nil {
		t.Fatalf("Generations() failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
}

func TestRunRecorder(t *testing.T) {
	store := openTestStore(t)
	runID, err := store.CreateRun(7, config.Default())
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	rec := NewRunRecorder(store, runID)
	if rec.RunID() != runID {
		t.Errorf("RunID = %d, want %d", rec.RunID(), runID)
	}
	if err := rec.RecordGeneration(telemetry.GenerationStats{Generation: 0, BestFitness: 0.25}, []string{"NEXT_LT"}); err != nil {
		t.Fatalf("RecordGeneration() failed: %v", err)
	}

	best, err := store.BestGenome(runID)
	if err != nil {
		t.Fatalf("BestGenome() failed: %v", err)
	}
	if len(best) != 1 || best[0] != "NEXT_LT" {
		t.Errorf("best = %v, want [NEXT_LT]", best)
	}
}
