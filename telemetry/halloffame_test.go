package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHallOfFameOrdering(t *testing.T) {
	hof := NewHallOfFame(3)

	for i, fit := range []float64{0.2, 0.5, 0.1, 0.5, 0.05} {
		hof.Consider(HallEntry{Generation: i, Fitness: fit})
	}

	entries := hof.Entries()
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}

	// Equal fitness keeps the earlier generation first
	wantGens := []int{1, 3, 0}
	for i, want := range wantGens {
		if entries[i].Generation != want {
			t.Errorf("entry %d generation = %d, want %d", i, entries[i].Generation, want)
		}
	}
	if hof.TopFitness() != 0.5 {
		t.Errorf("TopFitness = %v, want 0.5", hof.TopFitness())
	}
}

func TestHallOfFameRejectsLowWhenFull(t *testing.T) {
	hof := NewHallOfFame(2)
	hof.Consider(HallEntry{Fitness: 0.4})
	hof.Consider(HallEntry{Fitness: 0.3})

	if hof.Consider(HallEntry{Fitness: 0.3}) {
		t.Error("tie with the last entry of a full hall should be rejected")
	}
	if hof.Consider(HallEntry{Fitness: 0.1}) {
		t.Error("lower entry should be rejected")
	}
	if !hof.Consider(HallEntry{Fitness: 0.35}) {
		t.Error("entry that outranks the last should be accepted")
	}
	if hof.Len() != 2 {
		t.Errorf("len = %d, want 2", hof.Len())
	}
}

func TestHallOfFameEmpty(t *testing.T) {
	hof := NewHallOfFame(0)
	if hof.Consider(HallEntry{Fitness: 1}) {
		t.Error("zero-size hall should accept nothing")
	}
	if hof.TopFitness() != 0 {
		t.Errorf("TopFitness = %v, want 0", hof.TopFitness())
	}
}

func TestHallOfFameFileRoundTrip(t *testing.T) {
	hof := NewHallOfFame(5)
	hof.Consider(HallEntry{Generation: 4, BotID: 210, Fitness: 0.75, Food: 6, Volatility: 0.3, Genome: []string{"SENSE", "MOVE_F"}})
	hof.Consider(HallEntry{Generation: 2, BotID: 120, Fitness: 0.25, Food: 2})

	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "hall_of_fame.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	loaded, err := LoadHallOfFameFromFile(path)
	if err != nil {
		t.Fatalf("LoadHallOfFameFromFile failed: %v", err)
	}

	entries := loaded.Entries()
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	top := entries[0]
	if top.BotID != 210 || top.Food != 6 || len(top.Genome) != 2 || top.Genome[0] != "SENSE" {
		t.Errorf("top entry = %+v", top)
	}
}
