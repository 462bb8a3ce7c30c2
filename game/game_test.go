package game

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/telemetry"
)

// smallConfig returns a fast configuration for tests.
func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Width = 20
	cfg.World.Height = 15
	cfg.Population.Size = 8
	cfg.Population.FoodPerBot = 5
	cfg.Bot.Lifetime = 64
	cfg.Mutation.Rate = 0.01
	cfg.Telemetry.HallOfFameSize = 3
	cfg.ComputeDerived()
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = smallConfig()
	}
	g, err := NewGame(opts)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestNewGame(t *testing.T) {
	g := newTestGame(t, Options{Seed: 1})
	cfg := g.Config()

	if got := g.Grid().Count(); got != cfg.Derived.FoodCount {
		t.Errorf("food = %d, want %d", got, cfg.Derived.FoodCount)
	}
	if got := g.AliveCount(); got != cfg.Population.Size {
		t.Errorf("alive = %d, want %d", got, cfg.Population.Size)
	}
	if g.BestGenome() != nil {
		t.Error("best genome should be nil before the first generation closes")
	}
	if _, ok := g.LastStats(); ok {
		t.Error("no stats expected before the first generation closes")
	}

	snap := g.Snapshot()
	for i, b := range snap.Bots {
		if b.Dir != 0 || !b.Alive || b.Food != 0 {
			t.Errorf("bot %d = %+v, want fresh east-facing bot", i, b)
		}
	}
}

func TestFoodConservedWithinGeneration(t *testing.T) {
	g := newTestGame(t, Options{Seed: 2})
	cfg := g.Config()

	for gen := 0; gen < 3; gen++ {
		var last *Snapshot
		for !g.Tick() {
			last = g.Snapshot()
		}

		eaten := 0
		for _, b := range last.Bots {
			eaten += b.Food
		}
		remaining := 0
		for _, f := range last.Food {
			if f {
				remaining++
			}
		}

		if eaten > cfg.Derived.FoodCount {
			t.Errorf("generation %d: eaten %d exceeds placed %d", gen, eaten, cfg.Derived.FoodCount)
		}
		if eaten+remaining != cfg.Derived.FoodCount {
			t.Errorf("generation %d: eaten %d + remaining %d != placed %d", gen, eaten, remaining, cfg.Derived.FoodCount)
		}

		stats, _ := g.LastStats()
		if stats.FoodEaten != eaten {
			t.Errorf("generation %d: stats food eaten = %d, want %d", gen, stats.FoodEaten, eaten)
		}

		// Reseeded for the next generation
		if got := g.Grid().Count(); got != cfg.Derived.FoodCount {
			t.Errorf("generation %d: reseeded food = %d, want %d", gen, got, cfg.Derived.FoodCount)
		}
	}
}

func TestGenerationLengthBoundedByLifetime(t *testing.T) {
	g := newTestGame(t, Options{Seed: 3})
	lifetime := g.Config().Bot.Lifetime

	stats, err := g.RunGeneration(context.Background())
	if err != nil {
		t.Fatalf("RunGeneration failed: %v", err)
	}
	if stats.Ticks < 1 || stats.Ticks > lifetime {
		t.Errorf("ticks = %d, want within [1, %d]", stats.Ticks, lifetime)
	}
	if g.Generation() != 1 {
		t.Errorf("generation = %d, want 1", g.Generation())
	}
	if g.AliveCount() != g.Config().Population.Size {
		t.Errorf("alive after breeding = %d, want %d", g.AliveCount(), g.Config().Population.Size)
	}
	if g.BestGenome() == nil {
		t.Error("best genome should be set after a generation")
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() []telemetry.GenerationStats {
		var out []telemetry.GenerationStats
		g := newTestGame(t, Options{
			Seed:          42,
			StatsCallback: func(s telemetry.GenerationStats) { out = append(out, s) },
		})
		if err := g.Run(context.Background(), 4); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return out
	}

	a, b := run(), run()
	if len(a) != 4 || len(b) != 4 {
		t.Fatalf("generations = %d and %d, want 4", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("generation %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestRunCancelled(t *testing.T) {
	g := newTestGame(t, Options{Seed: 4})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if g.Ticks() != 0 {
		t.Errorf("ticks = %d, want 0 after immediate cancel", g.Ticks())
	}
}

// recordingPresenter counts notifications.
type recordingPresenter struct {
	ticks       int
	generations []telemetry.GenerationStats
	lastSnap    *Snapshot
}

func (p *recordingPresenter) OnTick(snap *Snapshot) {
	p.ticks++
	p.lastSnap = snap
}

func (p *recordingPresenter) OnGeneration(snap *Snapshot, stats telemetry.GenerationStats) {
	p.generations = append(p.generations, stats)
	p.lastSnap = snap
}

func TestPresenterNotifications(t *testing.T) {
	g := newTestGame(t, Options{Seed: 5})
	p := &recordingPresenter{}
	g.AddPresenter(p)

	stats, err := g.RunGeneration(context.Background())
	if err != nil {
		t.Fatalf("RunGeneration failed: %v", err)
	}

	if p.ticks != stats.Ticks {
		t.Errorf("OnTick calls = %d, want %d", p.ticks, stats.Ticks)
	}
	if len(p.generations) != 1 || p.generations[0] != stats {
		t.Fatalf("OnGeneration calls = %v, want one with %+v", p.generations, stats)
	}

	snap := p.lastSnap
	if snap.Generation != 1 || snap.GenerationTick != 0 {
		t.Errorf("snapshot generation/tick = %d/%d, want 1/0", snap.Generation, snap.GenerationTick)
	}
	if len(snap.BestGenome) != g.Config().Bot.GenomeLength {
		t.Errorf("best genome length = %d, want %d", len(snap.BestGenome), g.Config().Bot.GenomeLength)
	}
	if snap.LastBestFitness != stats.BestFitness {
		t.Errorf("last best fitness = %v, want %v", snap.LastBestFitness, stats.BestFitness)
	}
}

func TestSnapshotLeader(t *testing.T) {
	g := newTestGame(t, Options{Seed: 6})

	for i := 0; i < 20; i++ {
		g.Tick()
	}
	snap := g.Snapshot()

	most := 0
	for _, b := range snap.Bots {
		if b.Food > most {
			most = b.Food
		}
	}
	if most == 0 {
		if snap.Leader != -1 {
			t.Errorf("leader = %d, want -1 when nobody has eaten", snap.Leader)
		}
		return
	}
	if snap.Bots[snap.Leader].Food != most {
		t.Errorf("leader food = %d, want %d", snap.Bots[snap.Leader].Food, most)
	}
	for i := 0; i < snap.Leader; i++ {
		if snap.Bots[i].Food == most {
			t.Errorf("bot %d ties the leader but comes first", i)
		}
	}
}

// memRecorder stores recorded generations.
type memRecorder struct {
	stats []telemetry.GenerationStats
	best  [][]string
}

func (r *memRecorder) RecordGeneration(stats telemetry.GenerationStats, best []string) error {
	r.stats = append(r.stats, stats)
	r.best = append(r.best, best)
	return nil
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) RecordGeneration(telemetry.GenerationStats, []string) error {
	r.calls++
	return errors.New("disk full")
}

func TestRecorderAndOutput(t *testing.T) {
	dir := t.TempDir()
	rec := &memRecorder{}
	g := newTestGame(t, Options{Seed: 7, OutputDir: dir, Recorder: rec})

	if err := g.Run(context.Background(), 2); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if len(rec.stats) != 2 {
		t.Fatalf("recorded %d generations, want 2", len(rec.stats))
	}
	if rec.stats[1].Generation != 1 {
		t.Errorf("second record generation = %d, want 1", rec.stats[1].Generation)
	}
	if len(rec.best[0]) != g.Config().Bot.GenomeLength {
		t.Errorf("best genome length = %d", len(rec.best[0]))
	}

	for _, name := range []string{"generations.csv", "config.yaml", telemetry.BestGenomeFile, "hall_of_fame.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	if g.HallOfFame().Len() != 2 {
		t.Errorf("hall of fame size = %d, want 2", g.HallOfFame().Len())
	}
}

func TestRecorderFailureDoesNotStopRun(t *testing.T) {
	rec := &failingRecorder{}
	g := newTestGame(t, Options{Seed: 8, Recorder: rec})

	if err := g.Run(context.Background(), 3); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rec.calls != 3 {
		t.Errorf("recorder calls = %d, want 3", rec.calls)
	}
	if g.Generation() != 3 {
		t.Errorf("generation = %d, want 3", g.Generation())
	}
}
