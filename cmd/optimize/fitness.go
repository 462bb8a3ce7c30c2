package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/game"
	"github.com/pthm-cable/foodbots/telemetry"
)

// FitnessEvaluator runs headless simulations and scores parameter vectors.
type FitnessEvaluator struct {
	params      *ParamVector
	generations int
	seeds       []int64
	baseConfig  *config.Config

	// Best run tracking
	mu             sync.Mutex
	bestObjective  float64
	bestHallOfFame *telemetry.HallOfFame
	lastScore      float64 // mean late best fitness from the most recent Evaluate
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, generations int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:        params,
		generations:   generations,
		seeds:         seeds,
		baseConfig:    baseCfg,
		bestObjective: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame of the best seed in the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// LastScore returns the mean late best fitness from the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

type seedResult struct {
	score      float64
	hallOfFame *telemetry.HallOfFame
}

// Evaluate returns the objective for raw parameter values (lower = better):
// the negated late best fitness averaged over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.ComputeDerived()

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg.Clone(), s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	best := -1
	for i, r := range results {
		total += r.score
		if best < 0 || r.score > results[best].score {
			best = i
		}
	}
	score := total / float64(len(results))
	objective := -score

	fe.mu.Lock()
	if objective < fe.bestObjective {
		fe.bestObjective = objective
		fe.bestHallOfFame = results[best].hallOfFame
	}
	fe.lastScore = score
	fe.mu.Unlock()

	return objective
}

// runSimulation runs one seed for the configured number of generations.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) seedResult {
	var best []float64
	g, err := game.NewGame(game.Options{
		Config: cfg,
		Seed:   seed,
		StatsCallback: func(stats telemetry.GenerationStats) {
			best = append(best, stats.BestFitness)
		},
	})
	if err != nil {
		slog.Error("evaluation setup failed", "seed", seed, "error", err)
		return seedResult{}
	}
	defer g.Close()

	if err := g.Run(context.Background(), fe.generations); err != nil {
		slog.Error("evaluation run failed", "seed", seed, "error", err)
	}

	return seedResult{
		score:      lateMean(best),
		hallOfFame: g.HallOfFame(),
	}
}

// lateMean averages the last quarter of values, at least one of them.
func lateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := max(len(values)/4, 1)
	return stat.Mean(values[len(values)-n:], nil)
}
