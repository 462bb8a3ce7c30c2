package game

import (
	"log/slog"

	"github.com/pthm-cable/foodbots/telemetry"
)

// Recorder receives every finished generation, typically to persist run history.
type Recorder interface {
	RecordGeneration(stats telemetry.GenerationStats, bestGenome []string) error
}

// flushTelemetry feeds a finished generation to every configured sink.
// Sink failures are logged and never stop the simulation.
func (g *Game) flushTelemetry(stats telemetry.GenerationStats) {
	names := g.bestGenome.Names()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats && g.shouldLog(stats.Generation) {
		stats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteGeneration(stats); err != nil {
			slog.Error("failed to write generation", "error", err)
		}
		if err := g.outputManager.WriteBestGenome(names); err != nil {
			slog.Error("failed to write best genome", "error", err)
		}
	}

	if g.recorder != nil {
		if err := g.recorder.RecordGeneration(stats, names); err != nil {
			slog.Error("failed to record generation", "generation", stats.Generation, "error", err)
		}
	}
}

func (g *Game) shouldLog(generation int) bool {
	every := g.cfg.Telemetry.LogEvery
	return every <= 1 || generation%every == 0
}
