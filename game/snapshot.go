package game

import (
	"github.com/pthm-cable/foodbots/telemetry"
	"github.com/pthm-cable/foodbots/vm"
)

// Presenter displays the simulation. It only ever sees read-only snapshots.
type Presenter interface {
	OnTick(snap *Snapshot)
	OnGeneration(snap *Snapshot, stats telemetry.GenerationStats)
}

// BotView is the visible state of one bot.
type BotView struct {
	ID    uint32
	X, Y  int
	Dir   vm.Direction
	Alive bool
	Food  int
}

// Snapshot is a copy of the simulation state for presenters.
type Snapshot struct {
	Tick           int
	Generation     int
	GenerationTick int // Ticks elapsed in the current generation

	Width, Height int
	Food          []bool // Row-major, Width*Height
	Bots          []BotView

	Leader        int // Index into Bots of the bot with the most food, -1 if none has eaten
	EatenFraction float64

	// Last finished generation
	LastBestFitness float64
	BestGenome      []string
}

// FoodAt reports whether the snapshot cell (x, y) holds food.
func (s *Snapshot) FoodAt(x, y int) bool {
	return s.Food[x+y*s.Width]
}

// Snapshot copies the current state.
func (g *Game) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:           g.tick,
		Generation:     g.generation,
		GenerationTick: g.tick - g.genStart,
		Width:          g.grid.Width(),
		Height:         g.grid.Height(),
		Food:           g.grid.Cells(),
		Bots:           make([]BotView, len(g.population)),
		Leader:         -1,
		EatenFraction:  g.collector.EatenFraction(),
	}

	best := 0
	for i, e := range g.population {
		bot := g.botMap.Get(e)
		snap.Bots[i] = BotView{
			ID:    g.orgMap.Get(e).ID,
			X:     bot.X,
			Y:     bot.Y,
			Dir:   bot.Dir,
			Alive: !bot.Dead(),
			Food:  bot.Food,
		}
		if bot.Food > best {
			best = bot.Food
			snap.Leader = i
		}
	}

	if g.hasStats {
		snap.LastBestFitness = g.lastStats.BestFitness
		snap.BestGenome = g.bestGenome.Names()
	}

	return snap
}
