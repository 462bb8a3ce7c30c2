// Package game owns the simulation context: the food grid, the bot
// population and the generation clock that drives breeding.
package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/foodbots/components"
	"github.com/pthm-cable/foodbots/config"
	"github.com/pthm-cable/foodbots/systems"
	"github.com/pthm-cable/foodbots/telemetry"
	"github.com/pthm-cable/foodbots/vm"
)

// Options configures a new Game.
type Options struct {
	Config        *config.Config // nil = config.Cfg()
	Seed          int64
	LogStats      bool
	OutputDir     string // Empty disables CSV/JSON output
	Recorder      Recorder
	StatsCallback func(telemetry.GenerationStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	// ECS
	world      *ecs.World
	botMapper  *ecs.Map2[vm.Bot, components.Organism]
	botFilter  *ecs.Filter2[vm.Bot, components.Organism]
	botMap     *ecs.Map1[vm.Bot]
	orgMap     *ecs.Map1[components.Organism]
	population []ecs.Entity // Stepping order

	grid    *systems.FoodGrid
	breeder *systems.Breeder

	// Telemetry
	collector     *telemetry.Collector
	hallOfFame    *telemetry.HallOfFame
	outputManager *telemetry.OutputManager
	recorder      Recorder
	statsCallback func(telemetry.GenerationStats)
	logStats      bool

	presenters []Presenter

	// Counters
	tick       int // Ticks in which at least one bot executed
	genStart   int
	generation int
	nextID     uint32

	lastStats  telemetry.GenerationStats
	hasStats   bool
	bestGenome *vm.Genome // Best genome of the last finished generation
}

// NewGame creates a game and spawns generation 0.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:   cfg,
		rng:   rng,
		world: world,

		botMapper: ecs.NewMap2[vm.Bot, components.Organism](world),
		botFilter: ecs.NewFilter2[vm.Bot, components.Organism](world),
		botMap:    ecs.NewMap1[vm.Bot](world),
		orgMap:    ecs.NewMap1[components.Organism](world),

		grid:    systems.NewFoodGrid(cfg.World.Width, cfg.World.Height),
		breeder: systems.NewBreeder(rng, cfg.Mutation.Rate, cfg.Derived.MaxFitness),

		collector:     telemetry.NewCollector(cfg.Derived.FoodCount),
		hallOfFame:    telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		outputManager: om,
		recorder:      opts.Recorder,
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,

		nextID: 1,
	}

	g.grid.Seed(cfg.Derived.FoodCount, rng)
	g.spawnInitialPopulation()

	return g, nil
}

// spawnInitialPopulation creates generation 0 from random genomes.
func (g *Game) spawnInitialPopulation() {
	g.population = make([]ecs.Entity, 0, g.cfg.Population.Size)
	for i := 0; i < g.cfg.Population.Size; i++ {
		genome := vm.RandomGenome(g.cfg.Bot.GenomeLength, g.cfg.Mutation.InitialVolatility, g.rng)
		g.spawnBot(genome, components.Organism{Generation: 0})
	}
}

// spawnBot creates a bot entity at a random cell and appends it to the population.
func (g *Game) spawnBot(genome *vm.Genome, org components.Organism) ecs.Entity {
	org.ID = g.nextID
	g.nextID++

	bot := vm.SpawnBot(genome, g.grid, g.cfg.Bot.Lifetime, g.rng)
	entity := g.botMapper.NewEntity(&bot, &org)
	g.population = append(g.population, entity)
	return entity
}

// Tick steps every living bot once in population order. When no bot is
// left to run, the generation closes: the population is bred, the grid
// reseeded and presenters are notified. Returns true if this call closed
// a generation.
func (g *Game) Tick() bool {
	ran := false
	eaten := 0

	for _, e := range g.population {
		bot := g.botMap.Get(e)
		if bot.Dead() {
			continue
		}

		before := bot.Food
		err := bot.Step(g.grid)
		ran = true
		eaten += bot.Food - before

		var invalid *vm.InvalidOpcodeError
		switch {
		case errors.As(err, &invalid):
			g.collector.RecordInvalidOp()
			slog.Warn("invalid opcode",
				"generation", g.generation,
				"bot", g.orgMap.Get(e).ID,
				"pc", invalid.PC,
				"opcode", int(invalid.Op),
			)
		case errors.Is(err, vm.ErrHalted):
			slog.Debug("step on halted bot", "bot", g.orgMap.Get(e).ID)
		}
	}

	if !ran {
		g.endGeneration()
		return true
	}

	g.collector.RecordEaten(eaten)
	g.tick++

	if len(g.presenters) > 0 {
		snap := g.Snapshot()
		for _, p := range g.presenters {
			p.OnTick(snap)
		}
	}
	return false
}

// endGeneration breeds the next population from the finished one.
func (g *Game) endGeneration() {
	n := len(g.population)
	parents := make([]systems.Parent, n)
	parentOrgs := make([]components.Organism, n)
	volatility := make([]float64, n)

	for i, e := range g.population {
		bot := g.botMap.Get(e)
		parents[i] = systems.Parent{Genome: bot.Genome, Food: bot.Food}
		parentOrgs[i] = *g.orgMap.Get(e)
		volatility[i] = bot.Genome.Volatility
	}

	offspring := g.breeder.Generate(parents, g.grid, g.cfg.Derived.FoodCount)

	stats := g.collector.Flush(g.generation, g.tick, offspring.Weights, volatility, offspring.BestIndex, offspring.BestFitness)

	best := parents[offspring.BestIndex]
	g.bestGenome = best.Genome
	g.lastStats = stats
	g.hasStats = true

	g.hallOfFame.Consider(telemetry.HallEntry{
		Generation: g.generation,
		BotID:      parentOrgs[offspring.BestIndex].ID,
		Fitness:    offspring.BestFitness,
		Food:       best.Food,
		Volatility: best.Genome.Volatility,
		Genome:     best.Genome.Names(),
	})

	g.flushTelemetry(stats)

	g.replacePopulation(offspring, parentOrgs)
	g.generation++
	g.genStart = g.tick

	if len(g.presenters) > 0 {
		snap := g.Snapshot()
		for _, p := range g.presenters {
			p.OnGeneration(snap, stats)
		}
	}
}

// replacePopulation removes the finished bots and spawns the children.
func (g *Game) replacePopulation(offspring systems.Offspring, parents []components.Organism) {
	for _, e := range g.population {
		g.world.RemoveEntity(e)
	}

	g.population = g.population[:0]
	for i, child := range offspring.Children {
		pair := offspring.Pairs[i]
		g.spawnBot(child, components.Organism{
			Generation: g.generation + 1,
			ParentA:    parents[pair[0]].ID,
			ParentB:    parents[pair[1]].ID,
		})
	}
}

// RunGeneration ticks until the current generation closes or ctx is done.
func (g *Game) RunGeneration(ctx context.Context) (telemetry.GenerationStats, error) {
	for {
		if err := ctx.Err(); err != nil {
			return telemetry.GenerationStats{}, err
		}
		if g.Tick() {
			return g.lastStats, nil
		}
	}
}

// Run runs maxGenerations generations, or until ctx is done when
// maxGenerations is 0.
func (g *Game) Run(ctx context.Context, maxGenerations int) error {
	for done := 0; maxGenerations == 0 || done < maxGenerations; done++ {
		if _, err := g.RunGeneration(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AddPresenter attaches a presenter notified after every tick and generation.
func (g *Game) AddPresenter(p Presenter) {
	g.presenters = append(g.presenters, p)
}

// AliveCount returns the number of bots that can still execute.
func (g *Game) AliveCount() int {
	n := 0
	query := g.botFilter.Query()
	for query.Next() {
		bot, _ := query.Get()
		if !bot.Dead() {
			n++
		}
	}
	return n
}

// Ticks returns the number of ticks in which at least one bot executed.
func (g *Game) Ticks() int {
	return g.tick
}

// Generation returns the index of the generation currently running.
func (g *Game) Generation() int {
	return g.generation
}

// Config returns the game's configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Grid returns the shared food grid.
func (g *Game) Grid() *systems.FoodGrid {
	return g.grid
}

// HallOfFame returns the run's hall of fame.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// LastStats returns the stats of the last finished generation.
func (g *Game) LastStats() (telemetry.GenerationStats, bool) {
	return g.lastStats, g.hasStats
}

// BestGenome returns the best genome of the last finished generation, or
// nil before the first generation has closed.
func (g *Game) BestGenome() *vm.Genome {
	if g.bestGenome == nil {
		return nil
	}
	return g.bestGenome.Clone()
}

// Close flushes the run's final output and closes all files.
func (g *Game) Close() error {
	if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	return g.outputManager.Close()
}
