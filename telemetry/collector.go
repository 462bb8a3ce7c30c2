package telemetry

// Collector accumulates events within one generation and produces
// GenerationStats when the generation closes.
type Collector struct {
	foodPlaced int

	startTick  int
	eaten      int
	invalidOps int
}

// NewCollector creates a collector for generations seeded with foodPlaced food cells.
func NewCollector(foodPlaced int) *Collector {
	return &Collector{foodPlaced: foodPlaced}
}

// RecordEaten records food consumed during a tick.
func (c *Collector) RecordEaten(n int) {
	c.eaten += n
}

// RecordInvalidOp records a skipped invalid instruction.
func (c *Collector) RecordInvalidOp() {
	c.invalidOps++
}

// Eaten returns the food consumed so far this generation.
func (c *Collector) Eaten() int {
	return c.eaten
}

// EatenFraction returns the share of this generation's food already consumed.
func (c *Collector) EatenFraction() float64 {
	if c.foodPlaced == 0 {
		return 0
	}
	return float64(c.eaten) / float64(c.foodPlaced)
}

// Flush produces the stats for the generation that ended at endTick and
// resets counters for the next one. fitness and volatility are per bot in
// population order.
func (c *Collector) Flush(
	generation, endTick int,
	fitness, volatility []float64,
	bestIndex int,
	bestFitness float64,
) GenerationStats {
	fit := Describe(fitness)
	vol := Describe(volatility)

	stats := GenerationStats{
		Generation: generation,
		EndTick:    endTick,
		Ticks:      endTick - c.startTick,
		Population: len(fitness),

		FoodPlaced:    c.foodPlaced,
		FoodEaten:     c.eaten,
		EatenFraction: c.EatenFraction(),

		BestIndex:   bestIndex,
		BestFitness: bestFitness,
		FitnessMean: fit.Mean,
		FitnessStd:  fit.Std,
		FitnessP10:  fit.P10,
		FitnessP50:  fit.P50,
		FitnessP90:  fit.P90,

		VolatilityMean: vol.Mean,
		VolatilityStd:  vol.Std,

		InvalidOps: c.invalidOps,
	}

	// Reset for next generation
	c.startTick = endTick
	c.eaten = 0
	c.invalidOps = 0

	return stats
}
