package telemetry

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes one finished generation.
type GenerationStats struct {
	Generation int `csv:"generation"`
	EndTick    int `csv:"end_tick"` // Global tick that closed the generation
	Ticks      int `csv:"ticks"`    // Ticks the generation lasted
	Population int `csv:"population"`

	// Food
	FoodPlaced    int     `csv:"food_placed"`
	FoodEaten     int     `csv:"food_eaten"`
	EatenFraction float64 `csv:"eaten_fraction"`

	// Normalized fitness distribution
	BestIndex   int     `csv:"best_index"`
	BestFitness float64 `csv:"best_fitness"`
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	// Volatility trait distribution
	VolatilityMean float64 `csv:"volatility_mean"`
	VolatilityStd  float64 `csv:"volatility_std"`

	InvalidOps int `csv:"invalid_ops"`
}

// Distribution holds the mean, spread and deciles of a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Describe computes a Distribution. Empty samples yield zeros and a single
// sample has zero spread.
func Describe(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Mean: stat.Mean(sorted, nil),
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}
	return d
}

// FormatPercent renders a fraction as a whole percentage, rounding down.
func FormatPercent(x float64) string {
	return fmt.Sprintf("%d%%", int(math.Floor(100*x)))
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("end_tick", s.EndTick),
		slog.Int("ticks", s.Ticks),
		slog.Int("population", s.Population),
		slog.Int("food_placed", s.FoodPlaced),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Float64("eaten_fraction", s.EatenFraction),
		slog.Int("best_index", s.BestIndex),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("volatility_mean", s.VolatilityMean),
		slog.Int("invalid_ops", s.InvalidOps),
	)
}

// LogStats logs the generation summary using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"ticks", s.Ticks,
		"eaten", FormatPercent(s.EatenFraction),
		"best_fitness", FormatPercent(s.BestFitness),
		"fitness_mean", s.FitnessMean,
		"fitness_p90", s.FitnessP90,
		"volatility_mean", s.VolatilityMean,
		"invalid_ops", s.InvalidOps,
	)
}
