package systems

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/foodbots/vm"
)

// Parent is one finished bot offered to the breeder.
type Parent struct {
	Genome *vm.Genome
	Food   int
}

// Offspring is the result of breeding one generation.
type Offspring struct {
	Children []*vm.Genome
	Pairs    [][2]int  // Parent indices of each child
	Weights  []float64 // Normalized fitness per parent, also the selection weights

	BestIndex   int
	BestFitness float64
}

// Breeder runs fitness-proportional selection, uniform crossover and
// per-gene mutation over a population of genomes.
type Breeder struct {
	rng        *rand.Rand
	rate       float64
	maxFitness float64
}

// NewBreeder creates a breeder. maxFitness normalizes raw food counts.
func NewBreeder(rng *rand.Rand, rate, maxFitness float64) *Breeder {
	return &Breeder{
		rng:        rng,
		rate:       rate,
		maxFitness: maxFitness,
	}
}

// Fitness returns food normalized by the best fitness a bot could expect
// from uniform food density over its lifetime.
func (b *Breeder) Fitness(food int) float64 {
	if b.maxFitness <= 0 {
		return 0
	}
	return float64(food) / b.maxFitness
}

// Select draws an index with probability proportional to its weight.
// All-zero weights fall back to a uniform draw.
func (b *Breeder) Select(weights []float64) int {
	sum := floats.Sum(weights)
	if sum == 0 {
		return b.rng.Intn(len(weights))
	}

	r := b.rng.Float64()
	var acc float64
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w / sum
		if r < acc {
			return i
		}
		last = i
	}
	// Rounding left r just above the final cumulative weight
	return last
}

// Crossover builds a child choosing each gene from either parent with a
// fair coin. The child's volatility is the food-weighted mean of the
// parents' volatilities.
func (b *Breeder) Crossover(a, p *vm.Genome, foodA, foodB int) *vm.Genome {
	denom := foodA + foodB
	if denom == 0 {
		denom = 1
	}
	vol := (a.Volatility*float64(foodA) + p.Volatility*float64(foodB)) / float64(denom)

	child := vm.NewGenome(a.Len(), vol)
	for i := range child.Code {
		if b.rng.Float64() < 0.5 {
			child.Code[i] = a.Code[i]
		} else {
			child.Code[i] = p.Code[i]
		}
	}
	return child
}

// Mutate replaces each gene with a random opcode with probability
// rate/2 + rate*volatility.
func (b *Breeder) Mutate(g *vm.Genome, rate float64) {
	chance := rate/2 + rate*g.Volatility
	for i := range g.Code {
		if b.rng.Float64() < chance {
			g.Code[i] = vm.RandomOpcode(b.rng)
		}
	}
}

// Generate breeds len(parents) children and reseeds grid with foodCount
// food cells for the next generation.
func (b *Breeder) Generate(parents []Parent, grid *FoodGrid, foodCount int) Offspring {
	n := len(parents)
	out := Offspring{
		Children:  make([]*vm.Genome, n),
		Pairs:     make([][2]int, n),
		Weights:   make([]float64, n),
		BestIndex: -1,
	}

	for i, p := range parents {
		fit := b.Fitness(p.Food)
		if out.BestIndex < 0 || fit > out.BestFitness {
			out.BestIndex = i
			out.BestFitness = fit
		}
		out.Weights[i] = fit
	}

	for i := 0; i < n; i++ {
		ia := b.Select(out.Weights)
		ib := b.Select(out.Weights)
		pa, pb := parents[ia], parents[ib]

		child := b.Crossover(pa.Genome, pb.Genome, pa.Food, pb.Food)
		b.Mutate(child, b.rate)

		out.Children[i] = child
		out.Pairs[i] = [2]int{ia, ib}
	}

	grid.Seed(foodCount, b.rng)
	return out
}
