package systems

import "math/rand"

// FoodGrid is a toroidal boolean food field. Every accessor wraps its
// coordinates on both axes, so no position is ever out of range.
type FoodGrid struct {
	w, h  int
	cells []bool
}

// NewFoodGrid creates an empty grid of w by h cells.
func NewFoodGrid(w, h int) *FoodGrid {
	return &FoodGrid{
		w:     w,
		h:     h,
		cells: make([]bool, w*h),
	}
}

// Width returns the grid width in cells.
func (g *FoodGrid) Width() int { return g.w }

// Height returns the grid height in cells.
func (g *FoodGrid) Height() int { return g.h }

func (g *FoodGrid) index(x, y int) int {
	x = ((x % g.w) + g.w) % g.w
	y = ((y % g.h) + g.h) % g.h
	return x + y*g.w
}

// Get reports whether the cell at (x, y) holds food.
func (g *FoodGrid) Get(x, y int) bool {
	return g.cells[g.index(x, y)]
}

// Set places or clears food at (x, y).
func (g *FoodGrid) Set(x, y int, val bool) {
	g.cells[g.index(x, y)] = val
}

// Fill sets every cell to val.
func (g *FoodGrid) Fill(val bool) {
	for i := range g.cells {
		g.cells[i] = val
	}
}

// Count returns the number of cells holding food.
func (g *FoodGrid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Cells returns a row-major copy of the grid.
func (g *FoodGrid) Cells() []bool {
	out := make([]bool, len(g.cells))
	copy(out, g.cells)
	return out
}

// Seed clears the grid and places exactly n food cells at distinct random
// positions. n must not exceed the number of cells.
func (g *FoodGrid) Seed(n int, rng *rand.Rand) {
	g.Fill(false)
	for placed := 0; placed < n; {
		x := rng.Intn(g.w)
		y := rng.Intn(g.h)
		if g.Get(x, y) {
			continue
		}
		g.Set(x, y, true)
		placed++
	}
}
