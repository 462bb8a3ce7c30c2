package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/foodbots/config"
)

func TestLateMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"short", []float64{0.2, 0.4}, 0.4},
		{"quarter", []float64{0, 0, 0, 0, 0, 0, 1, 3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lateMean(tt.values); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("lateMean = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width = 16
	cfg.World.Height = 12
	cfg.Population.Size = 6
	cfg.Population.FoodPerBot = 4
	cfg.Bot.Lifetime = 48
	cfg.ComputeDerived()

	pv := NewParamVector()
	x := []float64{0.01, 0.5}

	a := NewFitnessEvaluator(pv, 4, []int64{1, 2}, cfg).Evaluate(x)
	b := NewFitnessEvaluator(pv, 4, []int64{1, 2}, cfg).Evaluate(x)
	if a != b {
		t.Errorf("same parameters and seeds gave %v and %v", a, b)
	}
	if a > 0 {
		t.Errorf("objective = %v, want <= 0", a)
	}
}

func TestEvaluateTracksBest(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width = 10
	cfg.World.Height = 10
	cfg.Population.Size = 4
	cfg.Population.FoodPerBot = 5
	cfg.Bot.Lifetime = 40
	cfg.ComputeDerived()

	fe := NewFitnessEvaluator(NewParamVector(), 3, []int64{7}, cfg)
	objective := fe.Evaluate([]float64{0.001, 0.5})

	if fe.BestHallOfFame() == nil {
		t.Fatal("best hall of fame not recorded")
	}
	if math.Abs(fe.LastScore()+objective) > 1e-12 {
		t.Errorf("LastScore = %v, want %v", fe.LastScore(), -objective)
	}
}
