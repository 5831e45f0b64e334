package engine

import (
	"math"
	"math/rand"
	"testing"

	"github.com/deskauto/deskauto/internal/element"
)

func TestGenerateMovement_ShortDistanceJumpsDirectly(t *testing.T) {
	start := element.Point{X: 10, Y: 10}
	end := element.Point{X: 11, Y: 10}
	steps := GenerateMovement(start, end, 20, DefaultMovementOptions())
	if len(steps) != 1 || steps[0].Point != end {
		t.Errorf("expected a single direct step to end, got %+v", steps)
	}
}

func TestGenerateMovement_EndsAtTarget(t *testing.T) {
	start := element.Point{X: 0, Y: 0}
	end := element.Point{X: 500, Y: 300}
	steps := GenerateMovement(start, end, 40, DefaultMovementOptions())
	if len(steps) == 0 {
		t.Fatal("expected at least one step")
	}
	last := steps[len(steps)-1].Point
	if last != end {
		t.Errorf("expected trajectory to end exactly at target, got %+v", last)
	}
}

func TestGenerateMovement_Deterministic(t *testing.T) {
	start := element.Point{X: 0, Y: 0}
	end := element.Point{X: 400, Y: 400}
	opts1 := DefaultMovementOptions()
	opts1.Rand = rand.New(rand.NewSource(42))
	opts2 := DefaultMovementOptions()
	opts2.Rand = rand.New(rand.NewSource(42))

	steps1 := GenerateMovement(start, end, 30, opts1)
	steps2 := GenerateMovement(start, end, 30, opts2)

	if len(steps1) != len(steps2) {
		t.Fatalf("same seed produced different step counts: %d vs %d", len(steps1), len(steps2))
	}
	for i := range steps1 {
		if steps1[i] != steps2[i] {
			t.Errorf("step %d differs between identically-seeded runs: %+v vs %+v", i, steps1[i], steps2[i])
		}
	}
}

func TestGenerateMovement_DelaysSumToFittsDuration(t *testing.T) {
	start := element.Point{X: 0, Y: 0}
	end := element.Point{X: 600, Y: 0}
	opts := DefaultMovementOptions()
	opts.OvershootProb = 0 // keep the point count predictable for the delay sum check
	steps := GenerateMovement(start, end, 40, opts)

	var sum float64
	for _, s := range steps {
		sum += s.Delay
	}
	if sum <= 0 {
		t.Errorf("expected positive total delay, got %v", sum)
	}
	fitts := opts.FittsA + opts.FittsB*math.Log2(2*600/40.0)
	if sum < fitts*0.9-1e-9 || sum > fitts*1.1+1e-9 {
		t.Errorf("expected total delay within ±10%% of the Fitts duration %v, got %v", fitts, sum)
	}
}

func TestFittsDuration_FloorClamp(t *testing.T) {
	opts := DefaultMovementOptions()
	opts.Rand = rand.New(rand.NewSource(1))
	got := fittsDuration(1, 1000, opts)
	if got < 0.02 {
		t.Errorf("expected duration to be clamped to the 20ms floor, got %v", got)
	}
}

func TestDistributeDelays_SumsToTotal(t *testing.T) {
	total := 1.0
	delays := distributeDelays(total, 10)
	var sum float64
	for _, d := range delays {
		sum += d
	}
	if math.Abs(sum-total) > 1e-9 {
		t.Errorf("expected delays to sum to %v, got %v", total, sum)
	}
}

func TestDistributeDelays_SingleStep(t *testing.T) {
	delays := distributeDelays(2.5, 1)
	if len(delays) != 1 || delays[0] != 2.5 {
		t.Errorf("expected [2.5], got %v", delays)
	}
}

func TestCubicBezier_EndpointsMatch(t *testing.T) {
	p0 := element.Point{X: 0, Y: 0}
	p3 := element.Point{X: 100, Y: 100}
	if got := cubicBezier(p0, p0, p3, p3, 0); got != p0 {
		t.Errorf("t=0 should equal start, got %+v", got)
	}
	if got := cubicBezier(p0, p0, p3, p3, 1); got != p3 {
		t.Errorf("t=1 should equal end, got %+v", got)
	}
}
