package engine

import (
	"math"
	"math/rand"

	"github.com/deskauto/deskauto/internal/element"
)

// MovementStep is one sampled point of a humanized pointer trajectory and
// the delay to wait before moving the cursor there.
type MovementStep struct {
	Point element.Point
	Delay float64 // seconds
}

// MovementOptions tunes the humanized trajectory generator (C5). The zero
// value is not valid; use DefaultMovementOptions.
type MovementOptions struct {
	Randomness    float64 // perpendicular control-point offset as a fraction of distance
	OvershootProb float64 // probability of an overshoot-and-correct
	FittsA        float64 // Fitts's law intercept, seconds
	FittsB        float64 // Fitts's law slope, seconds per bit
	Rand          *rand.Rand
}

// DefaultMovementOptions matches §4.5's documented defaults.
func DefaultMovementOptions() MovementOptions {
	return MovementOptions{
		Randomness:    0.3,
		OvershootProb: 0.2,
		FittsA:        0.05,
		FittsB:        0.15,
		Rand:          rand.New(rand.NewSource(1)),
	}
}

// GenerateMovement produces a plausible human pointer trajectory from start
// to end, assuming a target of width targetWidth. It has no side effects:
// given the same Rand seed it is a pure function of its inputs.
func GenerateMovement(start, end element.Point, targetWidth float64, opts MovementOptions) []MovementStep {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	distance := math.Hypot(end.X-start.X, end.Y-start.Y)

	if distance < 3 {
		return []MovementStep{{Point: end, Delay: 0}}
	}

	steps := int(math.Max(20, math.Min(80, distance/8)))
	points := bezierSample(start, end, distance, steps, opts)

	if opts.Rand.Float64() < opts.OvershootProb {
		points = applyOvershoot(points, end, opts.Rand)
	}

	total := fittsDuration(distance, targetWidth, opts)
	delays := distributeDelays(total, len(points))

	out := make([]MovementStep, len(points))
	for i, p := range points {
		out[i] = MovementStep{Point: p, Delay: delays[i]}
	}
	return out
}

// bezierSample samples a cubic Bézier curve from start to end with two
// interior control points offset perpendicular to the straight line, per
// §4.5. The returned slice excludes the starting point — callers already
// know where the cursor begins.
func bezierSample(start, end element.Point, distance float64, steps int, opts MovementOptions) []element.Point {
	dx, dy := end.X-start.X, end.Y-start.Y
	// Unit perpendicular to the start->end line.
	perpX, perpY := -dy/distance, dx/distance

	t1 := 0.2 + opts.Rand.Float64()*0.2
	t2 := 0.6 + opts.Rand.Float64()*0.2
	off1 := (opts.Rand.Float64()*2 - 1) * distance * opts.Randomness
	off2 := (opts.Rand.Float64()*2 - 1) * distance * opts.Randomness

	p1 := element.Point{
		X: start.X + dx*t1 + perpX*off1,
		Y: start.Y + dy*t1 + perpY*off1,
	}
	p2 := element.Point{
		X: start.X + dx*t2 + perpX*off2,
		Y: start.Y + dy*t2 + perpY*off2,
	}

	out := make([]element.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		out = append(out, cubicBezier(start, p1, p2, end, t))
	}
	return out
}

func cubicBezier(p0, p1, p2, p3 element.Point, t float64) element.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return element.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// applyOvershoot replaces the last sampled point with an extrapolation 2-6
// px past end along the approach direction, then appends the exact
// endpoint, per §4.5.
func applyOvershoot(points []element.Point, end element.Point, r *rand.Rand) []element.Point {
	if len(points) < 2 {
		return append(points, end)
	}
	prev := points[len(points)-2]
	dx, dy := end.X-prev.X, end.Y-prev.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return points
	}
	extend := 2 + r.Float64()*4
	overshoot := element.Point{
		X: end.X + dx/length*extend,
		Y: end.Y + dy/length*extend,
	}
	points[len(points)-1] = overshoot
	return append(points, end)
}

// fittsDuration computes total movement time per Fitts's law, jittered by
// ±10% and clamped to a 20ms floor.
func fittsDuration(distance, targetWidth float64, opts MovementOptions) float64 {
	width := targetWidth
	if width <= 0 {
		width = 1
	}
	t := opts.FittsA + opts.FittsB*math.Log2(2*distance/width)
	jitter := 1 + (opts.Rand.Float64()*0.2 - 0.1)
	t *= jitter
	if t < 0.02 {
		t = 0.02
	}
	return t
}

// distributeDelays spreads total seconds across n steps with a sine-easing
// bell: slower at the endpoints, faster at mid-trajectory.
func distributeDelays(total float64, n int) []float64 {
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []float64{total}
	}
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		w := 0.3 + math.Sin(math.Pi*float64(i)/float64(n-1))
		weights[i] = w
		sum += w
	}
	delays := make([]float64, n)
	for i, w := range weights {
		delays[i] = total * w / sum
	}
	return delays
}
