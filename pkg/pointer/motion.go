package pointer

import (
	"math"

	"github.com/d-biehl/platynui/pkg/uivalue"
)

// stepCount computes ceil(distance * stepsPerPixel), minimum 1 (spec.md
// §4.5's move_to contract).
func stepCount(from, to uivalue.Point, stepsPerPixel float64) int {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := math.Hypot(dx, dy)
	n := int(math.Ceil(dist * stepsPerPixel))
	if n < 1 {
		n = 1
	}
	return n
}

// path generates the ordered list of intermediate points a motion mode
// emits to the device, ending exactly at `to` (spec.md §4.5). `from` is not
// included in the result: the caller is already positioned there.
func path(mode Mode, from, to uivalue.Point, steps int, r resolved) []uivalue.Point {
	switch mode {
	case Direct:
		return []uivalue.Point{to}
	case Bezier:
		return bezierPath(from, to, steps, r.BezierAmplitude)
	case Overshoot:
		return overshootPath(from, to, r.OvershootAmplitude, r.OvershootSteps)
	case Jitter:
		return jitterPath(from, to, steps, r.JitterAmplitude, r.JitterFrequency)
	default: // Linear
		return linearPath(from, to, steps)
	}
}

func lerp(from, to uivalue.Point, t float64) uivalue.Point {
	return uivalue.Point{
		X: from.X + (to.X-from.X)*t,
		Y: from.Y + (to.Y-from.Y)*t,
	}
}

func linearPath(from, to uivalue.Point, steps int) []uivalue.Point {
	pts := make([]uivalue.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		pts = append(pts, lerp(from, to, float64(i)/float64(steps)))
	}
	return pts
}

// perpendicular returns the unit vector perpendicular to from->to (zero
// vector if from == to).
func perpendicular(from, to uivalue.Point) (float64, float64) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0, 0
	}
	return -dy / length, dx / length
}

// bezierPath interpolates a quadratic Bezier curve whose control point sits
// offset from the straight-line midpoint by amplitude * distance along the
// perpendicular (spec.md §4.5: "quadratic with perpendicular control
// amplitude").
func bezierPath(from, to uivalue.Point, steps int, amplitude float64) []uivalue.Point {
	dist := math.Hypot(to.X-from.X, to.Y-from.Y)
	px, py := perpendicular(from, to)
	mid := lerp(from, to, 0.5)
	control := uivalue.Point{X: mid.X + px*amplitude*dist, Y: mid.Y + py*amplitude*dist}

	pts := make([]uivalue.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		x := u*u*from.X + 2*u*t*control.X + t*t*to.X
		y := u*u*from.Y + 2*u*t*control.Y + t*t*to.Y
		pts = append(pts, uivalue.Point{X: x, Y: y})
	}
	return pts
}

// overshootPath travels straight past the target by amplitude*distance,
// then eases back to it over settleSteps additional points (spec.md §4.5:
// "overshoot past target then settle in N easing steps").
func overshootPath(from, to uivalue.Point, amplitude float64, settleSteps int) []uivalue.Point {
	if settleSteps < 1 {
		settleSteps = 1
	}
	dx := to.X - from.X
	dy := to.Y - from.Y
	overshotTarget := uivalue.Point{X: to.X + dx*amplitude, Y: to.Y + dy*amplitude}

	pts := []uivalue.Point{overshotTarget}
	for i := 1; i <= settleSteps; i++ {
		// Ease-out: quadratic decay of the remaining overshoot.
		t := float64(i) / float64(settleSteps)
		ease := 1 - (1-t)*(1-t)
		pts = append(pts, lerp(overshotTarget, to, ease))
	}
	return pts
}

// jitterPath follows the straight line but perturbs each intermediate
// point with sinusoidal perpendicular noise that decays to zero at the
// final point, so the path always lands exactly on `to` (spec.md §4.5:
// "linear path with sinusoidal perpendicular noise").
func jitterPath(from, to uivalue.Point, steps int, amplitude, frequency float64) []uivalue.Point {
	px, py := perpendicular(from, to)
	pts := make([]uivalue.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		base := lerp(from, to, t)
		decay := 1 - t
		offset := amplitude * decay * math.Sin(t*frequency*2*math.Pi)
		pts = append(pts, uivalue.Point{X: base.X + px*offset, Y: base.Y + py*offset})
	}
	if len(pts) > 0 {
		pts[len(pts)-1] = to
	}
	return pts
}
