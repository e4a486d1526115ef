package pointer

import (
	"time"

	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// Call carries the optional per-call origin and overrides every pointer
// operation accepts (spec.md §4.4: "Each accepts optional per-call
// overrides and an optional origin").
type Call struct {
	Origin    Origin
	Overrides *Overrides
	Profile   *Profile
}

func (e *Engine) resolveCall(c Call) resolved {
	profile := c.Profile
	if profile == nil {
		profile = e.active
	}
	return resolve(e.Settings, profile, c.Overrides)
}

// Position returns the device's current desktop-absolute position.
func (e *Engine) Position() (uivalue.Point, error) {
	return e.device.Position()
}

// MoveTo translates target by c.Origin, clamps to desktop bounds, shapes a
// motion path per the resolved Mode, emits every intermediate point to the
// device, sleeps AfterMoveDelay, then optionally ensures the device
// position settled within EnsureMoveThreshold before EnsureMoveTimeout
// elapses (spec.md §4.5).
func (e *Engine) MoveTo(target uivalue.Point, c Call) error {
	r := e.resolveCall(c)

	bounds, err := e.desktopBounds()
	if err != nil {
		return err
	}
	dest := clampToDesktop(c.Origin.resolve(target), bounds)

	from, err := e.device.Position()
	if err != nil {
		return err
	}

	steps := stepCount(from, dest, r.StepsPerPixel)
	for _, p := range path(r.Mode, from, dest, steps, r) {
		clamped := clampToDesktop(p, bounds)
		if err := e.device.MoveTo(clamped); err != nil {
			return err
		}
	}

	if r.AfterMoveDelay > 0 {
		e.sleep(r.AfterMoveDelay)
	}

	if r.EnsureMovePosition {
		return e.ensureMovePosition(dest, r)
	}
	return nil
}

func (e *Engine) ensureMovePosition(expected uivalue.Point, r resolved) error {
	deadline := e.now().Add(r.EnsureMoveTimeout)
	for {
		actual, err := e.device.Position()
		if err != nil {
			return err
		}
		if withinThreshold(expected, actual, r.EnsureMoveThreshold) {
			return nil
		}
		if e.now().After(deadline) {
			return &EnsureMoveError{Expected: expected, Actual: actual, Threshold: r.EnsureMoveThreshold}
		}
		e.sleep(5 * time.Millisecond)
	}
}

func withinThreshold(expected, actual uivalue.Point, threshold float64) bool {
	dx := expected.X - actual.X
	dy := expected.Y - actual.Y
	return dx*dx+dy*dy <= threshold*threshold
}

// Click executes move_to -> press -> after_input_delay -> press_release_delay
// -> release -> after_input_delay -> after_click_delay (spec.md §4.5).
func (e *Engine) Click(target uivalue.Point, button capability.MouseButton, c Call) error {
	r := e.resolveCall(c)

	if err := e.MoveTo(target, c); err != nil {
		return err
	}
	return e.pressRelease(button, r)
}

func (e *Engine) pressRelease(button capability.MouseButton, r resolved) error {
	if err := e.device.Press(button); err != nil {
		return err
	}
	if r.AfterInputDelay > 0 {
		e.sleep(r.AfterInputDelay)
	}
	if r.PressReleaseDelay > 0 {
		e.sleep(r.PressReleaseDelay)
	}
	if err := e.device.Release(button); err != nil {
		return err
	}
	if r.AfterInputDelay > 0 {
		e.sleep(r.AfterInputDelay)
	}
	if r.AfterClickDelay > 0 {
		e.sleep(r.AfterClickDelay)
	}
	return nil
}

// MultiClick repeats Click semantics n times with MultiClickDelay between
// clicks (spec.md §4.5). n must be >= 1. DoubleClickTime/DoubleClickSize
// describe the window a consumer should compare successive clicks against
// to decide whether the platform will interpret them as a single gesture;
// the engine itself does not enforce that window, it only spaces clicks by
// MultiClickDelay as instructed.
func (e *Engine) MultiClick(target uivalue.Point, button capability.MouseButton, n int, c Call) error {
	if n < 1 {
		n = 1
	}
	r := e.resolveCall(c)
	for i := 0; i < n; i++ {
		if err := e.Click(target, button, c); err != nil {
			return err
		}
		if i < n-1 && r.MultiClickDelay > 0 {
			e.sleep(r.MultiClickDelay)
		}
	}
	return nil
}

// Drag moves to start, presses button, moves to end, releases, with the
// same delay invariants as Click (spec.md §4.5).
func (e *Engine) Drag(start, end uivalue.Point, button capability.MouseButton, c Call) error {
	r := e.resolveCall(c)

	if err := e.MoveTo(start, c); err != nil {
		return err
	}
	if err := e.device.Press(button); err != nil {
		return err
	}
	if r.AfterInputDelay > 0 {
		e.sleep(r.AfterInputDelay)
	}

	if err := e.MoveTo(end, c); err != nil {
		return err
	}

	if r.PressReleaseDelay > 0 {
		e.sleep(r.PressReleaseDelay)
	}
	if err := e.device.Release(button); err != nil {
		return err
	}
	if r.AfterInputDelay > 0 {
		e.sleep(r.AfterInputDelay)
	}
	if r.AfterClickDelay > 0 {
		e.sleep(r.AfterClickDelay)
	}
	return nil
}

// Scroll splits delta into ScrollStep-sized increments on each axis
// independently, emitting one device scroll per step with ScrollDelay
// between them, then sleeps AfterInputDelay (spec.md §4.5 and the §8
// testable property: scroll_step=(0,-10), scroll((0,-30)) => three device
// scrolls of (0,-10)).
func (e *Engine) Scroll(delta uivalue.Point, c Call) error {
	r := e.resolveCall(c)

	steps := scrollSteps(delta, r.ScrollStep)
	for _, step := range steps {
		if err := e.device.Scroll(step); err != nil {
			return err
		}
		if r.ScrollDelay > 0 {
			e.sleep(r.ScrollDelay)
		}
	}
	if r.AfterInputDelay > 0 {
		e.sleep(r.AfterInputDelay)
	}
	return nil
}

// scrollSteps splits delta into a sequence of per-axis increments no
// larger than step, preserving delta's sign on each axis independently.
func scrollSteps(delta, step uivalue.Point) []uivalue.Point {
	xSteps := axisSteps(delta.X, step.X)
	ySteps := axisSteps(delta.Y, step.Y)

	n := len(xSteps)
	if len(ySteps) > n {
		n = len(ySteps)
	}
	out := make([]uivalue.Point, 0, n)
	for i := 0; i < n; i++ {
		var x, y float64
		if i < len(xSteps) {
			x = xSteps[i]
		}
		if i < len(ySteps) {
			y = ySteps[i]
		}
		out = append(out, uivalue.Point{X: x, Y: y})
	}
	return out
}

func axisSteps(total, step float64) []float64 {
	if total == 0 || step == 0 {
		return nil
	}
	sign := 1.0
	if total < 0 {
		sign = -1.0
	}
	absTotal := total * sign
	absStep := step * sign
	if absStep < 0 {
		absStep = -absStep
	}

	var out []float64
	remaining := absTotal
	for remaining > 0 {
		take := absStep
		if take > remaining {
			take = remaining
		}
		out = append(out, take*sign)
		remaining -= take
	}
	return out
}
