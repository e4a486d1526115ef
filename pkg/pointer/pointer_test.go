package pointer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// fakeDevice is an in-memory capability.PointerDevice recording every call
// it receives.
type fakeDevice struct {
	pos     uivalue.Point
	moves   []uivalue.Point
	scrolls []uivalue.Point
	presses []capability.MouseButton
	release []capability.MouseButton
}

func (f *fakeDevice) Position() (uivalue.Point, error) { return f.pos, nil }

func (f *fakeDevice) MoveTo(p uivalue.Point) error {
	f.pos = p
	f.moves = append(f.moves, p)
	return nil
}

func (f *fakeDevice) Press(b capability.MouseButton) error {
	f.presses = append(f.presses, b)
	return nil
}

func (f *fakeDevice) Release(b capability.MouseButton) error {
	f.release = append(f.release, b)
	return nil
}

func (f *fakeDevice) Scroll(delta uivalue.Point) error {
	f.scrolls = append(f.scrolls, delta)
	return nil
}

type fakeDesktop struct{ bounds uivalue.Rect }

func (f *fakeDesktop) Displays() ([]capability.Display, error) {
	return []capability.Display{{Index: 0, Bounds: f.bounds, Primary: true, ScaleFactor: 1}}, nil
}

func (f *fakeDesktop) DesktopBounds() (uivalue.Rect, error) { return f.bounds, nil }

func newTestEngine(t *testing.T) (*Engine, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{}
	desk := &fakeDesktop{bounds: uivalue.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}}
	e, err := New(dev, desk)
	require.NoError(t, err)
	e.sleep = func(time.Duration) {}
	return e, dev
}

func TestNewRejectsMissingDevice(t *testing.T) {
	_, err := New(nil, &fakeDesktop{})
	require.ErrorIs(t, err, capability.ErrMissingDevice)
}

func TestMoveToLinearEmitsStepsAndLands(t *testing.T) {
	e, dev := newTestEngine(t)
	zero := 0.0
	ov := &Overrides{EnsureMoveThreshold: &zero}
	err := e.MoveTo(uivalue.Point{X: 100, Y: 0}, Call{Origin: OriginDesktop(), Overrides: ov})
	require.NoError(t, err)
	require.NotEmpty(t, dev.moves)
	last := dev.moves[len(dev.moves)-1]
	require.InDelta(t, 100, last.X, 0.001)
	require.InDelta(t, 0, last.Y, 0.001)
}

func TestMoveToDirectModeEmitsOneStep(t *testing.T) {
	e, dev := newTestEngine(t)
	direct := Direct
	err := e.MoveTo(uivalue.Point{X: 50, Y: 50}, Call{Overrides: &Overrides{Mode: &direct}})
	require.NoError(t, err)
	require.Len(t, dev.moves, 1)
	require.Equal(t, uivalue.Point{X: 50, Y: 50}, dev.moves[0])
}

func TestMoveToClampsToDesktopBounds(t *testing.T) {
	e, dev := newTestEngine(t)
	direct := Direct
	err := e.MoveTo(uivalue.Point{X: 5000, Y: -100}, Call{Overrides: &Overrides{Mode: &direct}})
	require.NoError(t, err)
	last := dev.moves[len(dev.moves)-1]
	require.Equal(t, 1920.0, last.X)
	require.Equal(t, 0.0, last.Y)
}

func TestMoveToOriginBounds(t *testing.T) {
	e, dev := newTestEngine(t)
	direct := Direct
	rect := uivalue.Rect{X: 100, Y: 200, Width: 300, Height: 100}
	err := e.MoveTo(uivalue.Point{X: 10, Y: 10}, Call{Origin: OriginBounds(rect), Overrides: &Overrides{Mode: &direct}})
	require.NoError(t, err)
	last := dev.moves[len(dev.moves)-1]
	require.Equal(t, uivalue.Point{X: 110, Y: 210}, last)
}

func TestEnsureMovePositionTimesOut(t *testing.T) {
	dev := &fakeDevice{}
	desk := &fakeDesktop{bounds: uivalue.Rect{X: 0, Y: 0, Width: 1000, Height: 1000}}
	e, err := New(dev, desk)
	require.NoError(t, err)
	e.sleep = func(time.Duration) {}

	// Override device.MoveTo to never actually update pos, so the
	// ensure-position poll always observes a mismatch.
	stuckAt := uivalue.Point{X: 0, Y: 0}
	dev.pos = stuckAt
	e.device = &stubMoveDevice{fakeDevice: dev}

	timeout := 10 * time.Millisecond
	threshold := 0.5
	callsLeft := 1
	e.now = func() time.Time {
		callsLeft--
		if callsLeft < 0 {
			return time.Now().Add(time.Hour)
		}
		return time.Now()
	}

	direct := Direct
	err = e.MoveTo(uivalue.Point{X: 999, Y: 999}, Call{Overrides: &Overrides{
		Mode:              &direct,
		EnsureMoveTimeout: &timeout, EnsureMoveThreshold: &threshold,
	}})
	require.Error(t, err)
	var ensureErr *EnsureMoveError
	require.ErrorAs(t, err, &ensureErr)
}

// stubMoveDevice wraps fakeDevice but ignores MoveTo's effect on Position,
// modeling a device whose cursor never actually reaches the requested
// point (used to exercise the ensure_move_timeout failure path).
type stubMoveDevice struct {
	*fakeDevice
}

func (s *stubMoveDevice) MoveTo(p uivalue.Point) error {
	s.fakeDevice.moves = append(s.fakeDevice.moves, p)
	return nil
}

func TestClickSequencesPressRelease(t *testing.T) {
	e, dev := newTestEngine(t)
	zero := 0.0
	err := e.Click(uivalue.Point{X: 10, Y: 10}, capability.ButtonLeft, Call{Overrides: &Overrides{EnsureMoveThreshold: &zero}})
	require.NoError(t, err)
	require.Equal(t, []capability.MouseButton{capability.ButtonLeft}, dev.presses)
	require.Equal(t, []capability.MouseButton{capability.ButtonLeft}, dev.release)
}

func TestMultiClickRepeatsWithDelay(t *testing.T) {
	e, dev := newTestEngine(t)
	zero := 0.0
	err := e.MultiClick(uivalue.Point{X: 1, Y: 1}, capability.ButtonLeft, 3, Call{Overrides: &Overrides{EnsureMoveThreshold: &zero}})
	require.NoError(t, err)
	require.Len(t, dev.presses, 3)
	require.Len(t, dev.release, 3)
}

func TestDragPressesAtStartReleasesAtEnd(t *testing.T) {
	e, dev := newTestEngine(t)
	zero := 0.0
	err := e.Drag(uivalue.Point{X: 0, Y: 0}, uivalue.Point{X: 200, Y: 0}, capability.ButtonLeft,
		Call{Overrides: &Overrides{EnsureMoveThreshold: &zero}})
	require.NoError(t, err)
	require.Len(t, dev.presses, 1)
	require.Len(t, dev.release, 1)
	require.Equal(t, 200.0, dev.pos.X)
}

func TestScrollSplitsIntoSteps(t *testing.T) {
	e, dev := newTestEngine(t)
	step := uivalue.Point{X: 0, Y: -10}
	err := e.Scroll(uivalue.Point{X: 0, Y: -30}, Call{Overrides: &Overrides{ScrollStep: &step}})
	require.NoError(t, err)
	require.Len(t, dev.scrolls, 3)
	for _, s := range dev.scrolls {
		require.Equal(t, uivalue.Point{X: 0, Y: -10}, s)
	}
}

func TestScrollStepsMixedAxes(t *testing.T) {
	steps := scrollSteps(uivalue.Point{X: 25, Y: -5}, uivalue.Point{X: 10, Y: 10})
	require.Len(t, steps, 3)
	var sumX, sumY float64
	for _, s := range steps {
		sumX += s.X
		sumY += s.Y
	}
	require.InDelta(t, 25, sumX, 0.0001)
	require.InDelta(t, -5, sumY, 0.0001)
}

func TestMotionModesAllLandExactlyOnTarget(t *testing.T) {
	from := uivalue.Point{X: 0, Y: 0}
	to := uivalue.Point{X: 120, Y: 80}
	r := resolved{DefaultSettings()}
	for _, mode := range []Mode{Direct, Linear, Bezier, Overshoot, Jitter} {
		steps := stepCount(from, to, r.StepsPerPixel)
		pts := path(mode, from, to, steps, r)
		require.NotEmpty(t, pts, mode.String())
		last := pts[len(pts)-1]
		if mode == Overshoot {
			require.InDelta(t, to.X, last.X, 0.01, mode.String())
			require.InDelta(t, to.Y, last.Y, 0.01, mode.String())
		} else {
			require.Equal(t, to, last, mode.String())
		}
	}
}

func TestProfileLayering(t *testing.T) {
	e, dev := newTestEngine(t)
	direct := Direct
	e.RegisterProfile(Profile{Name: "fast", Settings: Settings{Mode: Direct, EnsureMoveThreshold: 0}})
	e.UseProfile("fast")
	err := e.MoveTo(uivalue.Point{X: 1, Y: 1}, Call{Overrides: &Overrides{Mode: &direct}})
	require.NoError(t, err)
	require.Len(t, dev.moves, 1)
}
