// Package pointer implements the pointer input orchestration engine
// (spec.md §4.5, component C8): origin-relative targeting, motion shaping
// across five interpolation modes, and the click/drag/scroll operation
// contracts layered over a platform PointerDevice.
//
// Parameters are resolved per call from three layers, narrowest wins:
// per-call Overrides, then the active Profile, then process-wide Settings
// (grounded in the teacher's flag-default / tool-default / explicit-arg
// layering in internal/tools/*.go and options.go).
package pointer

import (
	"time"

	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// Mode selects the path-generation strategy used by move_to (spec.md §4.5).
type Mode int

const (
	Direct Mode = iota
	Linear
	Bezier
	Overshoot
	Jitter
)

func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Linear:
		return "linear"
	case Bezier:
		return "bezier"
	case Overshoot:
		return "overshoot"
	case Jitter:
		return "jitter"
	default:
		return "unknown"
	}
}

// Settings are the process-wide pointer defaults (narrowest-wins base
// layer). All delays are time.Duration values.
type Settings struct {
	Mode                Mode
	StepsPerPixel       float64
	AfterMoveDelay      time.Duration
	AfterInputDelay     time.Duration
	PressReleaseDelay   time.Duration
	AfterClickDelay     time.Duration
	MultiClickDelay     time.Duration
	DoubleClickTime     time.Duration
	DoubleClickSize     uivalue.Size
	EnsureMovePosition  bool
	EnsureMoveThreshold float64
	EnsureMoveTimeout   time.Duration
	ScrollStep          uivalue.Point
	ScrollDelay         time.Duration
	OvershootAmplitude  float64
	OvershootSteps      int
	BezierAmplitude     float64
	JitterAmplitude     float64
	JitterFrequency     float64
}

// DefaultSettings mirrors typical desktop-automation timings: fast enough
// to not be perceptibly slow, slow enough that target applications observe
// discrete mouse events rather than a single teleport.
func DefaultSettings() Settings {
	return Settings{
		Mode:                Linear,
		StepsPerPixel:       0.2,
		AfterMoveDelay:      10 * time.Millisecond,
		AfterInputDelay:     10 * time.Millisecond,
		PressReleaseDelay:   30 * time.Millisecond,
		AfterClickDelay:     10 * time.Millisecond,
		MultiClickDelay:     120 * time.Millisecond,
		DoubleClickTime:     400 * time.Millisecond,
		DoubleClickSize:     uivalue.Size{Width: 4, Height: 4},
		EnsureMovePosition:  true,
		EnsureMoveThreshold: 1.0,
		EnsureMoveTimeout:   500 * time.Millisecond,
		ScrollStep:          uivalue.Point{X: 0, Y: 10},
		ScrollDelay:         15 * time.Millisecond,
		OvershootAmplitude:  0.15,
		OvershootSteps:      6,
		BezierAmplitude:     0.2,
		JitterAmplitude:     2.0,
		JitterFrequency:     3.0,
	}
}

// Profile is a named bundle of motion/timing defaults selected as a whole,
// layered between Settings and per-call Overrides (spec.md glossary).
type Profile struct {
	Name     string
	Settings Settings
}

// Overrides carries per-call parameter overrides (spec.md §4.5). A nil
// field (pointer/duration-pointer) means "inherit from Profile/Settings".
type Overrides struct {
	Mode                *Mode
	StepsPerPixel       *float64
	AfterMoveDelay      *time.Duration
	AfterInputDelay     *time.Duration
	PressReleaseDelay   *time.Duration
	AfterClickDelay     *time.Duration
	MultiClickDelay     *time.Duration
	EnsureMovePosition  *bool
	EnsureMoveThreshold *float64
	EnsureMoveTimeout   *time.Duration
	ScrollStep          *uivalue.Point
	ScrollDelay         *time.Duration
}

// resolved is the effective settings for a single call: a selected
// Profile replaces Settings as a whole, then each non-nil Overrides field
// replaces the matching field (narrowest wins).
type resolved struct {
	Settings
}

func resolve(base Settings, profile *Profile, ov *Overrides) resolved {
	r := base
	if profile != nil {
		r = profile.Settings
	}
	if ov == nil {
		return resolved{r}
	}
	if ov.Mode != nil {
		r.Mode = *ov.Mode
	}
	if ov.StepsPerPixel != nil {
		r.StepsPerPixel = *ov.StepsPerPixel
	}
	if ov.AfterMoveDelay != nil {
		r.AfterMoveDelay = *ov.AfterMoveDelay
	}
	if ov.AfterInputDelay != nil {
		r.AfterInputDelay = *ov.AfterInputDelay
	}
	if ov.PressReleaseDelay != nil {
		r.PressReleaseDelay = *ov.PressReleaseDelay
	}
	if ov.AfterClickDelay != nil {
		r.AfterClickDelay = *ov.AfterClickDelay
	}
	if ov.MultiClickDelay != nil {
		r.MultiClickDelay = *ov.MultiClickDelay
	}
	if ov.EnsureMovePosition != nil {
		r.EnsureMovePosition = *ov.EnsureMovePosition
	}
	if ov.EnsureMoveThreshold != nil {
		r.EnsureMoveThreshold = *ov.EnsureMoveThreshold
	}
	if ov.EnsureMoveTimeout != nil {
		r.EnsureMoveTimeout = *ov.EnsureMoveTimeout
	}
	if ov.ScrollStep != nil {
		r.ScrollStep = *ov.ScrollStep
	}
	if ov.ScrollDelay != nil {
		r.ScrollDelay = *ov.ScrollDelay
	}
	return resolved{r}
}

// Origin is the coordinate frame a move_to/click/drag target is expressed
// in (spec.md glossary).
type Origin struct {
	kind   originKind
	bounds uivalue.Rect
	anchor uivalue.Point
}

type originKind int

const (
	originDesktop originKind = iota
	originBounds
	originAbsolute
)

// OriginDesktop targets desktop-absolute coordinates directly.
func OriginDesktop() Origin { return Origin{kind: originDesktop} }

// OriginBounds targets coordinates relative to the top-left of rect.
func OriginBounds(rect uivalue.Rect) Origin { return Origin{kind: originBounds, bounds: rect} }

// OriginAbsolute targets coordinates as an offset from anchor.
func OriginAbsolute(anchor uivalue.Point) Origin { return Origin{kind: originAbsolute, anchor: anchor} }

func (o Origin) resolve(target uivalue.Point) uivalue.Point {
	switch o.kind {
	case originBounds:
		return uivalue.Point{X: o.bounds.X + target.X, Y: o.bounds.Y + target.Y}
	case originAbsolute:
		return uivalue.Point{X: o.anchor.X + target.X, Y: o.anchor.Y + target.Y}
	default:
		return target
	}
}

func clampToDesktop(p uivalue.Point, bounds uivalue.Rect) uivalue.Point {
	x, y := p.X, p.Y
	if x < bounds.X {
		x = bounds.X
	}
	if y < bounds.Y {
		y = bounds.Y
	}
	if maxX := bounds.X + bounds.Width; x > maxX {
		x = maxX
	}
	if maxY := bounds.Y + bounds.Height; y > maxY {
		y = maxY
	}
	return uivalue.Point{X: x, Y: y}
}

// Engine is the pointer orchestration engine bound to one PointerDevice and
// one DesktopInfo capability (spec.md §4.5). It is not safe for concurrent
// use by multiple goroutines issuing overlapping operations — the core's
// concurrency model is single-threaded cooperative (spec.md §5) and the
// engine assumes callers serialize their own calls.
type Engine struct {
	device   capability.PointerDevice
	desktop  capability.DesktopInfo
	Settings Settings
	Profiles map[string]*Profile
	active   *Profile

	sleep func(time.Duration)
	now   func() time.Time
}

// New builds an Engine. device and desktop must not be nil; New returns
// ErrMissingDevice otherwise.
func New(device capability.PointerDevice, desktop capability.DesktopInfo) (*Engine, error) {
	if device == nil || desktop == nil {
		return nil, capability.ErrMissingDevice
	}
	return &Engine{
		device:   device,
		desktop:  desktop,
		Settings: DefaultSettings(),
		Profiles: map[string]*Profile{},
		sleep:    time.Sleep,
		now:      time.Now,
	}, nil
}

// UseProfile selects the named profile as the active one for subsequent
// calls that don't pass an explicit profile. A nil/unknown name clears the
// active profile, falling back to Settings alone.
func (e *Engine) UseProfile(name string) {
	e.active = e.Profiles[name]
}

// RegisterProfile adds or replaces a named profile.
func (e *Engine) RegisterProfile(p Profile) {
	cp := p
	e.Profiles[p.Name] = &cp
}

func (e *Engine) desktopBounds() (uivalue.Rect, error) {
	b, err := e.desktop.DesktopBounds()
	if err != nil {
		return uivalue.Rect{}, err
	}
	return b, nil
}
