package runtime

import (
	"errors"
	"time"

	"github.com/d-biehl/platynui/pkg/pattern"
	"github.com/d-biehl/platynui/pkg/uinode"
)

// ErrNoFocusableAncestor is raised by Focus when neither the node nor any
// of its ancestors advertises the Focusable pattern.
var ErrNoFocusableAncestor = errors.New("runtime: no ancestor advertises Focusable")

// ErrNoWindowSurfaceAncestor is raised by BringToFront/TopLevelWindowFor
// when neither the node nor any of its ancestors advertises WindowSurface.
var ErrNoWindowSurfaceAncestor = errors.New("runtime: no ancestor advertises WindowSurface")

// ancestorWithPattern walks node and its ancestors (self first) looking
// for the first one whose PatternByID(id) succeeds.
func ancestorWithPattern(node uinode.Node, id string) (uinode.Node, any, bool) {
	for n := node; n != nil; {
		if p, ok := n.PatternByID(id); ok {
			return n, p, true
		}
		parent, ok := n.Parent()
		if !ok {
			break
		}
		n = parent
	}
	return nil, nil, false
}

// Focus sets keyboard focus via the first ancestor (including node
// itself) that advertises Focusable (spec.md §4.7 "focus").
func (rt *Runtime) Focus(node uinode.Node) error {
	_, p, ok := ancestorWithPattern(node, pattern.IDFocusable)
	if !ok {
		return ErrNoFocusableAncestor
	}
	focusable, ok := p.(pattern.Focusable)
	if !ok {
		return ErrNoFocusableAncestor
	}
	return focusable.Focus()
}

// BringToFront activates the top-level window owning node (spec.md §4.7
// "bring_to_front"). When wait is positive, it polls AcceptsUserInput
// until true or until wait elapses, returning an error on timeout.
func (rt *Runtime) BringToFront(node uinode.Node, wait time.Duration) error {
	_, p, ok := ancestorWithPattern(node, pattern.IDWindowSurface)
	if !ok {
		return ErrNoWindowSurfaceAncestor
	}
	win, ok := p.(pattern.WindowSurface)
	if !ok {
		return ErrNoWindowSurfaceAncestor
	}
	if err := win.Activate(); err != nil {
		return err
	}
	if wait <= 0 {
		return nil
	}

	deadline := rt.now().Add(wait)
	for {
		accepts, known := win.AcceptsUserInput()
		if known && accepts {
			return nil
		}
		if rt.now().After(deadline) {
			return &BringToFrontTimeoutError{Wait: wait}
		}
		rt.sleep(5 * time.Millisecond)
	}
}

// BringToFrontTimeoutError is raised when a window fails to report
// accepts_user_input() within the requested wait.
type BringToFrontTimeoutError struct {
	Wait time.Duration
}

func (e *BringToFrontTimeoutError) Error() string {
	return "runtime: window did not accept user input within " + e.Wait.String()
}

// TopLevelWindowFor returns the first ancestor (including node itself)
// that advertises WindowSurface (spec.md §4.7 "top_level_window_for").
func (rt *Runtime) TopLevelWindowFor(node uinode.Node) (uinode.Node, error) {
	win, _, ok := ancestorWithPattern(node, pattern.IDWindowSurface)
	if !ok {
		return nil, ErrNoWindowSurfaceAncestor
	}
	return win, nil
}
