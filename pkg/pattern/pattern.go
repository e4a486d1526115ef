// Package pattern defines the capability-bundle contracts a UiNode may
// advertise (spec.md §3/§4.7, component C3): Focusable and WindowSurface.
// Pattern discovery is by string id (Node.PatternByID) to permit future
// extensibility without changing the node interface (spec.md §9).
package pattern

import (
	"errors"

	"github.com/d-biehl/platynui/pkg/uivalue"
)

// IDs of the two core patterns.
const (
	IDFocusable     = "Focusable"
	IDWindowSurface = "WindowSurface"
)

// ErrPattern wraps a pattern-operation failure reported by a provider.
var ErrPattern = errors.New("pattern: operation failed")

// PatternError carries a message from a failed pattern operation.
type PatternError struct {
	Op      string
	Message string
}

func (e *PatternError) Error() string { return "pattern: " + e.Op + ": " + e.Message }
func (e *PatternError) Unwrap() error { return ErrPattern }

// Focusable is the one-operation pattern that sets keyboard focus.
type Focusable interface {
	Focus() error
}

// WindowSurface is the window-level capability bundle: activation,
// minimize/maximize/restore/close, move/resize, and input-readiness
// polling (spec.md §4.7/§6).
type WindowSurface interface {
	Activate() error
	Minimize() error
	Maximize() error
	Restore() error
	Close() error
	MoveTo(p uivalue.Point) error
	Resize(s uivalue.Size) error
	MoveAndResize(r uivalue.Rect) error

	// AcceptsUserInput reports whether the window currently accepts
	// input, or (false, false) if the provider cannot determine this.
	AcceptsUserInput() (bool, bool)
}
