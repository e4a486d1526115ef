package pointer

import (
	"fmt"

	"github.com/d-biehl/platynui/pkg/uivalue"
)

// EnsureMoveError is raised when move_to's post-move position poll never
// observes the device within threshold of the expected point before
// ensure_move_timeout elapses (spec.md §4.5 failure semantics).
type EnsureMoveError struct {
	Expected  uivalue.Point
	Actual    uivalue.Point
	Threshold float64
}

func (e *EnsureMoveError) Error() string {
	return fmt.Sprintf("pointer: ensure_move_position: expected %v, got %v (threshold %.2f)",
		e.Expected, e.Actual, e.Threshold)
}
