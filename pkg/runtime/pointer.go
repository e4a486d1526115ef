package runtime

import (
	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/pointer"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// PointerPosition returns the device's current desktop-absolute position
// (spec.md §4.4 "pointer_position").
func (rt *Runtime) PointerPosition() (uivalue.Point, error) {
	if rt.Pointer == nil {
		return uivalue.Point{}, capability.ErrMissingDevice
	}
	return rt.Pointer.Position()
}

// PointerMoveTo implements spec.md §4.4's "pointer_move_to".
func (rt *Runtime) PointerMoveTo(target uivalue.Point, call pointer.Call) error {
	if rt.Pointer == nil {
		return capability.ErrMissingDevice
	}
	return rt.Pointer.MoveTo(target, call)
}

// PointerClick implements spec.md §4.4's "pointer_click".
func (rt *Runtime) PointerClick(target uivalue.Point, button capability.MouseButton, call pointer.Call) error {
	if rt.Pointer == nil {
		return capability.ErrMissingDevice
	}
	return rt.Pointer.Click(target, button, call)
}

// PointerMultiClick implements spec.md §4.4's "pointer_multi_click".
func (rt *Runtime) PointerMultiClick(target uivalue.Point, button capability.MouseButton, n int, call pointer.Call) error {
	if rt.Pointer == nil {
		return capability.ErrMissingDevice
	}
	return rt.Pointer.MultiClick(target, button, n, call)
}

// PointerPress presses (without releasing) a button at target, implemented
// as a move followed by a bare device press (spec.md §4.4 "pointer_press").
func (rt *Runtime) PointerPress(target uivalue.Point, button capability.MouseButton, call pointer.Call) error {
	if rt.Pointer == nil {
		return capability.ErrMissingDevice
	}
	if err := rt.Pointer.MoveTo(target, call); err != nil {
		return err
	}
	return rt.caps.Pointer.Press(button)
}

// PointerRelease releases a previously pressed button in place (spec.md
// §4.4 "pointer_release").
func (rt *Runtime) PointerRelease(button capability.MouseButton) error {
	if rt.caps.Pointer == nil {
		return capability.ErrMissingDevice
	}
	return rt.caps.Pointer.Release(button)
}

// PointerDrag implements spec.md §4.4's "pointer_drag".
func (rt *Runtime) PointerDrag(start, end uivalue.Point, button capability.MouseButton, call pointer.Call) error {
	if rt.Pointer == nil {
		return capability.ErrMissingDevice
	}
	return rt.Pointer.Drag(start, end, button, call)
}

// PointerScroll implements spec.md §4.4's "pointer_scroll".
func (rt *Runtime) PointerScroll(delta uivalue.Point, call pointer.Call) error {
	if rt.Pointer == nil {
		return capability.ErrMissingDevice
	}
	return rt.Pointer.Scroll(delta, call)
}
