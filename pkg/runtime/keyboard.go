package runtime

import (
	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/keyboard"
)

// KeyboardType types text verbatim, bypassing the key-sequence DSL
// (spec.md §4.6 "type").
func (rt *Runtime) KeyboardType(text string, call keyboard.Call) error {
	if rt.Keyboard == nil {
		return capability.ErrMissingDevice
	}
	return rt.Keyboard.Type(text, call)
}

// KeyboardPress runs the DSL sequence, holding any keys/chords pressed
// rather than releasing them (spec.md §4.6 "press").
func (rt *Runtime) KeyboardPress(seq string, call keyboard.Call) error {
	if rt.Keyboard == nil {
		return capability.ErrMissingDevice
	}
	return rt.Keyboard.Press(seq, call)
}

// KeyboardRelease releases keys/chords previously held by KeyboardPress
// (spec.md §4.6 "release").
func (rt *Runtime) KeyboardRelease(seq string, call keyboard.Call) error {
	if rt.Keyboard == nil {
		return capability.ErrMissingDevice
	}
	return rt.Keyboard.Release(seq, call)
}

// KeyboardRun runs a full key-sequence DSL string: press, release, chords
// and text runs, with inter-event delays applied per spec.md §4.6's table.
func (rt *Runtime) KeyboardRun(seq string, call keyboard.Call) error {
	if rt.Keyboard == nil {
		return capability.ErrMissingDevice
	}
	return rt.Keyboard.Run(seq, call)
}

// KeyboardKnownKeyNames lists the key names the registered device
// recognizes (spec.md §4.6/§6 "known_key_names").
func (rt *Runtime) KeyboardKnownKeyNames() ([]string, error) {
	if rt.Keyboard == nil {
		return nil, capability.ErrMissingDevice
	}
	return rt.Keyboard.KnownKeyNames()
}
