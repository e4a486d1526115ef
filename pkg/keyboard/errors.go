package keyboard

import "fmt"

// UnknownKeyError is raised when a DSL key token doesn't match any name in
// the device's KnownKeyNames() (spec.md §4.6 failure semantics:
// "unknown key name → KeyboardError::UnknownKey").
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("keyboard: unknown key %q", e.Key)
}

// validateKey checks key against the device's known names, lazily caching
// the set on first use. Capabilities are process-wide singletons whose key
// set does not change during the runtime's life (spec.md §5), so caching
// for the Engine's lifetime is safe.
func (e *Engine) validateKey(key string) error {
	if e.knownKeys == nil {
		names, err := e.device.KnownKeyNames()
		if err != nil {
			return err
		}
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
		}
		e.knownKeys = set
	}
	if _, ok := e.knownKeys[key]; !ok {
		return &UnknownKeyError{Key: key}
	}
	return nil
}
