// Package keyboard implements the keyboard input orchestration engine
// (spec.md §4.6, component C9): a key-sequence DSL parser and an engine
// that emits press/release/type events to a platform KeyboardDevice with
// configurable inter-event delays.
package keyboard

import (
	"time"

	"github.com/d-biehl/platynui/pkg/capability"
)

// Settings are the process-wide keyboard timing defaults (spec.md §4.6's
// delay application table).
type Settings struct {
	PressDelay        time.Duration
	ReleaseDelay      time.Duration
	BetweenKeysDelay  time.Duration
	ChordPressDelay   time.Duration
	ChordReleaseDelay time.Duration
	AfterSequenceDelay time.Duration
	AfterTextDelay    time.Duration
}

// DefaultSettings mirrors the teacher's tap/hold/combo timings (e.g. the
// extra post-combo settle time keypress.go inserts after modifier chords,
// generalized here into ChordReleaseDelay/AfterSequenceDelay).
func DefaultSettings() Settings {
	return Settings{
		PressDelay:         10 * time.Millisecond,
		ReleaseDelay:       10 * time.Millisecond,
		BetweenKeysDelay:   15 * time.Millisecond,
		ChordPressDelay:    15 * time.Millisecond,
		ChordReleaseDelay:  15 * time.Millisecond,
		AfterSequenceDelay: 20 * time.Millisecond,
		AfterTextDelay:     20 * time.Millisecond,
	}
}

// Profile is a named timing bundle, layered between Settings and per-call
// Overrides exactly as pointer.Profile is (spec.md glossary).
type Profile struct {
	Name     string
	Settings Settings
}

// Overrides carries per-call timing overrides; a nil field inherits from
// the active Profile/Settings.
type Overrides struct {
	PressDelay         *time.Duration
	ReleaseDelay       *time.Duration
	BetweenKeysDelay   *time.Duration
	ChordPressDelay    *time.Duration
	ChordReleaseDelay  *time.Duration
	AfterSequenceDelay *time.Duration
	AfterTextDelay     *time.Duration
}

func resolve(base Settings, profile *Profile, ov *Overrides) Settings {
	r := base
	if profile != nil {
		r = profile.Settings
	}
	if ov == nil {
		return r
	}
	if ov.PressDelay != nil {
		r.PressDelay = *ov.PressDelay
	}
	if ov.ReleaseDelay != nil {
		r.ReleaseDelay = *ov.ReleaseDelay
	}
	if ov.BetweenKeysDelay != nil {
		r.BetweenKeysDelay = *ov.BetweenKeysDelay
	}
	if ov.ChordPressDelay != nil {
		r.ChordPressDelay = *ov.ChordPressDelay
	}
	if ov.ChordReleaseDelay != nil {
		r.ChordReleaseDelay = *ov.ChordReleaseDelay
	}
	if ov.AfterSequenceDelay != nil {
		r.AfterSequenceDelay = *ov.AfterSequenceDelay
	}
	if ov.AfterTextDelay != nil {
		r.AfterTextDelay = *ov.AfterTextDelay
	}
	return r
}

// Engine is the keyboard orchestration engine bound to one KeyboardDevice
// (spec.md §4.6).
type Engine struct {
	device   capability.KeyboardDevice
	Settings Settings
	Profiles map[string]*Profile
	active   *Profile

	sleep     func(time.Duration)
	knownKeys map[string]struct{}
}

// New builds an Engine. device must not be nil.
func New(device capability.KeyboardDevice) (*Engine, error) {
	if device == nil {
		return nil, capability.ErrMissingDevice
	}
	return &Engine{
		device:   device,
		Settings: DefaultSettings(),
		Profiles: map[string]*Profile{},
		sleep:    time.Sleep,
	}, nil
}

// UseProfile selects the named profile as active for subsequent calls that
// don't pass an explicit profile.
func (e *Engine) UseProfile(name string) {
	e.active = e.Profiles[name]
}

// RegisterProfile adds or replaces a named profile.
func (e *Engine) RegisterProfile(p Profile) {
	cp := p
	e.Profiles[p.Name] = &cp
}

// Call carries optional per-call overrides and profile selection, mirroring
// pointer.Call.
type Call struct {
	Overrides *Overrides
	Profile   *Profile
}

func (e *Engine) resolveCall(c Call) Settings {
	profile := c.Profile
	if profile == nil {
		profile = e.active
	}
	return resolve(e.Settings, profile, c.Overrides)
}

// KnownKeyNames returns the device's enumerated key names (spec.md §4.6).
func (e *Engine) KnownKeyNames() ([]string, error) {
	return e.device.KnownKeyNames()
}
