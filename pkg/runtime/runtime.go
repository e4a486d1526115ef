// Package runtime implements the runtime façade (spec.md §4.4/§4.7,
// components C5+C10): evaluate/pointer/keyboard/focus/lifecycle operations
// composed over the node graph, the XPath engine, and the platform
// capability contract. It mirrors the teacher's free-function façade
// (cua.go's Click/TypeText/FindElements re-exports) as methods on one
// Runtime struct bound to a provider registry and a capability set.
package runtime

import (
	"time"

	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/keyboard"
	"github.com/d-biehl/platynui/pkg/pointer"
	"github.com/d-biehl/platynui/pkg/provider"
	"github.com/d-biehl/platynui/pkg/uinode"
)

// Runtime is the single entry point a consumer (CLI, language binding,
// test harness) drives. Capabilities are process-wide singletons supplied
// once at construction (spec.md §5).
type Runtime struct {
	providers *provider.Registry
	caps      capability.Set

	desktop *desktopNode
	cache   *xdmCache

	Pointer  *pointer.Engine
	Keyboard *keyboard.Engine

	programs *programCache

	now   func() time.Time
	sleep func(time.Duration)
}

// New builds a Runtime over a provider registry and a capability set.
// Pointer/Keyboard engines are constructed only if the matching capability
// was registered; callers that never issue pointer/keyboard operations may
// pass a Set with those fields nil.
func New(providers *provider.Registry, caps capability.Set) (*Runtime, error) {
	rt := &Runtime{
		providers: providers,
		caps:      caps,
		cache:     newXdmCache(),
		programs:  newProgramCache(),
		now:       time.Now,
		sleep:     time.Sleep,
	}
	rt.desktop = &desktopNode{rt: rt}

	if caps.Pointer != nil && caps.Desktop != nil {
		p, err := pointer.New(caps.Pointer, caps.Desktop)
		if err != nil {
			return nil, err
		}
		rt.Pointer = p
	}
	if caps.Keyboard != nil {
		k, err := keyboard.New(caps.Keyboard)
		if err != nil {
			return nil, err
		}
		rt.Keyboard = k
	}

	return rt, nil
}

// DesktopNode returns the synthetic document root whose children are each
// mounted provider's DesktopRoot (spec.md §4.4 "desktop_node").
func (rt *Runtime) DesktopNode() uinode.Node { return rt.desktop }

// DesktopInfo reports desktop/monitor geometry via the registered
// DesktopInfo capability (spec.md §4.4 "desktop_info").
func (rt *Runtime) DesktopInfo() (capability.Display, []capability.Display, error) {
	if rt.caps.Desktop == nil {
		return capability.Display{}, nil, capability.ErrMissingDevice
	}
	displays, err := rt.caps.Desktop.Displays()
	if err != nil {
		return capability.Display{}, nil, err
	}
	for _, d := range displays {
		if d.Primary {
			return d, displays, nil
		}
	}
	if len(displays) > 0 {
		return displays[0], displays, nil
	}
	return capability.Display{}, displays, nil
}

// ClearCache empties the XDM adaptation cache (spec.md §4.4 "clear_cache").
func (rt *Runtime) ClearCache() { rt.cache.clear() }

// Shutdown disposes every mounted provider's resources deterministically
// (spec.md §4.4 "shutdown"), collecting the first error while still
// attempting the rest.
func (rt *Runtime) Shutdown() error {
	return rt.providers.Shutdown()
}

// desktopNode is the runtime-owned synthetic root: not supplied by any
// provider, it exists purely to give every provider's DesktopRoot a common
// parent and a stable rooted-path anchor for XPath evaluation (spec.md §3:
// "its synthetic parent is the desktop document node, owned by the
// runtime, not the provider").
type desktopNode struct {
	rt *Runtime
}

func (d *desktopNode) Namespace() uinode.Namespace { return uinode.NamespaceApp }
func (d *desktopNode) Role() string                { return "Desktop" }
func (d *desktopNode) Name() string                { return "" }
func (d *desktopNode) RuntimeID() string           { return "platynui:desktop" }
func (d *desktopNode) Parent() (uinode.Node, bool)  { return nil, false }

func (d *desktopNode) Children() ([]uinode.Node, error) {
	var out []uinode.Node
	for _, p := range d.rt.providers.All() {
		root, err := p.DesktopRoot()
		if err != nil {
			return nil, err
		}
		out = append(out, d.rt.cache.wrap(root))
	}
	return out, nil
}

func (d *desktopNode) Attributes() ([]uinode.Attribute, error) { return nil, nil }
func (d *desktopNode) SupportedPatterns() []string             { return nil }
func (d *desktopNode) PatternByID(string) (any, bool)          { return nil, false }
func (d *desktopNode) Invalidate()                             {}
func (d *desktopNode) IsValid() bool                           { return true }
func (d *desktopNode) DocOrderKey() (uint64, bool)             { return 0, true }
