// Package provider defines the contract an accessibility backend
// implements to plug a concrete UI tree into the core (spec.md §3/§6,
// component C2/C4 boundary). pkg/provider/memtree is the in-memory
// reference implementation exercised by this module's tests.
package provider

import (
	"errors"

	"github.com/d-biehl/platynui/pkg/uinode"
)

// ErrNoSuchRuntimeID indicates a provider could not resolve a previously
// issued runtime id, most likely because the underlying element went away.
var ErrNoSuchRuntimeID = errors.New("provider: no node for runtime id")

// Descriptor identifies a provider to the runtime registry (spec.md §6).
type Descriptor struct {
	// ID is a short, stable provider identifier, e.g. "memtree".
	ID string
	// Name is a human-readable display name.
	Name string
}

// Provider supplies one root of the desktop's accessibility forest. The
// runtime mounts every registered provider's DesktopRoot as a child of
// its synthetic desktop document node (spec.md §3).
type Provider interface {
	Descriptor() Descriptor

	// DesktopRoot returns the provider's top-level node (typically an App
	// or a collection of App nodes), e.g. an Application namespace root.
	DesktopRoot() (uinode.Node, error)

	// ResolveRuntimeID looks up a previously observed node by its
	// RuntimeID. Returns ErrNoSuchRuntimeID if the node is gone.
	ResolveRuntimeID(id string) (uinode.Node, error)

	// Shutdown releases any resources the provider holds (file handles,
	// platform accessibility connections, background watchers).
	Shutdown() error
}

// Registry holds the providers mounted into a runtime, in mount order.
type Registry struct {
	providers []Provider
}

// NewRegistry returns an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register mounts a provider. Order of registration is preserved as
// document order among provider roots.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// All returns the mounted providers in registration order.
func (r *Registry) All() []Provider {
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ResolveRuntimeID tries every mounted provider in order until one
// resolves the id.
func (r *Registry) ResolveRuntimeID(id string) (uinode.Node, error) {
	for _, p := range r.providers {
		n, err := p.ResolveRuntimeID(id)
		if err == nil {
			return n, nil
		}
		if !errors.Is(err, ErrNoSuchRuntimeID) {
			return nil, err
		}
	}
	return nil, ErrNoSuchRuntimeID
}

// Shutdown shuts down every mounted provider, collecting the first error
// while still attempting the rest.
func (r *Registry) Shutdown() error {
	var first error
	for _, p := range r.providers {
		if err := p.Shutdown(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
