// Package uinode defines the polymorphic accessibility node and attribute
// contracts (spec.md §3/§6, component C2) and the element-QName mapping
// that adapts nodes into the XPath data model (spec.md §4.1).
//
// This package defines interfaces only; concrete trees are supplied by a
// provider (see pkg/provider). pkg/provider/memtree is the in-memory
// reference implementation used throughout this module's tests.
package uinode

import (
	"errors"

	"github.com/d-biehl/platynui/pkg/uivalue"
)

// Namespace is the stable tag set a node's element belongs to.
type Namespace string

const (
	NamespaceControl Namespace = "Control"
	NamespaceItem     Namespace = "Item"
	NamespaceApp      Namespace = "App"
	NamespaceNative   Namespace = "Native"
)

// NamespaceURI returns the XDM namespace URI for a Namespace, per spec.md
// §4.1 and §6: "urn:platynui:{control|item|app|native}".
func NamespaceURI(ns Namespace) string {
	switch ns {
	case NamespaceControl:
		return "urn:platynui:control"
	case NamespaceItem:
		return "urn:platynui:item"
	case NamespaceApp:
		return "urn:platynui:app"
	case NamespaceNative:
		return "urn:platynui:native"
	default:
		return "urn:platynui:control"
	}
}

// NamespacePrefix is the default compiler-bound prefix for a namespace
// (spec.md §6): "control", "item", "app", "native". Control is also bound
// as the default element namespace (no prefix required).
func NamespacePrefix(ns Namespace) string {
	switch ns {
	case NamespaceControl:
		return "control"
	case NamespaceItem:
		return "item"
	case NamespaceApp:
		return "app"
	case NamespaceNative:
		return "native"
	default:
		return "control"
	}
}

// Errors raised by node/attribute operations. A provider detachment error is
// distinct from "not found" per spec.md §4.1.
var (
	// ErrAttributeNotFound indicates no attribute matched the given name.
	ErrAttributeNotFound = errors.New("uinode: attribute not found")

	// ErrProviderDetached indicates the provider could not service the
	// request because the node (or its owning tree) is no longer live.
	ErrProviderDetached = errors.New("uinode: provider detached")
)

// Node is an accessibility element as exposed by a provider. Implementations
// are expected to lazily materialize children/attributes on iteration and
// are weakly held by their descendants (see spec.md §3 lifecycle notes).
type Node interface {
	// Namespace is one of Control/Item/App/Native.
	Namespace() Namespace

	// Role is a short string such as "Window" or "Button".
	Role() string

	// Name is the localized accessible label; may be empty.
	Name() string

	// RuntimeID is a provider-stable identity string, unique within the
	// live tree snapshot.
	RuntimeID() string

	// Parent returns the node's weak parent, or (nil, false) if the node
	// is a root (its synthetic parent is the desktop document node, owned
	// by the runtime, not the provider).
	Parent() (Node, bool)

	// Children returns an iterator-like snapshot of ordered child nodes.
	// Implementations should load children lazily on first call.
	Children() ([]Node, error)

	// Attributes returns the node's attribute handles in a deterministic
	// order for the lifetime of this call (spec.md §3 invariant).
	Attributes() ([]Attribute, error)

	// SupportedPatterns returns the pattern ids this node advertises.
	// Every id returned here must be resolvable via PatternByID.
	SupportedPatterns() []string

	// PatternByID resolves a pattern by id, or (nil, false) if
	// unsupported. Callers type-assert the result to the matching
	// pattern interface (pkg/pattern).
	PatternByID(id string) (any, bool)

	// Invalidate instructs the provider to refresh any cached snapshot of
	// this node on next access.
	Invalidate()

	// IsValid reports whether the node reference is still usable.
	IsValid() bool

	// DocOrderKey returns a monotonically-increasing key usable to sort
	// nodes into document order, if the provider can supply one cheaply.
	// Returns (0, false) when unavailable; the evaluator's stable
	// document-order sort then leaves such nodes in their input order.
	DocOrderKey() (uint64, bool)
}

// Attribute is a (namespace, name) -> Value pair belonging to a Node.
type Attribute interface {
	Namespace() Namespace
	Name() string
	Value() (uivalue.Value, error)
}
