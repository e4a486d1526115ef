// Package memtree is an in-memory reference provider (spec.md §6): a
// tree built programmatically (or by a test) that implements
// uinode.Node/uinode.Attribute directly, without any platform
// accessibility backend. It is grounded in the traversal and element
// shape of a native accessibility finder, adapted to the node-graph
// contract instead of a concrete Element struct.
package memtree

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/d-biehl/platynui/pkg/provider"
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

var docOrderCounter uint64

func nextDocOrderKey() uint64 {
	return atomic.AddUint64(&docOrderCounter, 1)
}

// Node is a mutable, in-memory accessibility node. Build a tree with
// NewNode and AddChild, then mount its root via NewProvider.
type Node struct {
	mu sync.RWMutex

	namespace uinode.Namespace
	role      string
	name      string
	runtimeID string
	docOrder  uint64

	parent   *Node
	children []*Node

	attrOrder []string
	attrs     map[string]uivalue.Value
	attrNS    map[string]uinode.Namespace

	patterns map[string]any

	valid bool
}

// NewNode creates a detached node with a fresh runtime id.
func NewNode(ns uinode.Namespace, role, name string) *Node {
	return &Node{
		namespace: ns,
		role:      role,
		name:      name,
		runtimeID: uuid.NewString(),
		docOrder:  nextDocOrderKey(),
		attrs:     make(map[string]uivalue.Value),
		attrNS:    make(map[string]uinode.Namespace),
		patterns:  make(map[string]any),
		valid:     true,
	}
}

// AddChild appends a child node, assigning it as this node's parent.
// Returns the child for chaining.
func (n *Node) AddChild(child *Node) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	child.mu.Lock()
	child.parent = n
	child.mu.Unlock()
	n.children = append(n.children, child)
	return child
}

// SetAttribute sets (or replaces) an attribute value in the Control
// namespace unless ns is given via SetAttributeNS.
func (n *Node) SetAttribute(name string, value uivalue.Value) *Node {
	return n.SetAttributeNS(uinode.NamespaceControl, name, value)
}

// SetAttributeNS sets an attribute in an explicit namespace.
func (n *Node) SetAttributeNS(ns uinode.Namespace, name string, value uivalue.Value) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.attrs[name]; !exists {
		n.attrOrder = append(n.attrOrder, name)
	}
	n.attrs[name] = value
	n.attrNS[name] = ns
	return n
}

// SetPattern registers a pattern implementation under id, typically a
// closure or small struct implementing a pkg/pattern interface.
func (n *Node) SetPattern(id string, impl any) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.patterns[id] = impl
	return n
}

// Namespace implements uinode.Node.
func (n *Node) Namespace() uinode.Namespace {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.namespace
}

// Role implements uinode.Node.
func (n *Node) Role() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.role
}

// Name implements uinode.Node.
func (n *Node) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

// RuntimeID implements uinode.Node.
func (n *Node) RuntimeID() string {
	return n.runtimeID
}

// Parent implements uinode.Node.
func (n *Node) Parent() (uinode.Node, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

// Children implements uinode.Node.
func (n *Node) Children() ([]uinode.Node, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]uinode.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

// Attributes implements uinode.Node.
func (n *Node) Attributes() ([]uinode.Attribute, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]uinode.Attribute, 0, len(n.attrOrder))
	for _, name := range n.attrOrder {
		out = append(out, &attribute{
			node: n,
			name: name,
			ns:   n.attrNS[name],
		})
	}
	return out, nil
}

// SupportedPatterns implements uinode.Node.
func (n *Node) SupportedPatterns() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	ids := make([]string, 0, len(n.patterns))
	for id := range n.patterns {
		ids = append(ids, id)
	}
	return ids
}

// PatternByID implements uinode.Node.
func (n *Node) PatternByID(id string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	impl, ok := n.patterns[id]
	return impl, ok
}

// Invalidate implements uinode.Node. memtree nodes never go stale on
// their own; Invalidate is a no-op hook for tests that want to simulate
// provider-side detachment via MarkDetached.
func (n *Node) Invalidate() {}

// IsValid implements uinode.Node.
func (n *Node) IsValid() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.valid
}

// MarkDetached flags the node (and, transitively, nothing else — parent
// links are unaffected) as no longer valid, simulating an element that
// disappeared from the live desktop.
func (n *Node) MarkDetached() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.valid = false
}

// DocOrderKey implements uinode.Node.
func (n *Node) DocOrderKey() (uint64, bool) {
	return n.docOrder, true
}

type attribute struct {
	node *Node
	name string
	ns   uinode.Namespace
}

func (a *attribute) Namespace() uinode.Namespace { return a.ns }
func (a *attribute) Name() string                { return a.name }

func (a *attribute) Value() (uivalue.Value, error) {
	a.node.mu.RLock()
	defer a.node.mu.RUnlock()
	v, ok := a.node.attrs[a.name]
	if !ok {
		return uivalue.Null(), uinode.ErrAttributeNotFound
	}
	return v, nil
}

// Tree is a provider.Provider backed by a single memtree root.
type Tree struct {
	descriptor provider.Descriptor
	root       *Node
	byRuntime  map[string]*Node
	mu         sync.RWMutex
}

// NewProvider builds a provider.Provider whose desktop root is root. It
// indexes the whole subtree once for ResolveRuntimeID; call Reindex
// after structurally mutating the tree at runtime.
func NewProvider(id, name string, root *Node) *Tree {
	t := &Tree{
		descriptor: provider.Descriptor{ID: id, Name: name},
		root:       root,
	}
	t.Reindex()
	return t
}

// Reindex rebuilds the runtime-id lookup table by walking the tree.
func (t *Tree) Reindex() {
	index := make(map[string]*Node)
	var walk func(*Node)
	walk = func(n *Node) {
		index[n.runtimeID] = n
		n.mu.RLock()
		children := append([]*Node(nil), n.children...)
		n.mu.RUnlock()
		for _, c := range children {
			walk(c)
		}
	}
	walk(t.root)

	t.mu.Lock()
	t.byRuntime = index
	t.mu.Unlock()
}

func (t *Tree) Descriptor() provider.Descriptor { return t.descriptor }

func (t *Tree) DesktopRoot() (uinode.Node, error) {
	return t.root, nil
}

func (t *Tree) ResolveRuntimeID(id string) (uinode.Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.byRuntime[id]
	if !ok || !n.IsValid() {
		return nil, provider.ErrNoSuchRuntimeID
	}
	return n, nil
}

func (t *Tree) Shutdown() error { return nil }
