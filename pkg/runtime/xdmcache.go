package runtime

import (
	"sync"

	"github.com/d-biehl/platynui/pkg/uinode"
)

// xdmCache memoizes per-runtime-id provider round-trips (children,
// attribute handles) behind the nodes the runtime hands to the XPath
// evaluator (spec.md §4.4 "clear_cache": "empties the XDM adaptation
// cache"). It is a pair of maps guarded by one sync.Mutex, keyed by node
// runtime id, cleared wholesale by clear().
type xdmCache struct {
	mu       sync.Mutex
	children map[string][]uinode.Node
	attrs    map[string][]uinode.Attribute
}

func newXdmCache() *xdmCache {
	return &xdmCache{
		children: make(map[string][]uinode.Node),
		attrs:    make(map[string][]uinode.Attribute),
	}
}

func (c *xdmCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.children = make(map[string][]uinode.Node)
	c.attrs = make(map[string][]uinode.Attribute)
}

// wrap decorates n with this cache, unless it is already wrapped (or nil).
func (c *xdmCache) wrap(n uinode.Node) uinode.Node {
	if n == nil {
		return nil
	}
	if cn, ok := n.(*cachedNode); ok && cn.cache == c {
		return cn
	}
	return &cachedNode{Node: n, cache: c}
}

// cachedNode wraps a provider-supplied uinode.Node, memoizing Children()
// and Attributes() lookups by runtime id. Every field access not
// explicitly overridden is promoted straight through to the underlying
// node.
type cachedNode struct {
	uinode.Node
	cache *xdmCache
}

func (n *cachedNode) Children() ([]uinode.Node, error) {
	id := n.Node.RuntimeID()

	n.cache.mu.Lock()
	if kids, ok := n.cache.children[id]; ok {
		n.cache.mu.Unlock()
		return kids, nil
	}
	n.cache.mu.Unlock()

	kids, err := n.Node.Children()
	if err != nil {
		return nil, err
	}
	wrapped := make([]uinode.Node, len(kids))
	for i, k := range kids {
		wrapped[i] = n.cache.wrap(k)
	}

	n.cache.mu.Lock()
	n.cache.children[id] = wrapped
	n.cache.mu.Unlock()
	return wrapped, nil
}

func (n *cachedNode) Attributes() ([]uinode.Attribute, error) {
	id := n.Node.RuntimeID()

	n.cache.mu.Lock()
	if attrs, ok := n.cache.attrs[id]; ok {
		n.cache.mu.Unlock()
		return attrs, nil
	}
	n.cache.mu.Unlock()

	attrs, err := n.Node.Attributes()
	if err != nil {
		return nil, err
	}

	n.cache.mu.Lock()
	n.cache.attrs[id] = attrs
	n.cache.mu.Unlock()
	return attrs, nil
}

// Parent returns the wrapped parent so repeated ancestor walks (axis
// evaluation, focus/bring-to-front) stay within the cache.
func (n *cachedNode) Parent() (uinode.Node, bool) {
	p, ok := n.Node.Parent()
	if !ok {
		return nil, false
	}
	return n.cache.wrap(p), true
}
