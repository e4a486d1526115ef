package xpath

import "github.com/d-biehl/platynui/pkg/uinode"

// axisCursor evaluates one axis step for one context node, applying the
// node test as a filter. Implementations stream lazily wherever the
// underlying structure allows it (spec.md §4.3 "context-minimization
// wrappers", "document order produced natively for forward axes").
func axisCursor(dctx *DynamicContext, axis Axis, test NodeTest, ctxNode uinode.Node) (SequenceCursor, error) {
	switch axis {
	case AxisSelf:
		return filterNode(dctx, test, []uinode.Node{ctxNode}), nil
	case AxisChild:
		children, err := ctxNode.Children()
		if err != nil {
			return nil, err
		}
		return filterNode(dctx, test, children), nil
	case AxisParent:
		parent, ok := ctxNode.Parent()
		if !ok {
			return emptyCursor{}, nil
		}
		return filterNode(dctx, test, []uinode.Node{parent}), nil
	case AxisAttribute:
		return attributeAxisCursor(dctx, test, ctxNode)
	case AxisDescendant:
		return newDescendantCursor(dctx, test, ctxNode, false)
	case AxisDescendantOrSelf:
		return newDescendantCursor(dctx, test, ctxNode, true)
	case AxisAncestor:
		return newAncestorCursor(test, ctxNode, false), nil
	case AxisAncestorOrSelf:
		return newAncestorCursor(test, ctxNode, true), nil
	case AxisFollowingSibling:
		sibs, err := siblingsAfter(ctxNode)
		if err != nil {
			return nil, err
		}
		return filterNode(dctx, test, sibs), nil
	case AxisPrecedingSibling:
		sibs, err := siblingsBefore(ctxNode)
		if err != nil {
			return nil, err
		}
		reversed := make([]uinode.Node, len(sibs))
		for i, n := range sibs {
			reversed[len(sibs)-1-i] = n
		}
		return filterNode(dctx, test, reversed), nil
	case AxisFollowing:
		nodes, err := followingNodes(ctxNode)
		if err != nil {
			return nil, err
		}
		return filterNode(dctx, test, nodes), nil
	case AxisPreceding:
		nodes, err := precedingNodes(ctxNode)
		if err != nil {
			return nil, err
		}
		return filterNode(dctx, test, nodes), nil
	case AxisNamespace:
		// No namespace nodes in this data model (spec.md §4.1 carries
		// only element/attribute items); always empty.
		return emptyCursor{}, nil
	}
	return emptyCursor{}, nil
}

func filterNode(dctx *DynamicContext, test NodeTest, nodes []uinode.Node) SequenceCursor {
	var items []Item
	for _, n := range nodes {
		ok, err := matchesElementTest(dctx.Static, test, uinode.ElementQName(n))
		if err != nil {
			continue
		}
		if ok {
			items = append(items, NodeItem(n))
		}
	}
	return NewSliceCursor(items)
}

func attributeAxisCursor(dctx *DynamicContext, test NodeTest, n uinode.Node) (SequenceCursor, error) {
	expanded, err := uinode.ExpandAttributes(n)
	if err != nil {
		return nil, err
	}
	var items []Item
	for _, ea := range expanded {
		ok, err := matchesAttributeTest(dctx.Static, test, ea.QName)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, AttributeItem(n, ea))
		}
	}
	return NewSliceCursor(items), nil
}

func sameNode(a, b uinode.Node) bool { return a.RuntimeID() == b.RuntimeID() }

func siblingIndex(n uinode.Node) (siblings []uinode.Node, idx int, err error) {
	parent, ok := n.Parent()
	if !ok {
		return nil, -1, nil
	}
	siblings, err = parent.Children()
	if err != nil {
		return nil, -1, err
	}
	for i, s := range siblings {
		if sameNode(s, n) {
			return siblings, i, nil
		}
	}
	return siblings, -1, nil
}

func siblingsAfter(n uinode.Node) ([]uinode.Node, error) {
	siblings, idx, err := siblingIndex(n)
	if err != nil || idx < 0 {
		return nil, err
	}
	return siblings[idx+1:], nil
}

func siblingsBefore(n uinode.Node) ([]uinode.Node, error) {
	siblings, idx, err := siblingIndex(n)
	if err != nil || idx < 0 {
		return nil, err
	}
	return siblings[:idx], nil
}

// descendantCursor performs a lazy, stack-based preorder walk so that
// only the nodes actually visited incur a Children() call (spec.md §8
// "taking k items visits O(k) descendants").
type descendantCursor struct {
	dctx     *DynamicContext
	test     NodeTest
	frames   [][]uinode.Node
	indices  []int
	emitSelf bool
	self     uinode.Node
	selfDone bool
}

func newDescendantCursor(dctx *DynamicContext, test NodeTest, n uinode.Node, includeSelf bool) (SequenceCursor, error) {
	return &descendantCursor{
		dctx:     dctx,
		test:     test,
		frames:   [][]uinode.Node{{n}},
		indices:  []int{0},
		emitSelf: includeSelf,
		self:     n,
	}, nil
}

func (c *descendantCursor) Next(dctx *DynamicContext) (Item, bool, error) {
	for {
		if err := dctx.checkCancelled(); err != nil {
			return Item{}, false, err
		}
		if len(c.frames) == 0 {
			return Item{}, false, nil
		}
		top := len(c.frames) - 1
		frame := c.frames[top]
		idx := c.indices[top]
		if idx >= len(frame) {
			c.frames = c.frames[:top]
			c.indices = c.indices[:top]
			continue
		}
		node := frame[idx]
		c.indices[top] = idx + 1

		isSelf := top == 0 && idx == 0 && sameNode(node, c.self)
		children, err := node.Children()
		if err != nil {
			return Item{}, false, err
		}
		if len(children) > 0 {
			c.frames = append(c.frames, children)
			c.indices = append(c.indices, 0)
		}

		if isSelf && !c.emitSelf {
			continue
		}
		ok, err := matchesElementTest(dctx.Static, c.test, uinode.ElementQName(node))
		if err != nil {
			return Item{}, false, err
		}
		if ok {
			return NodeItem(node), true, nil
		}
	}
}

func (c *descendantCursor) Clone() SequenceCursor {
	framesCopy := make([][]uinode.Node, len(c.frames))
	copy(framesCopy, c.frames)
	indicesCopy := make([]int, len(c.indices))
	copy(indicesCopy, c.indices)
	cp := *c
	cp.frames = framesCopy
	cp.indices = indicesCopy
	return &cp
}

// ancestorCursor lazily walks Parent() links.
type ancestorCursor struct {
	test        NodeTest
	current     uinode.Node
	includeSelf bool
	started     bool
}

func newAncestorCursor(test NodeTest, n uinode.Node, includeSelf bool) SequenceCursor {
	return &ancestorCursor{test: test, current: n, includeSelf: includeSelf}
}

func (c *ancestorCursor) Next(dctx *DynamicContext) (Item, bool, error) {
	for {
		if err := dctx.checkCancelled(); err != nil {
			return Item{}, false, err
		}
		var candidate uinode.Node
		if !c.started {
			c.started = true
			if c.includeSelf {
				candidate = c.current
			} else {
				parent, ok := c.current.Parent()
				if !ok {
					return Item{}, false, nil
				}
				c.current = parent
				candidate = parent
			}
		} else {
			parent, ok := c.current.Parent()
			if !ok {
				return Item{}, false, nil
			}
			c.current = parent
			candidate = parent
		}
		ok, err := matchesElementTest(dctx.Static, c.test, uinode.ElementQName(candidate))
		if err != nil {
			return Item{}, false, err
		}
		if ok {
			return NodeItem(candidate), true, nil
		}
	}
}

func (c *ancestorCursor) Clone() SequenceCursor {
	cp := *c
	return &cp
}

// followingNodes materializes the "following" axis eagerly: for each
// level from n upward, the following siblings and their full subtrees,
// nearest ancestor first (DESIGN.md notes this axis and "preceding" are
// the two that are not streamed lazily).
func followingNodes(n uinode.Node) ([]uinode.Node, error) {
	var out []uinode.Node
	cur := n
	for {
		sibs, err := siblingsAfter(cur)
		if err != nil {
			return nil, err
		}
		for _, s := range sibs {
			subtree, err := subtreePreorder(s)
			if err != nil {
				return nil, err
			}
			out = append(out, subtree...)
		}
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent
	}
	return out, nil
}

func precedingNodes(n uinode.Node) ([]uinode.Node, error) {
	var out []uinode.Node
	cur := n
	for {
		sibs, err := siblingsBefore(cur)
		if err != nil {
			return nil, err
		}
		for i := len(sibs) - 1; i >= 0; i-- {
			subtree, err := subtreePreorder(sibs[i])
			if err != nil {
				return nil, err
			}
			for j := len(subtree) - 1; j >= 0; j-- {
				out = append(out, subtree[j])
			}
		}
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		cur = parent
	}
	return out, nil
}

func subtreePreorder(n uinode.Node) ([]uinode.Node, error) {
	out := []uinode.Node{n}
	children, err := n.Children()
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		sub, err := subtreePreorder(c)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}
