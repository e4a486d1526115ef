package xpath

import "sync/atomic"

// DynamicContext carries the per-evaluation state: the static context a
// program was compiled against, the context item/position/size, bound
// variables, and a cancellation flag (spec.md §5).
type DynamicContext struct {
	Static *StaticContext

	ContextItem Item
	HasContext  bool
	Position    int
	Last        int
	HasLast     bool

	// Root is the document root used by rooted path expressions ('/' and
	// '//'). HasRoot is false when no root has been supplied, in which
	// case rooted paths walk up from the context item's Parent() chain.
	Root    Item
	HasRoot bool

	Variables map[string]Item

	cancel *atomic.Bool
}

// NewDynamicContext builds a dynamic context rooted at contextItem (or
// with no context item if hasContext is false), sharing cancel as its
// cancellation flag.
func NewDynamicContext(sc *StaticContext, contextItem Item, hasContext bool, cancel *atomic.Bool) *DynamicContext {
	if cancel == nil {
		cancel = &atomic.Bool{}
	}
	return &DynamicContext{
		Static:      sc,
		ContextItem: contextItem,
		HasContext:  hasContext,
		Variables:   map[string]Item{},
		cancel:      cancel,
	}
}

// WithRoot returns a copy of d with an explicit document root bound,
// used by the runtime façade when evaluating against a desktop root
// that differs from the context item's ancestry.
func (d *DynamicContext) WithRoot(root Item) *DynamicContext {
	child := *d
	child.Root = root
	child.HasRoot = true
	return &child
}

// checkCancelled returns a FOER0000 error if the shared cancel flag is
// set (spec.md §4.3/§5 "cancellation checked at every opcode and cursor
// pull").
func (d *DynamicContext) checkCancelled() error {
	if d.cancel != nil && d.cancel.Load() {
		return NewError(FOER0000, "evaluation cancelled", nil)
	}
	return nil
}

// childScope returns a new DynamicContext sharing everything but
// Variables, which is copied so the child can bind without mutating the
// parent (used by for/let/quantified expressions and predicates).
func (d *DynamicContext) childScope() *DynamicContext {
	vars := make(map[string]Item, len(d.Variables)+1)
	for k, v := range d.Variables {
		vars[k] = v
	}
	child := *d
	child.Variables = vars
	return &child
}

func (d *DynamicContext) withContextItem(it Item) *DynamicContext {
	child := *d
	child.ContextItem = it
	child.HasContext = true
	return &child
}

func (d *DynamicContext) withPositionLast(pos, last int, hasLast bool) *DynamicContext {
	child := *d
	child.Position = pos
	child.Last = last
	child.HasLast = hasLast
	return &child
}
