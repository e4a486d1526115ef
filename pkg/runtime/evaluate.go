package runtime

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
	"github.com/d-biehl/platynui/pkg/xpath"
)

// EvaluationItemKind distinguishes the three shapes an EvaluationItem can
// take (spec.md §3 glossary: "Node(UiNode) | Attribute(EvaluatedAttribute)
// | Value(UiValue)").
type EvaluationItemKind int

const (
	EvaluationItemNode EvaluationItemKind = iota
	EvaluationItemAttribute
	EvaluationItemValue
)

// EvaluatedAttribute is a materialized attribute result: the owning node,
// its expanded (namespace-qualified, possibly derived-alias) name, and its
// value.
type EvaluatedAttribute struct {
	Owner uinode.Node
	QName uinode.QName
	Value uivalue.Value
	// Derived marks a synthesized alias attribute (e.g. Bounds.Width).
	Derived bool
}

// EvaluationItem is one XPath result, re-exposed at the runtime layer so
// callers need not import pkg/xpath directly (spec.md §3 glossary).
type EvaluationItem struct {
	Kind      EvaluationItemKind
	Node      uinode.Node
	Attribute EvaluatedAttribute
	Value     uivalue.Value
}

// StringValue is the XDM string-value of the item (spec.md §4.1).
func (it EvaluationItem) StringValue() string {
	switch it.Kind {
	case EvaluationItemNode:
		return uinode.StringValue(it.Node)
	case EvaluationItemAttribute:
		return it.Attribute.Value.StringForm()
	default:
		return it.Value.StringForm()
	}
}

func fromXPathItem(it xpath.Item) EvaluationItem {
	switch it.Kind {
	case xpath.ItemKindNode:
		return EvaluationItem{Kind: EvaluationItemNode, Node: it.Node}
	case xpath.ItemKindAttribute:
		return EvaluationItem{Kind: EvaluationItemAttribute, Attribute: EvaluatedAttribute{
			Owner:   it.AttrOwner,
			QName:   it.Attr.QName,
			Value:   it.Attr.Value,
			Derived: it.Attr.Derived,
		}}
	default:
		return EvaluationItem{Kind: EvaluationItemValue, Value: it.Atomic}
	}
}

// ContextNodeUnknownError is raised when a caller-supplied context node's
// runtime id no longer resolves in the live tree (spec.md §4.4 contract,
// §7 error taxonomy).
type ContextNodeUnknownError struct {
	RuntimeID string
}

func (e *ContextNodeUnknownError) Error() string {
	return fmt.Sprintf("runtime: context node unknown: runtime id %q no longer resolves", e.RuntimeID)
}

// programCache memoizes compiled programs on the exact XPath source string
// (spec.md §4.4: "compile_cached ... memoize at least on exact-string keys
// within a handle"), matching §5's no-long-held-locks model: entries are
// immutable once inserted, the mutex only guards the map itself.
type programCache struct {
	mu    sync.Mutex
	sc    *xpath.StaticContext
	cache map[string]*xpath.Program
}

func newProgramCache() *programCache {
	return &programCache{sc: xpath.NewStaticContext(), cache: make(map[string]*xpath.Program)}
}

// CompileCached compiles source, reusing a prior compilation for the exact
// same string (spec.md §4.4 "compile_cached").
func (rt *Runtime) CompileCached(source string) (*xpath.Program, error) {
	rt.programs.mu.Lock()
	if p, ok := rt.programs.cache[source]; ok {
		rt.programs.mu.Unlock()
		return p, nil
	}
	rt.programs.mu.Unlock()

	prog, err := xpath.Compile(source, rt.programs.sc)
	if err != nil {
		return nil, err
	}

	rt.programs.mu.Lock()
	rt.programs.cache[source] = prog
	rt.programs.mu.Unlock()
	return prog, nil
}

// resolveContextNode re-resolves a possibly-stale context node by runtime
// id against the provider registry, raising ContextNodeUnknownError if the
// id no longer exists in the live tree (spec.md §4.4 contract). A nil node
// resolves to the desktop root.
func (rt *Runtime) resolveContextNode(node uinode.Node) (uinode.Node, error) {
	if node == nil {
		return rt.desktop, nil
	}
	if node == rt.desktop {
		return node, nil
	}

	id := node.RuntimeID()
	resolved, err := rt.providers.ResolveRuntimeID(id)
	if err != nil {
		// Every resolution failure, provider.ErrNoSuchRuntimeID or any other
		// provider error, is reported as ContextNodeUnknownError.
		return nil, &ContextNodeUnknownError{RuntimeID: id}
	}
	return rt.cache.wrap(resolved), nil
}

// newCancelFlag returns a fresh, already-false cancel flag for a single
// evaluate call.
func newCancelFlag() *atomic.Bool { return new(atomic.Bool) }

func (rt *Runtime) newDynamicContext(prog *xpath.Program, ctxNode uinode.Node, cancel *atomic.Bool) *xpath.DynamicContext {
	dctx := xpath.NewDynamicContext(rt.programs.sc, xpath.NodeItem(ctxNode), true, cancel)
	return dctx.WithRoot(xpath.NodeItem(rt.desktop))
}

// Evaluate compiles (or reuses) source, builds a dynamic context rooted at
// the desktop with contextNode (or the desktop root if nil) as the context
// item, and runs to exhaustion (spec.md §4.4 "evaluate").
func (rt *Runtime) Evaluate(source string, contextNode uinode.Node) ([]EvaluationItem, error) {
	prog, err := rt.CompileCached(source)
	if err != nil {
		return nil, err
	}
	ctxNode, err := rt.resolveContextNode(contextNode)
	if err != nil {
		return nil, err
	}

	dctx := rt.newDynamicContext(prog, ctxNode, newCancelFlag())
	cur, err := xpath.Evaluate(prog, dctx)
	if err != nil {
		return nil, err
	}
	items, err := xpath.Drain(cur, dctx)
	if err != nil {
		return nil, err
	}

	out := make([]EvaluationItem, len(items))
	for i, it := range items {
		out[i] = fromXPathItem(it)
	}
	return out, nil
}

// EvaluateSingle evaluates source and returns only the first item, without
// materializing the full sequence (spec.md §4.4 "evaluate_single").
func (rt *Runtime) EvaluateSingle(source string, contextNode uinode.Node) (*EvaluationItem, error) {
	prog, err := rt.CompileCached(source)
	if err != nil {
		return nil, err
	}
	ctxNode, err := rt.resolveContextNode(contextNode)
	if err != nil {
		return nil, err
	}

	dctx := rt.newDynamicContext(prog, ctxNode, newCancelFlag())
	cur, err := xpath.Evaluate(prog, dctx)
	if err != nil {
		return nil, err
	}

	it, ok, err := cur.Next(dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	result := fromXPathItem(it)
	return &result, nil
}

// ItemStream produces EvaluationItems on demand, observing cancellation
// between items (spec.md §4.4 "evaluate_stream").
type ItemStream struct {
	cur    xpath.SequenceCursor
	dctx   *xpath.DynamicContext
	cancel *atomic.Bool
}

// Next pulls the next item, or (zero, false, nil) at end of sequence.
func (s *ItemStream) Next() (EvaluationItem, bool, error) {
	if s.cancel.Load() {
		return EvaluationItem{}, false, xpath.NewError(xpath.FOER0000, "evaluation cancelled", nil)
	}
	it, ok, err := s.cur.Next(s.dctx)
	if err != nil || !ok {
		return EvaluationItem{}, false, err
	}
	return fromXPathItem(it), true, nil
}

// Cancel requests cooperative cancellation of the stream; the next Next()
// call (or sooner, at the next expression/cursor boundary inside it) observes
// it and returns FOER0000 (spec.md §5).
func (s *ItemStream) Cancel() { s.cancel.Store(true) }

// EvaluateStream compiles (or reuses) source and returns a lazy stream over
// its result sequence (spec.md §4.4 "evaluate_stream").
func (rt *Runtime) EvaluateStream(source string, contextNode uinode.Node) (*ItemStream, error) {
	prog, err := rt.CompileCached(source)
	if err != nil {
		return nil, err
	}
	ctxNode, err := rt.resolveContextNode(contextNode)
	if err != nil {
		return nil, err
	}

	cancel := newCancelFlag()
	dctx := rt.newDynamicContext(prog, ctxNode, cancel)
	cur, err := xpath.Evaluate(prog, dctx)
	if err != nil {
		return nil, err
	}
	return &ItemStream{cur: cur, dctx: dctx, cancel: cancel}, nil
}
