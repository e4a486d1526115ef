package xpath

import (
	"strconv"

	"github.com/d-biehl/platynui/pkg/uivalue"
)

// Evaluate runs prog against dctx and returns a lazily-pulled cursor
// over the result sequence (spec.md §4.4 "evaluate_stream").
func Evaluate(prog *Program, dctx *DynamicContext) (SequenceCursor, error) {
	return evalExpr(prog.Expr, dctx)
}

func evalExpr(e Expr, dctx *DynamicContext) (SequenceCursor, error) {
	if err := dctx.checkCancelled(); err != nil {
		return nil, err
	}
	switch n := e.(type) {
	case *NumberLit:
		return NewSliceCursor([]Item{AtomicItem(numberLiteralValue(n))}), nil
	case *StringLit:
		return NewSliceCursor([]Item{AtomicItem(uivalue.String(n.Value))}), nil
	case *VarRef:
		it, ok := dctx.Variables[n.Name]
		if !ok {
			return nil, NewError(XPDY0002, "variable $"+n.Name+" has no bound value", nil)
		}
		return NewSliceCursor([]Item{it}), nil
	case *ContextItemExpr:
		if !dctx.HasContext {
			return nil, NewError(XPDY0002, "context item is undefined", nil)
		}
		return NewSliceCursor([]Item{dctx.ContextItem}), nil
	case *ParenExpr:
		return evalParen(n, dctx)
	case *PathExpr:
		return evalPath(n, dctx)
	case *BinaryExpr:
		return evalBinary(n, dctx)
	case *UnaryExpr:
		return evalUnary(n, dctx)
	case *NodeComparisonExpr:
		return evalNodeComparison(n, dctx)
	case *FlworExpr:
		return evalFlwor(n, dctx)
	case *IfExpr:
		return evalIf(n, dctx)
	case *QuantifiedExpr:
		return evalQuantified(n, dctx)
	case *CastExpr:
		return evalCastExpr(n, dctx)
	case *FunctionCallExpr:
		return evalFunctionCall(n, dctx)
	}
	return nil, NewError(NYI0000, "unsupported expression form", nil)
}

func numberLiteralValue(lit *NumberLit) uivalue.Value {
	if k, ok := integerLiteralValue(lit); ok {
		return uivalue.Integer(int64(k))
	}
	f, err := strconv.ParseFloat(lit.Text, 64)
	if err != nil {
		return uivalue.Number(0)
	}
	return uivalue.Number(f)
}

func evalParen(n *ParenExpr, dctx *DynamicContext) (SequenceCursor, error) {
	var cursors []SequenceCursor
	for _, item := range n.Items {
		c, err := evalExpr(item, dctx)
		if err != nil {
			return nil, err
		}
		cursors = append(cursors, c)
	}
	return NewConcatCursor(cursors...), nil
}

// evalPath evaluates a PathExpr step by step, threading the previous
// step's result sequence as the new context sequence (spec.md §4.3
// "axis step consumes the input sequence and ... yields a fresh
// cursor").
func evalPath(n *PathExpr, dctx *DynamicContext) (SequenceCursor, error) {
	var current SequenceCursor
	if n.RootedDescendant {
		root, err := rootItem(dctx)
		if err != nil {
			return nil, err
		}
		dcs, err := newDescendantCursor(dctx, NodeTest{Kind: TestAnyNode}, root.Node, true)
		if err != nil {
			return nil, err
		}
		current = dcs
	} else if n.Rooted {
		root, err := rootItem(dctx)
		if err != nil {
			return nil, err
		}
		current = NewSliceCursor([]Item{root})
	} else {
		if !dctx.HasContext {
			return nil, NewError(XPDY0002, "context item is undefined for relative path", nil)
		}
		current = NewSliceCursor([]Item{dctx.ContextItem})
	}

	for _, step := range n.Steps {
		// Peek at most two context items rather than Drain-ing the whole
		// sequence: that's all we need to know whether this step is fed
		// by a single context item (whose own axis-cursor output is
		// already ordered/distinct by construction, so EnsureOrder and
		// EnsureDistinct can be skipped) or by several (which need
		// merging). current already advanced past the peeked items, so
		// re-prepending them costs nothing beyond the peek itself
		// (spec.md §4.3, §8: O(k) traversal for k items taken).
		peeked, err := peekUpTo(current, 2, dctx)
		if err != nil {
			return nil, err
		}
		input := SequenceCursor(NewConcatCursor(NewSliceCursor(peeked), current))
		merged := SequenceCursor(newStepFlatMapCursor(input, step, dctx))
		if len(peeked) > 1 {
			merged = NewEnsureDistinct(NewEnsureOrder(merged))
		}
		current = merged
	}
	return current, nil
}

// peekUpTo pulls at most n items from c, leaving c positioned right after
// whatever it yielded (the caller re-threads those items ahead of c via a
// concat cursor instead of buffering the rest of the sequence).
func peekUpTo(c SequenceCursor, n int, dctx *DynamicContext) ([]Item, error) {
	peeked := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		it, ok, err := c.Next(dctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		peeked = append(peeked, it)
	}
	return peeked, nil
}

// stepFlatMapCursor lazily flat-maps evalStep over an upstream context
// sequence: it pulls exactly one upstream item at a time and only asks
// for that item's step-cursor once the caller has exhausted the
// previous item's results (spec.md §4.3 "no buffering unless downstream
// requests it"; §8's O(k)-descendants-for-k-items-taken property for
// paths like "//item").
type stepFlatMapCursor struct {
	upstream SequenceCursor
	step     Step
	baseDctx *DynamicContext
	current  SequenceCursor
}

func newStepFlatMapCursor(upstream SequenceCursor, step Step, baseDctx *DynamicContext) *stepFlatMapCursor {
	return &stepFlatMapCursor{upstream: upstream, step: step, baseDctx: baseDctx}
}

func (c *stepFlatMapCursor) Next(dctx *DynamicContext) (Item, bool, error) {
	for {
		if c.current != nil {
			it, ok, err := c.current.Next(dctx)
			if err != nil {
				return Item{}, false, err
			}
			if ok {
				return it, true, nil
			}
			c.current = nil
		}

		it, ok, err := c.upstream.Next(dctx)
		if err != nil {
			return Item{}, false, err
		}
		if !ok {
			return Item{}, false, nil
		}
		sc, err := evalStep(c.step, it, c.baseDctx)
		if err != nil {
			return Item{}, false, err
		}
		c.current = sc
	}
}

func (c *stepFlatMapCursor) Clone() SequenceCursor {
	cp := &stepFlatMapCursor{upstream: c.upstream.Clone(), step: c.step, baseDctx: c.baseDctx}
	if c.current != nil {
		cp.current = c.current.Clone()
	}
	return cp
}

func rootItem(dctx *DynamicContext) (Item, error) {
	if dctx.HasRoot {
		return dctx.Root, nil
	}
	if dctx.HasContext && dctx.ContextItem.Kind == ItemKindNode {
		n := dctx.ContextItem.Node
		for {
			parent, ok := n.Parent()
			if !ok {
				return NodeItem(n), nil
			}
			n = parent
		}
	}
	return Item{}, NewError(XPDY0002, "no root node available for '/'", nil)
}

func evalStep(step Step, contextItem Item, dctx *DynamicContext) (SequenceCursor, error) {
	stepDctx := dctx.withContextItem(contextItem)

	var raw SequenceCursor
	if step.Filter != nil {
		c, err := evalExpr(step.Filter, stepDctx)
		if err != nil {
			return nil, err
		}
		raw = c
	} else {
		if contextItem.Kind != ItemKindNode {
			return nil, NewError(XPTY0004, "axis step requires a node context item", nil)
		}
		c, err := axisCursor(stepDctx, step.Axis, step.Test, contextItem.Node)
		if err != nil {
			return nil, err
		}
		raw = c
	}
	return applyPredicates(raw, step.Predicates, stepDctx)
}

func applyPredicates(raw SequenceCursor, preds []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	cur := raw
	for _, pred := range preds {
		next, err := applyOnePredicate(cur, pred, dctx)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func applyOnePredicate(raw SequenceCursor, pred Expr, dctx *DynamicContext) (SequenceCursor, error) {
	kind, k := classifyPredicate(pred)
	needsLast := usesLast(pred)

	if kind != predFastNone {
		items, err := Drain(raw, dctx)
		if err != nil {
			return nil, err
		}
		switch kind {
		case predFastExactPosition:
			if k >= 1 && k <= len(items) {
				return NewSliceCursor([]Item{items[k-1]}), nil
			}
			return emptyCursor{}, nil
		case predFastPositionLE:
			upper := k
			if upper > len(items) {
				upper = len(items)
			}
			if upper <= 0 {
				return emptyCursor{}, nil
			}
			return NewSliceCursor(items[:upper]), nil
		}
	}

	if needsLast {
		items, err := Drain(raw, dctx)
		if err != nil {
			return nil, err
		}
		last := len(items)
		var out []Item
		for i, it := range items {
			childDctx := dctx.withContextItem(it).withPositionLast(i+1, last, true)
			truthy, err := evalPredicateTruthy(pred, childDctx, i+1)
			if err != nil {
				return nil, err
			}
			if truthy {
				out = append(out, it)
			}
		}
		return NewSliceCursor(out), nil
	}

	return &predicateFilterCursor{upstream: raw, pred: pred, baseDctx: dctx}, nil
}

type predicateFilterCursor struct {
	upstream SequenceCursor
	pred     Expr
	baseDctx *DynamicContext
	pos      int
}

func (c *predicateFilterCursor) Next(dctx *DynamicContext) (Item, bool, error) {
	for {
		it, ok, err := c.upstream.Next(dctx)
		if err != nil || !ok {
			return Item{}, ok, err
		}
		c.pos++
		childDctx := c.baseDctx.withContextItem(it).withPositionLast(c.pos, 0, false)
		truthy, err := evalPredicateTruthy(c.pred, childDctx, c.pos)
		if err != nil {
			return Item{}, false, err
		}
		if truthy {
			return it, true, nil
		}
	}
}

func (c *predicateFilterCursor) Clone() SequenceCursor {
	cp := *c
	cp.upstream = c.upstream.Clone()
	return &cp
}

// evalPredicateTruthy implements spec.md §4.3's predicate-truthiness
// rule: singleton numeric equal to position(); singleton atomic with
// nonzero EBV; any node present; else (sequence of atomics, len>1) a
// cardinality error.
func evalPredicateTruthy(pred Expr, dctx *DynamicContext, position int) (bool, error) {
	cur, err := evalExpr(pred, dctx)
	if err != nil {
		return false, err
	}
	items, err := Drain(cur, dctx)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		return false, nil
	}
	hasNode := false
	for _, it := range items {
		if it.Kind != ItemKindAtomic {
			hasNode = true
		}
	}
	if hasNode {
		return true, nil
	}
	if len(items) > 1 {
		return false, NewError(FORG0005, "predicate requires a singleton atomic value", nil)
	}
	v := items[0].Atomic
	if f, ok := v.NumericValue(); ok {
		return f == float64(position), nil
	}
	return v.EffectiveBoolean(), nil
}

func evalUnary(n *UnaryExpr, dctx *DynamicContext) (SequenceCursor, error) {
	cur, err := evalExpr(n.Operand, dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(cur, dctx)
	if err != nil {
		return nil, err
	}
	v, err := singletonAtomic(items)
	if err != nil {
		return nil, err
	}
	f, ok := v.NumericValue()
	if !ok {
		return nil, NewError(XPTY0004, "unary +/- requires a numeric operand", nil)
	}
	if n.Op == "-" {
		f = -f
	}
	if v.Kind() == uivalue.KindInteger {
		return NewSliceCursor([]Item{AtomicItem(uivalue.Integer(int64(f)))}), nil
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Number(f))}), nil
}

func singletonAtomic(items []Item) (uivalue.Value, error) {
	if len(items) != 1 {
		return uivalue.Null(), NewError(FORG0005, "expected a single atomic value", nil)
	}
	return items[0].AtomizedValue(), nil
}

func evalNodeComparison(n *NodeComparisonExpr, dctx *DynamicContext) (SequenceCursor, error) {
	leftC, err := evalExpr(n.Left, dctx)
	if err != nil {
		return nil, err
	}
	leftItems, err := Drain(leftC, dctx)
	if err != nil {
		return nil, err
	}
	rightC, err := evalExpr(n.Right, dctx)
	if err != nil {
		return nil, err
	}
	rightItems, err := Drain(rightC, dctx)
	if err != nil {
		return nil, err
	}
	if len(leftItems) == 0 || len(rightItems) == 0 {
		return NewSliceCursor(nil), nil
	}
	if len(leftItems) != 1 || len(rightItems) != 1 {
		return nil, NewError(XPTY0004, "node comparison requires singleton node operands", nil)
	}
	l, r := leftItems[0], rightItems[0]
	if l.Kind == ItemKindAtomic || r.Kind == ItemKindAtomic {
		return nil, NewError(XPTY0004, "node comparison requires node operands", nil)
	}
	var result bool
	switch n.Op {
	case "is":
		lk, _ := l.identityKey()
		rk, _ := r.identityKey()
		result = lk == rk
	case "<<", ">>":
		lk, lok := l.docOrderKey()
		rk, rok := r.docOrderKey()
		if !lok || !rok {
			return nil, NewError(FOER0000, "document order unavailable for node comparison", nil)
		}
		if n.Op == "<<" {
			result = lk < rk
		} else {
			result = lk > rk
		}
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Bool(result))}), nil
}

func evalFlwor(n *FlworExpr, dctx *DynamicContext) (SequenceCursor, error) {
	return evalFlworClauses(n.Clauses, n.Return, dctx)
}

func evalFlworClauses(clauses []FlworClause, ret Expr, dctx *DynamicContext) (SequenceCursor, error) {
	if len(clauses) == 0 {
		return evalExpr(ret, dctx)
	}
	clause := clauses[0]
	rest := clauses[1:]

	src, err := evalExpr(clause.Expr, dctx)
	if err != nil {
		return nil, err
	}

	if !clause.IsFor {
		items, err := Drain(src, dctx)
		if err != nil {
			return nil, err
		}
		// Variables bind a single Item (see DynamicContext), so a 'let'
		// clause whose source is a multi-item sequence is collapsed into
		// one Array-valued item rather than kept as a distinct sequence;
		// fn:count and friends then see it as a singleton (DESIGN.md).
		var bound Item
		if len(items) == 1 {
			bound = items[0]
		} else {
			bound = AtomicItem(uivalue.Array(itemsToValues(items)...))
		}
		child := dctx.childScope()
		child.Variables[clause.Var] = bound
		return evalFlworClauses(rest, ret, child)
	}

	items, err := Drain(src, dctx)
	if err != nil {
		return nil, err
	}
	var cursors []SequenceCursor
	for _, it := range items {
		child := dctx.childScope()
		child.Variables[clause.Var] = it
		c, err := evalFlworClauses(rest, ret, child)
		if err != nil {
			return nil, err
		}
		cursors = append(cursors, c)
	}
	return NewConcatCursor(cursors...), nil
}

func itemsToValues(items []Item) []uivalue.Value {
	out := make([]uivalue.Value, len(items))
	for i, it := range items {
		out[i] = it.AtomizedValue()
	}
	return out
}

func evalIf(n *IfExpr, dctx *DynamicContext) (SequenceCursor, error) {
	condC, err := evalExpr(n.Cond, dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(condC, dctx)
	if err != nil {
		return nil, err
	}
	truthy, err := sequenceEBV(items)
	if err != nil {
		return nil, err
	}
	if truthy {
		return evalExpr(n.Then, dctx)
	}
	return evalExpr(n.Else, dctx)
}

func sequenceEBV(items []Item) (bool, error) {
	if len(items) == 0 {
		return false, nil
	}
	if items[0].Kind != ItemKindAtomic {
		return true, nil
	}
	if len(items) > 1 {
		return false, NewError(FORG0005, "effective boolean value requires a singleton or node sequence", nil)
	}
	return items[0].Atomic.EffectiveBoolean(), nil
}

func evalQuantified(n *QuantifiedExpr, dctx *DynamicContext) (SequenceCursor, error) {
	src, err := evalExpr(n.In, dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(src, dctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		child := dctx.childScope()
		child.Variables[n.Var] = it
		satC, err := evalExpr(n.Sat, child)
		if err != nil {
			return nil, err
		}
		satItems, err := Drain(satC, child)
		if err != nil {
			return nil, err
		}
		truthy, err := sequenceEBV(satItems)
		if err != nil {
			return nil, err
		}
		if truthy && !n.Every {
			return NewSliceCursor([]Item{AtomicItem(uivalue.Bool(true))}), nil
		}
		if !truthy && n.Every {
			return NewSliceCursor([]Item{AtomicItem(uivalue.Bool(false))}), nil
		}
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Bool(n.Every))}), nil
}

func evalFunctionCall(n *FunctionCallExpr, dctx *DynamicContext) (SequenceCursor, error) {
	impl, ok := lookupFunction(n.Name, len(n.Args))
	if !ok {
		if _, known := functionRegistry[n.Name]; known {
			return nil, NewError(XPST0017, "wrong arity for function: "+n.Name+"/"+strconv.Itoa(len(n.Args)), nil)
		}
		return nil, NewError(XPST0017, "unknown function: "+n.Name+"/"+strconv.Itoa(len(n.Args)), nil)
	}
	return impl(n.Args, dctx)
}

