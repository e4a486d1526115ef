package xpath

import (
	"math"
	"strings"

	"github.com/d-biehl/platynui/pkg/uivalue"
)

// evalBinary dispatches a BinaryExpr by its compiled operator tag: logical
// and/or (short-circuiting), 'to' ranges, node-set operations, general and
// value comparisons, and arithmetic (spec.md §4.2/§4.3).
func evalBinary(n *BinaryExpr, dctx *DynamicContext) (SequenceCursor, error) {
	switch n.Op {
	case "and":
		return evalLogical(n, dctx, true)
	case "or":
		return evalLogical(n, dctx, false)
	case "to":
		return evalRange(n, dctx)
	case "union", "intersect", "except":
		return evalNodeSetOp(n, dctx)
	}
	if strings.HasPrefix(n.Op, "general:") {
		return evalGeneralComparison(n, dctx)
	}
	if strings.HasPrefix(n.Op, "value:") {
		return evalValueComparison(n, dctx)
	}
	return evalArithmetic(n, dctx)
}

func boolCursor(b bool) SequenceCursor {
	return NewSliceCursor([]Item{AtomicItem(uivalue.Bool(b))})
}

func evalLogical(n *BinaryExpr, dctx *DynamicContext, isAnd bool) (SequenceCursor, error) {
	leftC, err := evalExpr(n.Left, dctx)
	if err != nil {
		return nil, err
	}
	leftItems, err := Drain(leftC, dctx)
	if err != nil {
		return nil, err
	}
	leftTruthy, err := sequenceEBV(leftItems)
	if err != nil {
		return nil, err
	}
	if isAnd && !leftTruthy {
		return boolCursor(false), nil
	}
	if !isAnd && leftTruthy {
		return boolCursor(true), nil
	}
	rightC, err := evalExpr(n.Right, dctx)
	if err != nil {
		return nil, err
	}
	rightItems, err := Drain(rightC, dctx)
	if err != nil {
		return nil, err
	}
	rightTruthy, err := sequenceEBV(rightItems)
	if err != nil {
		return nil, err
	}
	return boolCursor(rightTruthy), nil
}

// evalSingletonAtomicOrEmpty evaluates e and atomizes it, reporting
// hasValue=false when the sequence was empty rather than an error: callers
// propagate that as an empty-sequence result per XPath arithmetic/
// comparison semantics.
func evalSingletonAtomicOrEmpty(e Expr, dctx *DynamicContext) (uivalue.Value, bool, error) {
	c, err := evalExpr(e, dctx)
	if err != nil {
		return uivalue.Null(), false, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return uivalue.Null(), false, err
	}
	if len(items) == 0 {
		return uivalue.Null(), false, nil
	}
	if len(items) != 1 {
		return uivalue.Null(), false, NewError(FORG0005, "expected a single atomic value", nil)
	}
	return items[0].AtomizedValue(), true, nil
}

func evalRange(n *BinaryExpr, dctx *DynamicContext) (SequenceCursor, error) {
	lv, ok, err := evalSingletonAtomicOrEmpty(n.Left, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	rv, ok, err := evalSingletonAtomicOrEmpty(n.Right, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	lf, lok := lv.NumericValue()
	rf, rok := rv.NumericValue()
	if !lok || !rok {
		return nil, NewError(XPTY0004, "'to' operands must be numeric", nil)
	}
	lo, hi := int64(lf), int64(rf)
	var items []Item
	for i := lo; i <= hi; i++ {
		items = append(items, AtomicItem(uivalue.Integer(i)))
	}
	return NewSliceCursor(items), nil
}

func evalArithmetic(n *BinaryExpr, dctx *DynamicContext) (SequenceCursor, error) {
	lv, ok, err := evalSingletonAtomicOrEmpty(n.Left, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	rv, ok, err := evalSingletonAtomicOrEmpty(n.Right, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	lf, lok := lv.NumericValue()
	rf, rok := rv.NumericValue()
	if !lok || !rok {
		return nil, NewError(XPTY0004, "arithmetic operator requires numeric operands", nil)
	}
	bothInteger := lv.Kind() == uivalue.KindInteger && rv.Kind() == uivalue.KindInteger

	switch n.Op {
	case "+":
		return NewSliceCursor([]Item{AtomicItem(numericValue(lf+rf, bothInteger))}), nil
	case "-":
		return NewSliceCursor([]Item{AtomicItem(numericValue(lf-rf, bothInteger))}), nil
	case "*":
		return NewSliceCursor([]Item{AtomicItem(numericValue(lf*rf, bothInteger))}), nil
	case "div":
		if rf == 0 && bothInteger {
			return nil, NewError(FOAR0001, "division by zero", nil)
		}
		return NewSliceCursor([]Item{AtomicItem(uivalue.Number(lf / rf))}), nil
	case "idiv":
		if rf == 0 {
			return nil, NewError(FOAR0001, "division by zero", nil)
		}
		return NewSliceCursor([]Item{AtomicItem(uivalue.Integer(int64(math.Floor(lf / rf))))}), nil
	case "mod":
		if rf == 0 && bothInteger {
			return nil, NewError(FOAR0001, "division by zero", nil)
		}
		return NewSliceCursor([]Item{AtomicItem(numericValue(math.Mod(lf, rf), bothInteger))}), nil
	}
	return nil, NewError(NYI0000, "unsupported arithmetic operator "+n.Op, nil)
}

func numericValue(f float64, asInteger bool) uivalue.Value {
	if asInteger {
		return uivalue.Integer(int64(f))
	}
	return uivalue.Number(f)
}

func evalGeneralComparison(n *BinaryExpr, dctx *DynamicContext) (SequenceCursor, error) {
	op := strings.TrimPrefix(n.Op, "general:")
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
	for _, l := range leftItems {
		for _, r := range rightItems {
			ok, err := compareAtomic(op, l.AtomizedValue(), r.AtomizedValue())
			if err != nil {
				return nil, err
			}
			if ok {
				return boolCursor(true), nil
			}
		}
	}
	return boolCursor(false), nil
}

func evalValueComparison(n *BinaryExpr, dctx *DynamicContext) (SequenceCursor, error) {
	op := strings.TrimPrefix(n.Op, "value:")
	lv, ok, err := evalSingletonAtomicOrEmpty(n.Left, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	rv, ok, err := evalSingletonAtomicOrEmpty(n.Right, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	res, err := compareAtomic(op, lv, rv)
	if err != nil {
		return nil, err
	}
	return boolCursor(res), nil
}

// compareAtomic implements the cross-type comparison rule this engine uses
// for both general (=, !=, <, <=, >, >=) and value (eq, ne, lt, le, gt, ge)
// comparisons: numeric if both sides are numeric, boolean if both sides are
// boolean, else lexical string comparison of each side's string form.
func compareAtomic(op string, l, r uivalue.Value) (bool, error) {
	if lf, lok := l.NumericValue(); lok {
		if rf, rok := r.NumericValue(); rok {
			return compareOrdered(op, cmpFloat(lf, rf))
		}
	}
	if lb, lok := l.AsBool(); lok {
		if rb, rok := r.AsBool(); rok {
			return compareOrdered(op, cmpBool(lb, rb))
		}
	}
	return compareOrdered(op, strings.Compare(l.StringForm(), r.StringForm()))
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a && b:
		return -1
	default:
		return 1
	}
}

func compareOrdered(op string, c int) (bool, error) {
	switch op {
	case "=", "eq":
		return c == 0, nil
	case "!=", "ne":
		return c != 0, nil
	case "<", "lt":
		return c < 0, nil
	case "<=", "le":
		return c <= 0, nil
	case ">", "gt":
		return c > 0, nil
	case ">=", "ge":
		return c >= 0, nil
	}
	return false, NewError(NYI0000, "unsupported comparison operator "+op, nil)
}

// evalNodeSetOp implements union/intersect/except over node and attribute
// items, de-duplicating by identity and re-establishing document order
// (spec.md §4.2 "set operations").
func evalNodeSetOp(n *BinaryExpr, dctx *DynamicContext) (SequenceCursor, error) {
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
	for _, it := range leftItems {
		if it.Kind == ItemKindAtomic {
			return nil, NewError(XPTY0004, "set operation requires node operands", nil)
		}
	}
	for _, it := range rightItems {
		if it.Kind == ItemKindAtomic {
			return nil, NewError(XPTY0004, "set operation requires node operands", nil)
		}
	}

	rightKeys := make(map[string]bool, len(rightItems))
	for _, it := range rightItems {
		if k, ok := it.identityKey(); ok {
			rightKeys[k] = true
		}
	}

	seen := map[string]bool{}
	var out []Item
	switch n.Op {
	case "union":
		for _, it := range leftItems {
			if k, _ := it.identityKey(); !seen[k] {
				seen[k] = true
				out = append(out, it)
			}
		}
		for _, it := range rightItems {
			if k, _ := it.identityKey(); !seen[k] {
				seen[k] = true
				out = append(out, it)
			}
		}
	case "intersect":
		for _, it := range leftItems {
			k, _ := it.identityKey()
			if rightKeys[k] && !seen[k] {
				seen[k] = true
				out = append(out, it)
			}
		}
	case "except":
		for _, it := range leftItems {
			k, _ := it.identityKey()
			if !rightKeys[k] && !seen[k] {
				seen[k] = true
				out = append(out, it)
			}
		}
	}
	return NewEnsureOrder(NewSliceCursor(out)), nil
}
