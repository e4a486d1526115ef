package xpath

import (
	"math"
	"strings"

	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// functionImpl is a registered function's evaluator: it receives the
// unevaluated argument expressions (so it controls its own evaluation
// order/context) and the call-site dynamic context.
type functionImpl func(args []Expr, dctx *DynamicContext) (SequenceCursor, error)

type functionEntry struct {
	minArity int
	maxArity int // -1 means unbounded
	impl     functionImpl
}

// functionRegistry holds the core function library this engine supports
// (spec.md §4.2 "function calls" / §6 grammar). Arity mismatches raise
// XPST0017 distinctly from an unknown function name. It is filled in
// init() because the function bodies reach back to it through evalExpr.
var functionRegistry map[string]functionEntry

func init() {
	functionRegistry = map[string]functionEntry{
	"position":     {0, 0, fnPosition},
	"last":         {0, 0, fnLast},
	"name":         {0, 1, fnName},
	"local-name":   {0, 1, fnLocalName},
	"string":       {0, 1, fnString},
	"number":       {0, 1, fnNumber},
	"boolean":      {1, 1, fnBoolean},
	"not":          {1, 1, fnNot},
	"count":        {1, 1, fnCount},
	"concat":       {2, -1, fnConcat},
	"string-length": {0, 1, fnStringLength},
	"contains":     {2, 2, fnContains},
	"starts-with":  {2, 2, fnStartsWith},
	"ends-with":    {2, 2, fnEndsWith},
	"substring":    {2, 3, fnSubstring},
	"true":         {0, 0, fnTrue},
	"false":        {0, 0, fnFalse},
	"exists":       {1, 1, fnExists},
	"empty":        {1, 1, fnEmpty},
	"string-join":  {2, 2, fnStringJoin},
	"reverse":      {1, 1, fnReverse},
	"abs":          {1, 1, fnAbs},
	"floor":        {1, 1, fnFloor},
	"ceiling":      {1, 1, fnCeiling},
	"round":        {1, 1, fnRound},
	}
}

func lookupFunction(name string, arity int) (functionImpl, bool) {
	entry, ok := functionRegistry[name]
	if !ok {
		return nil, false
	}
	if arity < entry.minArity || (entry.maxArity >= 0 && arity > entry.maxArity) {
		return nil, false
	}
	return entry.impl, true
}

func contextOrArgItem(args []Expr, dctx *DynamicContext) (Item, bool, error) {
	if len(args) == 0 {
		if !dctx.HasContext {
			return Item{}, false, NewError(XPDY0002, "context item is undefined", nil)
		}
		return dctx.ContextItem, true, nil
	}
	c, err := evalExpr(args[0], dctx)
	if err != nil {
		return Item{}, false, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return Item{}, false, err
	}
	if len(items) == 0 {
		return Item{}, false, nil
	}
	if len(items) != 1 {
		return Item{}, false, NewError(FORG0005, "expected a singleton sequence", nil)
	}
	return items[0], true, nil
}

func singleArgValue(args []Expr, dctx *DynamicContext) (uivalue.Value, bool, error) {
	it, ok, err := contextOrArgItem(args, dctx)
	if err != nil || !ok {
		return uivalue.Null(), ok, err
	}
	return it.AtomizedValue(), true, nil
}

func itemQName(it Item) (uinode.QName, bool) {
	switch it.Kind {
	case ItemKindNode:
		return uinode.ElementQName(it.Node), true
	case ItemKindAttribute:
		return it.Attr.QName, true
	default:
		return uinode.QName{}, false
	}
}

func fnPosition(_ []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	if !dctx.HasLast {
		return nil, NewError(XPDY0002, "position() used outside a predicate/path context", nil)
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Integer(int64(dctx.Position)))}), nil
}

func fnLast(_ []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	if !dctx.HasLast {
		return nil, NewError(XPDY0002, "last() used outside a predicate/path context", nil)
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Integer(int64(dctx.Last)))}), nil
}

func fnName(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	it, ok, err := contextOrArgItem(args, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor([]Item{AtomicItem(uivalue.String(""))}), nil
	}
	qn, ok := itemQName(it)
	if !ok {
		return NewSliceCursor([]Item{AtomicItem(uivalue.String(""))}), nil
	}
	name := qn.Local
	if qn.NamespaceURI != "" && qn.NamespaceURI != dctx.Static.DefaultElementNamespace {
		if prefix, ok := reversePrefix(dctx.Static, qn.NamespaceURI); ok {
			name = prefix + ":" + qn.Local
		}
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.String(name))}), nil
}

func fnLocalName(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	it, ok, err := contextOrArgItem(args, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor([]Item{AtomicItem(uivalue.String(""))}), nil
	}
	qn, ok := itemQName(it)
	if !ok {
		return NewSliceCursor([]Item{AtomicItem(uivalue.String(""))}), nil
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.String(qn.Local))}), nil
}

func reversePrefix(sc *StaticContext, uri string) (string, bool) {
	for prefix, boundURI := range sc.Namespaces {
		if boundURI == uri {
			return prefix, true
		}
	}
	return "", false
}

func fnString(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	it, ok, err := contextOrArgItem(args, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor([]Item{AtomicItem(uivalue.String(""))}), nil
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.String(it.StringValue()))}), nil
}

func fnNumber(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	v, ok, err := singleArgValue(args, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor([]Item{AtomicItem(uivalue.Number(math.NaN()))}), nil
	}
	if f, ok := v.NumericValue(); ok {
		return NewSliceCursor([]Item{AtomicItem(uivalue.Number(f))}), nil
	}
	casted, err := castToDouble(v)
	if err != nil {
		return NewSliceCursor([]Item{AtomicItem(uivalue.Number(math.NaN()))}), nil
	}
	return NewSliceCursor([]Item{AtomicItem(casted)}), nil
}

func fnBoolean(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(args[0], dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	truthy, err := sequenceEBV(items)
	if err != nil {
		return nil, err
	}
	return boolCursor(truthy), nil
}

func fnNot(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(args[0], dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	truthy, err := sequenceEBV(items)
	if err != nil {
		return nil, err
	}
	return boolCursor(!truthy), nil
}

func fnCount(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(args[0], dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Integer(int64(len(items))))}), nil
}

func fnConcat(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	var b strings.Builder
	for _, a := range args {
		it, ok, err := contextOrArgItemFromExpr(a, dctx)
		if err != nil {
			return nil, err
		}
		if ok {
			b.WriteString(it.StringValue())
		}
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.String(b.String()))}), nil
}

// contextOrArgItemFromExpr atomizes a single argument expression's
// sequence to its (at most one) item, used by functions that accept
// arbitrary singleton-or-empty argument expressions directly rather than
// through contextOrArgItem's context-item-fallback convention.
func contextOrArgItemFromExpr(e Expr, dctx *DynamicContext) (Item, bool, error) {
	c, err := evalExpr(e, dctx)
	if err != nil {
		return Item{}, false, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return Item{}, false, err
	}
	if len(items) == 0 {
		return Item{}, false, nil
	}
	if len(items) != 1 {
		return Item{}, false, NewError(FORG0005, "expected a singleton sequence", nil)
	}
	return items[0], true, nil
}

func fnStringLength(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	it, ok, err := contextOrArgItem(args, dctx)
	if err != nil {
		return nil, err
	}
	s := ""
	if ok {
		s = it.StringValue()
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Integer(int64(len([]rune(s)))))}), nil
}

func twoStringArgs(args []Expr, dctx *DynamicContext) (string, string, error) {
	a, _, err := contextOrArgItemFromExpr(args[0], dctx)
	if err != nil {
		return "", "", err
	}
	b, _, err := contextOrArgItemFromExpr(args[1], dctx)
	if err != nil {
		return "", "", err
	}
	return a.StringValue(), b.StringValue(), nil
}

func fnContains(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	a, b, err := twoStringArgs(args, dctx)
	if err != nil {
		return nil, err
	}
	return boolCursor(strings.Contains(a, b)), nil
}

func fnStartsWith(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	a, b, err := twoStringArgs(args, dctx)
	if err != nil {
		return nil, err
	}
	return boolCursor(strings.HasPrefix(a, b)), nil
}

func fnEndsWith(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	a, b, err := twoStringArgs(args, dctx)
	if err != nil {
		return nil, err
	}
	return boolCursor(strings.HasSuffix(a, b)), nil
}

func fnSubstring(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	srcItem, _, err := contextOrArgItemFromExpr(args[0], dctx)
	if err != nil {
		return nil, err
	}
	startV, ok, err := evalSingletonAtomicOrEmpty(args[1], dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor([]Item{AtomicItem(uivalue.String(""))}), nil
	}
	startF, ok := startV.NumericValue()
	if !ok {
		return nil, NewError(XPTY0004, "substring() start argument must be numeric", nil)
	}

	runes := []rune(srcItem.StringValue())
	length := float64(len(runes) + 1)
	if len(args) == 3 {
		lenV, ok, err := evalSingletonAtomicOrEmpty(args[2], dctx)
		if err != nil {
			return nil, err
		}
		if ok {
			if lf, ok := lenV.NumericValue(); ok {
				length = lf
			}
		}
	}

	startIdx := int(math.Round(startF))
	endIdx := startIdx + int(math.Round(length)) - 1
	lo := startIdx - 1
	if lo < 0 {
		lo = 0
	}
	hi := endIdx
	if hi > len(runes) {
		hi = len(runes)
	}
	if lo >= hi || lo >= len(runes) {
		return NewSliceCursor([]Item{AtomicItem(uivalue.String(""))}), nil
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.String(string(runes[lo:hi])))}), nil
}

func fnTrue(_ []Expr, _ *DynamicContext) (SequenceCursor, error)  { return boolCursor(true), nil }
func fnFalse(_ []Expr, _ *DynamicContext) (SequenceCursor, error) { return boolCursor(false), nil }

func fnExists(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(args[0], dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	return boolCursor(len(items) > 0), nil
}

func fnEmpty(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(args[0], dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	return boolCursor(len(items) == 0), nil
}

func fnStringJoin(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(args[0], dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	sepItem, _, err := contextOrArgItemFromExpr(args[1], dctx)
	if err != nil {
		return nil, err
	}
	sep := sepItem.StringValue()
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.StringValue()
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.String(strings.Join(parts, sep)))}), nil
}

func fnReverse(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(args[0], dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return NewSliceCursor(out), nil
}

func oneNumericArg(args []Expr, dctx *DynamicContext) (float64, bool, error) {
	v, ok, err := evalSingletonAtomicOrEmpty(args[0], dctx)
	if err != nil || !ok {
		return 0, ok, err
	}
	f, numOk := v.NumericValue()
	if !numOk {
		return 0, false, NewError(XPTY0004, "numeric argument required", nil)
	}
	return f, true, nil
}

func fnAbs(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	f, ok, err := oneNumericArg(args, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Number(math.Abs(f)))}), nil
}

func fnFloor(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	f, ok, err := oneNumericArg(args, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Number(math.Floor(f)))}), nil
}

func fnCeiling(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	f, ok, err := oneNumericArg(args, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Number(math.Ceil(f)))}), nil
}

func fnRound(args []Expr, dctx *DynamicContext) (SequenceCursor, error) {
	f, ok, err := oneNumericArg(args, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewSliceCursor(nil), nil
	}
	return NewSliceCursor([]Item{AtomicItem(uivalue.Number(math.Floor(f + 0.5)))}), nil
}
