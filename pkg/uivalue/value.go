// Package uivalue implements the UiValue sum type shared by nodes,
// attributes, and the XPath evaluator.
//
// A Value is one of: Null, Bool, Integer, Number, String, Array, Object,
// Point, Size, or Rect. Rect and Point values auto-expand into derived
// alias attributes when surfaced through the evaluator; Size does not —
// see ExpandAliases.
package uivalue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which alternative of the Value union is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindNumber
	KindString
	KindArray
	KindObject
	KindPoint
	KindSize
	KindRect
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	case KindPoint:
		return "Point"
	case KindSize:
		return "Size"
	case KindRect:
		return "Rect"
	default:
		return "Unknown"
	}
}

// Point is a 2D coordinate. X/Y are float64 so providers can report
// sub-pixel or DPI-scaled positions without loss.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect is a position + size rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Value is an immutable tagged union. The zero Value is Null.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	number  float64
	str     string
	array   []Value
	object  map[string]Value
	point   Point
	size    Size
	rect    Rect
}

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Integer wraps a signed integer.
func Integer(i int64) Value { return Value{kind: KindInteger, integer: i} }

// Number wraps a floating point number.
func Number(f float64) Value { return Value{kind: KindNumber, number: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array wraps an ordered list of values.
func Array(items ...Value) Value { return Value{kind: KindArray, array: items} }

// Object wraps a string-keyed map of values.
func Object(fields map[string]Value) Value { return Value{kind: KindObject, object: fields} }

// FromPoint wraps a Point.
func FromPoint(p Point) Value { return Value{kind: KindPoint, point: p} }

// FromSize wraps a Size.
func FromSize(s Size) Value { return Value{kind: KindSize, size: s} }

// FromRect wraps a Rect.
func FromRect(r Rect) Value { return Value{kind: KindRect, rect: r} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)       { return v.boolean, v.kind == KindBool }
func (v Value) AsInteger() (int64, bool)   { return v.integer, v.kind == KindInteger }
func (v Value) AsNumber() (float64, bool)  { return v.number, v.kind == KindNumber }
func (v Value) AsString() (string, bool)   { return v.str, v.kind == KindString }
func (v Value) AsArray() ([]Value, bool)   { return v.array, v.kind == KindArray }
func (v Value) AsObject() (map[string]Value, bool) { return v.object, v.kind == KindObject }
func (v Value) AsPoint() (Point, bool)      { return v.point, v.kind == KindPoint }
func (v Value) AsSize() (Size, bool)        { return v.size, v.kind == KindSize }
func (v Value) AsRect() (Rect, bool)        { return v.rect, v.kind == KindRect }

// NumericValue returns the value as a float64 for arithmetic purposes,
// accepting both Integer and Number kinds.
func (v Value) NumericValue() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.integer), true
	case KindNumber:
		return v.number, true
	default:
		return 0, false
	}
}

// EffectiveBoolean computes the XPath effective boolean value of a single
// atomic item (singleton-sequence EBV rules for booleans, numbers and
// strings; see spec.md §4.3's predicate truthiness rules).
func (v Value) EffectiveBoolean() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.boolean
	case KindInteger:
		return v.integer != 0
	case KindNumber:
		return v.number != 0 && !isNaN(v.number)
	case KindString:
		return v.str != ""
	case KindArray:
		return len(v.array) > 0
	default:
		return true
	}
}

func isNaN(f float64) bool { return f != f }

// StringForm renders the evaluator's textual form of a value: structural
// kinds serialize as JSON, numbers are trimmed of trailing zeros, and Null
// renders as the empty string (spec.md §4.1).
func (v Value) StringForm() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindNumber:
		return trimTrailingZeros(v.number)
	case KindString:
		return v.str
	case KindPoint:
		return fmt.Sprintf(`{"x":%s,"y":%s}`, trimTrailingZeros(v.point.X), trimTrailingZeros(v.point.Y))
	case KindSize:
		return fmt.Sprintf(`{"width":%s,"height":%s}`, trimTrailingZeros(v.size.Width), trimTrailingZeros(v.size.Height))
	case KindRect:
		return fmt.Sprintf(`{"x":%s,"y":%s,"width":%s,"height":%s}`,
			trimTrailingZeros(v.rect.X), trimTrailingZeros(v.rect.Y),
			trimTrailingZeros(v.rect.Width), trimTrailingZeros(v.rect.Height))
	case KindArray:
		parts := make([]string, len(v.array))
		for i, item := range v.array {
			parts[i] = item.StringForm()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindObject:
		keys := make([]string, 0, len(v.object))
		for k := range v.object {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q:%s", k, v.object[k].StringForm())
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return ""
	}
}

func trimTrailingZeros(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}

// Alias is a derived attribute name + value produced by ExpandAliases.
type Alias struct {
	Name  string
	Value Value
}

// ExpandAliases returns the derived alias attributes implied by a
// structural value, per spec.md §3/§8: Rect values expand to X/Y/Width/
// Height, Point values expand to X/Y. Non-structural values expand to
// nothing.
func ExpandAliases(v Value) []Alias {
	switch v.kind {
	case KindRect:
		return []Alias{
			{"X", Number(v.rect.X)},
			{"Y", Number(v.rect.Y)},
			{"Width", Number(v.rect.Width)},
			{"Height", Number(v.rect.Height)},
		}
	case KindPoint:
		return []Alias{
			{"X", Number(v.point.X)},
			{"Y", Number(v.point.Y)},
		}
	default:
		return nil
	}
}

// Equal reports whether two values are structurally equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindInteger:
		return a.integer == b.integer
	case KindNumber:
		return a.number == b.number
	case KindString:
		return a.str == b.str
	case KindPoint:
		return a.point == b.point
	case KindSize:
		return a.size == b.size
	case KindRect:
		return a.rect == b.rect
	case KindArray:
		if len(a.array) != len(b.array) {
			return false
		}
		for i := range a.array {
			if !Equal(a.array[i], b.array[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.object) != len(b.object) {
			return false
		}
		for k, av := range a.object {
			bv, ok := b.object[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
