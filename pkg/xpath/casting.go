package xpath

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/d-biehl/platynui/pkg/uivalue"
)

// evalCastExpr dispatches the four forms sharing CastExpr's grammar slot:
// cast as, castable as, treat as, and instance of (spec.md §4.2).
func evalCastExpr(n *CastExpr, dctx *DynamicContext) (SequenceCursor, error) {
	switch n.Kind {
	case "cast":
		return evalCast(n, dctx)
	case "castable":
		return evalCastable(n, dctx)
	case "treat":
		return evalTreat(n, dctx)
	case "instance":
		return evalInstanceOf(n, dctx)
	}
	return nil, NewError(NYI0000, "unsupported type expression kind: "+n.Kind, nil)
}

func evalCast(n *CastExpr, dctx *DynamicContext) (SequenceCursor, error) {
	v, ok, err := evalSingletonAtomicOrEmpty(n.Operand, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		if n.Optional {
			return NewSliceCursor(nil), nil
		}
		return nil, NewError(FORG0001, "cannot cast an empty sequence to a required type", nil)
	}
	casted, err := castTo(v, n.Type)
	if err != nil {
		return nil, err
	}
	return NewSliceCursor([]Item{AtomicItem(casted)}), nil
}

func evalCastable(n *CastExpr, dctx *DynamicContext) (SequenceCursor, error) {
	v, ok, err := evalSingletonAtomicOrEmpty(n.Operand, dctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return boolCursor(n.Optional), nil
	}
	_, castErr := castTo(v, n.Type)
	return boolCursor(castErr == nil), nil
}

func evalTreat(n *CastExpr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(n.Operand, dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	if !n.Optional && len(items) == 0 {
		return nil, NewError(XPTY0004, "treat as: empty sequence does not match required type "+n.Type, nil)
	}
	for _, it := range items {
		if !matchesSequenceType(it, n.Type) {
			return nil, NewError(XPTY0004, "treat as: item does not match required type "+n.Type, nil)
		}
	}
	return NewSliceCursor(items), nil
}

func evalInstanceOf(n *CastExpr, dctx *DynamicContext) (SequenceCursor, error) {
	c, err := evalExpr(n.Operand, dctx)
	if err != nil {
		return nil, err
	}
	items, err := Drain(c, dctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return boolCursor(n.Optional), nil
	}
	ok := true
	for _, it := range items {
		if !matchesSequenceType(it, n.Type) {
			ok = false
			break
		}
	}
	return boolCursor(ok), nil
}

// matchesSequenceType checks an item against the simplified SequenceType
// grammar this engine accepts (spec.md §4.2 scope note): the XDM kind
// tests, or an xs: atomic type name checked via a trial cast.
func matchesSequenceType(it Item, typeName string) bool {
	base := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(typeName, "?"), "*"), "+")
	switch base {
	case "item()", "":
		return true
	case "node()":
		return it.Kind == ItemKindNode || it.Kind == ItemKindAttribute
	case "element()":
		return it.Kind == ItemKindNode
	case "attribute()":
		return it.Kind == ItemKindAttribute
	}
	if it.Kind != ItemKindAtomic {
		return false
	}
	_, err := castTo(it.Atomic, base)
	return err == nil
}

// castTo implements the subset of XSD 1.0 casting this engine supports
// (spec.md §4.2): exact arithmetic casts for string/boolean/integer/
// double/decimal, and lexical-validation-only casts (producing an
// xs:string-typed value) for the remaining named types.
func castTo(v uivalue.Value, typeName string) (uivalue.Value, error) {
	_, local := splitQName(typeName)
	switch local {
	case "string":
		return uivalue.String(v.StringForm()), nil
	case "boolean":
		return castToBoolean(v)
	case "integer", "int", "long", "short", "byte",
		"nonNegativeInteger", "positiveInteger", "negativeInteger", "nonPositiveInteger":
		return castToInteger(v)
	case "double", "float":
		return castToDouble(v)
	case "decimal":
		// This engine's value lattice has no distinct decimal
		// representation (see DESIGN.md): xs:decimal casts share
		// xs:double's Number representation.
		return castToDouble(v)
	}
	if _, ok := lexicalPatterns[local]; ok {
		return castToLexical(v, local)
	}
	return uivalue.Null(), NewError(FORG0001, "unsupported cast target type: "+typeName, nil)
}

func castToBoolean(v uivalue.Value) (uivalue.Value, error) {
	switch v.Kind() {
	case uivalue.KindBool:
		b, _ := v.AsBool()
		return uivalue.Bool(b), nil
	case uivalue.KindInteger, uivalue.KindNumber:
		f, _ := v.NumericValue()
		return uivalue.Bool(f != 0), nil
	case uivalue.KindString:
		s, _ := v.AsString()
		switch strings.TrimSpace(s) {
		case "true", "1":
			return uivalue.Bool(true), nil
		case "false", "0":
			return uivalue.Bool(false), nil
		}
		return uivalue.Null(), NewError(FORG0001, "invalid xs:boolean lexical value: "+s, nil)
	}
	return uivalue.Null(), NewError(FORG0001, "cannot cast to xs:boolean", nil)
}

func castToInteger(v uivalue.Value) (uivalue.Value, error) {
	switch v.Kind() {
	case uivalue.KindInteger:
		i, _ := v.AsInteger()
		return uivalue.Integer(i), nil
	case uivalue.KindNumber:
		f, _ := v.AsNumber()
		return uivalue.Integer(int64(f)), nil
	case uivalue.KindBool:
		b, _ := v.AsBool()
		if b {
			return uivalue.Integer(1), nil
		}
		return uivalue.Integer(0), nil
	case uivalue.KindString:
		s, _ := v.AsString()
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return uivalue.Null(), NewError(FORG0001, "invalid xs:integer lexical value: "+s, nil)
		}
		return uivalue.Integer(i), nil
	}
	return uivalue.Null(), NewError(FORG0001, "cannot cast to xs:integer", nil)
}

func castToDouble(v uivalue.Value) (uivalue.Value, error) {
	if f, ok := v.NumericValue(); ok {
		return uivalue.Number(f), nil
	}
	if b, ok := v.AsBool(); ok {
		if b {
			return uivalue.Number(1), nil
		}
		return uivalue.Number(0), nil
	}
	if s, ok := v.AsString(); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return uivalue.Null(), NewError(FORG0001, "invalid xs:double lexical value: "+s, nil)
		}
		return uivalue.Number(f), nil
	}
	return uivalue.Null(), NewError(FORG0001, "cannot cast to xs:double", nil)
}

// lexicalPatterns covers the remaining named XSD types this engine
// recognizes by lexical validation only (spec.md §4.2 scope note): a
// successful cast produces an xs:string-typed value, since this engine's
// value lattice carries no distinct representation for them.
var lexicalPatterns = map[string]*regexp.Regexp{
	"anyURI":           regexp.MustCompile(`^\S*$`),
	"token":            regexp.MustCompile(`^$|^\S(.*\S)?$`),
	"normalizedString": regexp.MustCompile(`^[^\t\n\r]*$`),
	"language":         regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`),
	"NCName":           regexp.MustCompile(`^[A-Za-z_][\w.-]*$`),
	"ID":               regexp.MustCompile(`^[A-Za-z_][\w.-]*$`),
	"IDREF":            regexp.MustCompile(`^[A-Za-z_][\w.-]*$`),
	"ENTITY":           regexp.MustCompile(`^[A-Za-z_][\w.-]*$`),
	"Name":             regexp.MustCompile(`^[A-Za-z_:][\w.:-]*$`),
	"NMTOKEN":          regexp.MustCompile(`^[\w.:-]+$`),
	"QName":            regexp.MustCompile(`^([A-Za-z_][\w.-]*:)?[A-Za-z_][\w.-]*$`),
	"NOTATION":         regexp.MustCompile(`^([A-Za-z_][\w.-]*:)?[A-Za-z_][\w.-]*$`),
	"date":             regexp.MustCompile(`^-?\d{4}-\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`),
	"dateTime":         regexp.MustCompile(`^-?\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`),
	"time":             regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`),
	"duration":         regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`),
	"gYear":            regexp.MustCompile(`^-?\d{4}(Z|[+-]\d{2}:\d{2})?$`),
	"gYearMonth":       regexp.MustCompile(`^-?\d{4}-\d{2}(Z|[+-]\d{2}:\d{2})?$`),
	"gMonth":           regexp.MustCompile(`^--\d{2}(Z|[+-]\d{2}:\d{2})?$`),
	"gMonthDay":        regexp.MustCompile(`^--\d{2}-\d{2}(Z|[+-]\d{2}:\d{2})?$`),
	"gDay":             regexp.MustCompile(`^---\d{2}(Z|[+-]\d{2}:\d{2})?$`),
	"hexBinary":        regexp.MustCompile(`^([0-9A-Fa-f]{2})*$`),
	"base64Binary":     regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`),
}

func castToLexical(v uivalue.Value, local string) (uivalue.Value, error) {
	s := v.StringForm()
	if !lexicalPatterns[local].MatchString(s) {
		return uivalue.Null(), NewError(FORG0001, "invalid xs:"+local+" lexical value: "+s, nil)
	}
	return uivalue.String(s), nil
}
