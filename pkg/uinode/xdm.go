package uinode

import "github.com/d-biehl/platynui/pkg/uivalue"

// QName is an expanded (namespace URI, local name) pair, the XDM identity
// of an element or attribute name (spec.md §4.1).
type QName struct {
	NamespaceURI string
	Local        string
}

// ElementQName returns the XDM element name for a node: (namespace_uri,
// role).
func ElementQName(n Node) QName {
	return QName{NamespaceURI: NamespaceURI(n.Namespace()), Local: n.Role()}
}

// AttributeQName returns the XDM attribute name for an attribute. Control
// namespace attributes have no namespace URI (no prefix), matching
// spec.md §4.1.
func AttributeQName(a Attribute) QName {
	if a.Namespace() == NamespaceControl {
		return QName{NamespaceURI: "", Local: a.Name()}
	}
	return QName{NamespaceURI: NamespaceURI(a.Namespace()), Local: a.Name()}
}

// ExpandedAttribute is a materialized (QName, Value) pair, including
// synthetic alias attributes derived from structural values.
type ExpandedAttribute struct {
	QName QName
	Value uivalue.Value
	// Derived marks an alias attribute (e.g. Bounds.Width) synthesized by
	// the runtime rather than returned directly by the provider.
	Derived bool
}

// ExpandAttributes enumerates a node's attributes as the evaluator sees
// them: base attributes in provider order, Null-valued attributes
// omitted, and structural (Rect/Point) attributes followed immediately by
// their derived alias attributes in the same namespace (spec.md §4.1,
// §8 "Derived alias consistency").
func ExpandAttributes(n Node) ([]ExpandedAttribute, error) {
	attrs, err := n.Attributes()
	if err != nil {
		return nil, err
	}

	out := make([]ExpandedAttribute, 0, len(attrs))
	for _, a := range attrs {
		val, err := a.Value()
		if err != nil {
			return nil, err
		}
		if val.IsNull() {
			continue
		}
		qn := AttributeQName(a)
		out = append(out, ExpandedAttribute{QName: qn, Value: val})

		for _, alias := range uivalue.ExpandAliases(val) {
			aliasQName := QName{NamespaceURI: qn.NamespaceURI, Local: qn.Local + "." + alias.Name}
			out = append(out, ExpandedAttribute{QName: aliasQName, Value: alias.Value, Derived: true})
		}
	}
	return out, nil
}

// StringValue is the XDM string-value of a node: empty for elements
// (attribute string-values are defined on uivalue.Value.StringForm
// directly, since attributes are atomic-valued in this data model).
func StringValue(Node) string { return "" }
