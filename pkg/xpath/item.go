package xpath

import (
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// ItemKind distinguishes the three shapes an EvaluationItem can take
// (spec.md §3 "EvaluationItem").
type ItemKind int

const (
	ItemKindNode ItemKind = iota
	ItemKindAttribute
	ItemKindAtomic
)

// Item is one member of an XDM sequence as this engine represents it: a
// node, a materialized (possibly derived) attribute, or an atomic value.
type Item struct {
	Kind      ItemKind
	Node      uinode.Node
	Attr      uinode.ExpandedAttribute
	AttrOwner uinode.Node
	Atomic    uivalue.Value
}

// NodeItem wraps a node as a sequence item.
func NodeItem(n uinode.Node) Item { return Item{Kind: ItemKindNode, Node: n} }

// AttributeItem wraps a materialized attribute (base or derived alias)
// as a sequence item.
func AttributeItem(owner uinode.Node, attr uinode.ExpandedAttribute) Item {
	return Item{Kind: ItemKindAttribute, Attr: attr, AttrOwner: owner}
}

// AtomicItem wraps an atomic value as a sequence item.
func AtomicItem(v uivalue.Value) Item { return Item{Kind: ItemKindAtomic, Atomic: v} }

// StringValue is the XDM string-value of an item (spec.md §4.1).
func (it Item) StringValue() string {
	switch it.Kind {
	case ItemKindNode:
		return uinode.StringValue(it.Node)
	case ItemKindAttribute:
		return it.Attr.Value.StringForm()
	default:
		return it.Atomic.StringForm()
	}
}

// AtomizedValue reduces an item to its atomic value (fn:data semantics,
// restricted to this data model: elements atomize to their string value,
// attributes to their typed value).
func (it Item) AtomizedValue() uivalue.Value {
	switch it.Kind {
	case ItemKindNode:
		return uivalue.String(uinode.StringValue(it.Node))
	case ItemKindAttribute:
		return it.Attr.Value
	default:
		return it.Atomic
	}
}

// docOrderKey returns a best-effort document-order sort key and whether
// one could be determined.
func (it Item) docOrderKey() (uint64, bool) {
	switch it.Kind {
	case ItemKindNode:
		return it.Node.DocOrderKey()
	case ItemKindAttribute:
		return it.AttrOwner.DocOrderKey()
	default:
		return 0, false
	}
}

// identityKey returns a key usable for distinctness/equality of node and
// attribute items (runtime id based); atomic items have no stable
// identity key.
func (it Item) identityKey() (string, bool) {
	switch it.Kind {
	case ItemKindNode:
		return "n:" + it.Node.RuntimeID(), true
	case ItemKindAttribute:
		return "a:" + it.AttrOwner.RuntimeID() + ":" + it.Attr.QName.NamespaceURI + "|" + it.Attr.QName.Local, true
	default:
		return "", false
	}
}
