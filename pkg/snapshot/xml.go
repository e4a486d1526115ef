package snapshot

import (
	"encoding/xml"
	"io"

	"github.com/d-biehl/platynui/pkg/uinode"
)

// XML writes root (and its descendants, subject to Options.MaxDepth) as
// an XML document to w. Elements use the Control namespace as the
// default (unprefixed) namespace, with item/app/native elements prefixed
// (spec.md §4.8, §6: "the snapshot XML writer omits control: prefixes").
// Attribute names are always namespace-prefixed, including control:,
// since an unprefixed XML attribute belongs to no namespace regardless
// of any default declared on its element.
func XML(w io.Writer, root uinode.Node, opts Options) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := xmlRecursive(enc, root, 0, opts, true); err != nil {
		return err
	}
	return enc.Flush()
}

func xmlRecursive(enc *xml.Encoder, n uinode.Node, depth int, opts Options, isRoot bool) error {
	if n == nil || (opts.MaxDepth > 0 && depth >= opts.MaxDepth) {
		return nil
	}

	attrs, err := uinode.ExpandAttributes(n)
	if err != nil {
		return err
	}

	tag := elementTagName(n)
	start := xml.StartElement{Name: xml.Name{Local: tag}}
	if isRoot {
		start.Attr = append(start.Attr, namespaceDeclarations()...)
	}
	if n.Name() != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "name"}, Value: n.Name()})
	}
	if opts.IncludeRuntimeID {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "runtimeId"}, Value: n.RuntimeID()})
	}
	for _, a := range selectAttributes(attrs, opts) {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: qualifiedAttrName(a.QName)}, Value: a.Value.StringForm()})
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	children, err := n.Children()
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := xmlRecursive(enc, child, depth+1, opts, false); err != nil {
			return err
		}
	}

	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: tag}})
}

// namespaceDeclarations is the fixed set of xmlns declarations injected
// on the document's root element only (nested elements inherit them).
func namespaceDeclarations() []xml.Attr {
	return []xml.Attr{
		{Name: xml.Name{Local: "xmlns"}, Value: uinode.NamespaceURI(uinode.NamespaceControl)},
		{Name: xml.Name{Local: "xmlns:control"}, Value: uinode.NamespaceURI(uinode.NamespaceControl)},
		{Name: xml.Name{Local: "xmlns:item"}, Value: uinode.NamespaceURI(uinode.NamespaceItem)},
		{Name: xml.Name{Local: "xmlns:app"}, Value: uinode.NamespaceURI(uinode.NamespaceApp)},
		{Name: xml.Name{Local: "xmlns:native"}, Value: uinode.NamespaceURI(uinode.NamespaceNative)},
	}
}

// elementTagName renders "role" for Control elements (inheriting the
// default namespace) or "prefix:role" otherwise.
func elementTagName(n uinode.Node) string {
	if n.Namespace() == uinode.NamespaceControl {
		return n.Role()
	}
	return uinode.NamespacePrefix(n.Namespace()) + ":" + n.Role()
}
