// Package snapshot serializes a node sub-tree to text or XML and exposes
// the highlight helper the CLI's "snapshot" command drives (spec.md §4.8
// "Snapshot export", component C11). It is peripheral to the core
// evaluation/input engines: nothing in pkg/xpath, pkg/runtime, pkg/pointer
// or pkg/keyboard depends on it.
package snapshot

import (
	"path/filepath"

	"github.com/d-biehl/platynui/pkg/uinode"
)

// AttributeMode selects which attributes a tree dump includes
// (spec.md §4.8).
type AttributeMode int

const (
	// AttributesAll includes every attribute (plus derived aliases
	// unless ExcludeDerived is set).
	AttributesAll AttributeMode = iota
	// AttributesDefault includes only {Name, Id}.
	AttributesDefault
	// AttributesList includes only attributes matching Options.Include,
	// minus any matching Options.Exclude.
	AttributesList
)

// Options controls a tree dump's shape (spec.md §4.8 CLI surface:
// --attrs, --include, --exclude, --exclude-derived, --max-depth,
// --include-runtime-id).
type Options struct {
	AttributeMode AttributeMode
	Include       []string
	Exclude       []string
	ExcludeDerived bool
	MaxDepth       int // 0 means unlimited
	IncludeRuntimeID bool
}

// DefaultOptions returns the CLI's default dump shape: {Name, Id}
// attributes, unlimited depth, derived aliases shown, no runtime id.
func DefaultOptions() Options {
	return Options{AttributeMode: AttributesDefault}
}

// derivedSuffixedNames are the alias-attribute local-name suffixes suppressed
// by ExcludeDerived (spec.md §4.8: "suppresses Bounds.X/Y/Width/Height
// and ActivationPoint.X/Y").
var derivedSuffixedNames = map[string]bool{
	"Bounds.X": true, "Bounds.Y": true, "Bounds.Width": true, "Bounds.Height": true,
	"ActivationPoint.X": true, "ActivationPoint.Y": true,
}

func wildcardMatch(pattern, name string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if wildcardMatch(p, name) {
			return true
		}
	}
	return false
}

// selectAttributes reduces a node's expanded attributes to the set an
// Options dump should show.
func selectAttributes(attrs []uinode.ExpandedAttribute, opts Options) []uinode.ExpandedAttribute {
	out := make([]uinode.ExpandedAttribute, 0, len(attrs))
	for _, a := range attrs {
		if opts.ExcludeDerived && a.Derived && derivedSuffixedNames[a.QName.Local] {
			continue
		}
		switch opts.AttributeMode {
		case AttributesDefault:
			if a.QName.Local != "Name" && a.QName.Local != "Id" {
				continue
			}
		case AttributesList:
			if len(opts.Include) > 0 && !matchesAny(opts.Include, a.QName.Local) {
				continue
			}
			if matchesAny(opts.Exclude, a.QName.Local) {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// qualifiedAttrName always includes the namespace prefix, control
// included: an attribute has no namespace in XML unless explicitly
// prefixed, regardless of any default namespace declared on its element
// (spec.md §4.8; both the text and XML forms list every attribute
// qname-prefixed, per the reference snapshot command's `qname =
// "{ns}:{name}"` formatting, control namespace included).
func qualifiedAttrName(qn uinode.QName) string {
	if qn.NamespaceURI == "" {
		return uinode.NamespacePrefix(uinode.NamespaceControl) + ":" + qn.Local
	}
	for _, ns := range []uinode.Namespace{uinode.NamespaceItem, uinode.NamespaceApp, uinode.NamespaceNative} {
		if uinode.NamespaceURI(ns) == qn.NamespaceURI {
			return uinode.NamespacePrefix(ns) + ":" + qn.Local
		}
	}
	return qn.Local
}

// idAttribute returns a node's "Id" attribute string value, if present.
func idAttribute(attrs []uinode.ExpandedAttribute) (string, bool) {
	for _, a := range attrs {
		if a.QName.Local == "Id" && a.QName.NamespaceURI == "" {
			return a.Value.StringForm(), true
		}
	}
	return "", false
}
