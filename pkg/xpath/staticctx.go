package xpath

// StaticContext carries the compile-time bindings a program closes over
// (spec.md §4.2): namespace prefixes, default element namespace, default
// function namespace, default collation, and base URI.
type StaticContext struct {
	// Namespaces maps prefix -> namespace URI. "xml" is reserved and
	// always bound to the XML namespace; callers cannot override it.
	Namespaces map[string]string

	DefaultElementNamespace string
	DefaultFunctionNamespace string
	DefaultCollation         string
	BaseURI                  string

	// InScopeVariables lists variable names the caller will supply in
	// the dynamic context. Compile does not consult it; a variable
	// reference with no binding raises XPDY0002 when it is evaluated.
	InScopeVariables map[string]bool
}

const (
	xmlNamespaceURI          = "http://www.w3.org/XML/1998/namespace"
	defaultFunctionNamespace = "http://www.w3.org/2005/xpath-functions"
	defaultCollationURI      = "http://www.w3.org/2005/xpath-functions/collation/codepoint"
)

// NewStaticContext returns the default static context used throughout
// this module: the Control/Item/App/Native namespace prefixes bound per
// spec.md §6, Control as the default element namespace, and the W3C
// default function namespace and collation.
func NewStaticContext() *StaticContext {
	return &StaticContext{
		Namespaces: map[string]string{
			"xml":     xmlNamespaceURI,
			"control": "urn:platynui:control",
			"item":    "urn:platynui:item",
			"app":     "urn:platynui:app",
			"native":  "urn:platynui:native",
		},
		DefaultElementNamespace:  "urn:platynui:control",
		DefaultFunctionNamespace: defaultFunctionNamespace,
		DefaultCollation:         defaultCollationURI,
		InScopeVariables:         map[string]bool{},
	}
}

// BindNamespace registers an additional prefix -> URI binding. Returns
// false (without modifying the context) if prefix is "xml".
func (sc *StaticContext) BindNamespace(prefix, uri string) bool {
	if prefix == "xml" {
		return false
	}
	sc.Namespaces[prefix] = uri
	return true
}

// ResolvePrefix resolves a namespace prefix, or ("", false) if unbound.
func (sc *StaticContext) ResolvePrefix(prefix string) (string, bool) {
	uri, ok := sc.Namespaces[prefix]
	return uri, ok
}

// DeclareVariable marks name as available in the dynamic context.
func (sc *StaticContext) DeclareVariable(name string) {
	sc.InScopeVariables[name] = true
}
