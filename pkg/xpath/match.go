package xpath

import "github.com/d-biehl/platynui/pkg/uinode"

// resolveTestNamespace resolves a NodeTest's explicit prefix against the
// static context. An empty prefix on an element test falls back to the
// default element namespace; on an attribute test it means "no
// namespace" per XPath semantics.
func resolveTestNamespace(sc *StaticContext, test NodeTest, isAttribute bool) (string, bool) {
	if test.WildcardPrefix != "" {
		uri, ok := sc.ResolvePrefix(test.WildcardPrefix)
		return uri, ok
	}
	if test.Prefix != "" {
		return sc.ResolvePrefix(test.Prefix)
	}
	if isAttribute {
		return "", true
	}
	return sc.DefaultElementNamespace, true
}

// matchesElementTest reports whether an element QName satisfies a
// NodeTest.
func matchesElementTest(sc *StaticContext, test NodeTest, qn uinode.QName) (bool, error) {
	switch test.Kind {
	case TestAnyNode, TestElement:
		return true, nil
	case TestAttribute, TestText, TestComment, TestPI:
		return false, nil
	}
	// TestName
	if test.Wildcard {
		return true, nil
	}
	if test.WildcardLocal != "" {
		return qn.Local == test.WildcardLocal, nil
	}
	uri, ok := resolveTestNamespace(sc, test, false)
	if !ok {
		return false, NewError(XPST0008, "unbound namespace prefix in node test", nil)
	}
	if test.WildcardPrefix != "" {
		return qn.NamespaceURI == uri, nil
	}
	return qn.NamespaceURI == uri && qn.Local == test.Local, nil
}

// matchesAttributeTest reports whether an attribute QName satisfies a
// NodeTest evaluated on the attribute axis.
func matchesAttributeTest(sc *StaticContext, test NodeTest, qn uinode.QName) (bool, error) {
	switch test.Kind {
	case TestAnyNode, TestAttribute:
		return true, nil
	case TestElement, TestText, TestComment, TestPI:
		return false, nil
	}
	// TestName
	if test.Wildcard {
		return true, nil
	}
	if test.WildcardLocal != "" {
		return qn.Local == test.WildcardLocal, nil
	}
	uri, ok := resolveTestNamespace(sc, test, true)
	if !ok {
		return false, NewError(XPST0008, "unbound namespace prefix in node test", nil)
	}
	if test.WildcardPrefix != "" {
		return qn.NamespaceURI == uri, nil
	}
	return qn.NamespaceURI == uri && qn.Local == test.Local, nil
}
