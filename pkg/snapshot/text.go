package snapshot

import (
	"fmt"
	"strings"

	"github.com/d-biehl/platynui/pkg/uinode"
)

// Text renders root (and, unless Options.MaxDepth stops it, its
// descendants) as a connector tree, one line per node plus indented
// attribute lines (spec.md §4.8: "each line is `<connector> <prefix?>
// Role[ \"Name\"][ [Id=…, RuntimeId=…]]` and attributes indent beneath
// with `@ns:name = value`"). Grounded on the teacher's
// PrintTree/printTreeRecursive connector-drawing walk, adapted from a
// concrete Element tree to the uinode.Node interface and attribute
// selection rules this spec adds.
func Text(root uinode.Node, opts Options) ([]string, error) {
	var lines []string
	if err := textRecursive(root, 0, opts, "", true, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func textRecursive(n uinode.Node, depth int, opts Options, prefix string, isLast bool, lines *[]string) error {
	if n == nil || (opts.MaxDepth > 0 && depth >= opts.MaxDepth) {
		return nil
	}

	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if depth == 0 {
		connector = ""
	}

	attrs, err := uinode.ExpandAttributes(n)
	if err != nil {
		return err
	}

	*lines = append(*lines, prefix+connector+nodeHeader(n, attrs, opts))

	shown := selectAttributes(attrs, opts)
	attrPrefix := prefix
	if depth > 0 {
		if isLast {
			attrPrefix += "    "
		} else {
			attrPrefix += "│   "
		}
	}
	for _, a := range shown {
		*lines = append(*lines, attrPrefix+"@"+qualifiedAttrName(a.QName)+" = "+a.Value.StringForm())
	}

	children, err := n.Children()
	if err != nil {
		return err
	}

	childPrefix := prefix
	if depth > 0 {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}
	for i, child := range children {
		if err := textRecursive(child, depth+1, opts, childPrefix, i == len(children)-1, lines); err != nil {
			return err
		}
	}
	return nil
}

// nodeHeader builds "<prefix?>Role[ \"Name\"][ [Id=…, RuntimeId=…]]"
// (spec.md §4.8). The role is always prefixed with its namespace unless
// Control (the default namespace, matching the XML writer's rule).
func nodeHeader(n uinode.Node, attrs []uinode.ExpandedAttribute, opts Options) string {
	role := n.Role()
	if prefix := uinode.NamespacePrefix(n.Namespace()); n.Namespace() != uinode.NamespaceControl {
		role = prefix + ":" + role
	}

	var b strings.Builder
	b.WriteString(role)
	if n.Name() != "" {
		fmt.Fprintf(&b, " %q", n.Name())
	}

	var bracket []string
	if id, ok := idAttribute(attrs); ok {
		bracket = append(bracket, "Id="+id)
	}
	if opts.IncludeRuntimeID {
		bracket = append(bracket, "RuntimeId="+n.RuntimeID())
	}
	if len(bracket) > 0 {
		b.WriteString(" [" + strings.Join(bracket, ", ") + "]")
	}
	return b.String()
}
