package xpath_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/xpath"
)

// countingNode is a minimal uinode.Node whose Children() increments a
// shared counter, used to measure how many nodes a path expression
// actually visits rather than just checking its returned value.
type countingNode struct {
	ns       uinode.Namespace
	role     string
	name     string
	id       string
	parent   *countingNode
	children []*countingNode
	docOrder uint64
	calls    *int
}

func (n *countingNode) Namespace() uinode.Namespace { return n.ns }
func (n *countingNode) Role() string                { return n.role }
func (n *countingNode) Name() string                { return n.name }
func (n *countingNode) RuntimeID() string           { return n.id }

func (n *countingNode) Parent() (uinode.Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *countingNode) Children() ([]uinode.Node, error) {
	*n.calls++
	out := make([]uinode.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

func (n *countingNode) Attributes() ([]uinode.Attribute, error) { return nil, nil }
func (n *countingNode) SupportedPatterns() []string             { return nil }
func (n *countingNode) PatternByID(string) (any, bool)          { return nil, false }
func (n *countingNode) Invalidate()                             {}
func (n *countingNode) IsValid() bool                           { return true }
func (n *countingNode) DocOrderKey() (uint64, bool)             { return n.docOrder, true }

// buildWideTree builds Root > Container > n "item" leaves, all sharing
// one Children()-call counter, so a test can measure //item's actual
// traversal cost against the tree's size.
func buildWideTree(n int) (*countingNode, *int) {
	calls := 0
	root := &countingNode{ns: uinode.NamespaceControl, role: "Root", id: "root", docOrder: 1, calls: &calls}
	container := &countingNode{ns: uinode.NamespaceControl, role: "Container", id: "container", parent: root, docOrder: 2, calls: &calls}
	root.children = []*countingNode{container}

	leaves := make([]*countingNode, n)
	for i := 0; i < n; i++ {
		leaves[i] = &countingNode{
			ns:       uinode.NamespaceControl,
			role:     "item",
			id:       "item-" + strconv.Itoa(i),
			parent:   container,
			docOrder: uint64(3 + i),
			calls:    &calls,
		}
	}
	container.children = leaves
	return root, &calls
}

// TestEvaluateFirstDescendantResultDoesNotWalkWholeTree is the regression
// test for the step loop's laziness: pulling only the first result of
// "//item" over a tree with a great many "item" siblings must not touch
// anywhere near all of them (spec.md §4.3/§8, literal scenario 5's
// O(depth) child-traversal guarantee).
func TestEvaluateFirstDescendantResultDoesNotWalkWholeTree(t *testing.T) {
	root, calls := buildWideTree(50000)

	sc := xpath.NewStaticContext()
	prog, err := xpath.Compile("//item", sc)
	require.NoError(t, err)
	dctx := xpath.NewDynamicContext(sc, xpath.NodeItem(root), true, nil)

	cur, err := xpath.Evaluate(prog, dctx)
	require.NoError(t, err)

	it, ok, err := cur.Next(dctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "item", it.Node.Role())

	// Root and container are each asked for their children a small,
	// constant number of times to find the first match; none of the
	// 50,000 leaf siblings should ever have Children() called on them.
	require.LessOrEqualf(t, *calls, 8, "got %d Children() calls pulling just the first //item result; the step loop must not drain the whole descendant sequence first", *calls)
}
