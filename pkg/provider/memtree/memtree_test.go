package memtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/provider"
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

func buildSampleTree() *Node {
	root := NewNode(uinode.NamespaceApp, "Application", "Notepad")
	win := NewNode(uinode.NamespaceControl, "Window", "Untitled")
	win.SetAttribute("Bounds", uivalue.FromRect(uivalue.Rect{X: 0, Y: 0, Width: 800, Height: 600}))
	root.AddChild(win)

	btn := NewNode(uinode.NamespaceControl, "Button", "OK")
	btn.SetAttribute("Enabled", uivalue.Bool(true))
	win.AddChild(btn)

	return root
}

func TestTreeTraversal(t *testing.T) {
	root := buildSampleTree()

	children, err := root.Children()
	require.NoError(t, err)
	require.Len(t, children, 1)

	win := children[0]
	assert.Equal(t, "Window", win.Role())
	parent, ok := win.Parent()
	require.True(t, ok)
	assert.Equal(t, root.RuntimeID(), parent.RuntimeID())

	grandkids, err := win.Children()
	require.NoError(t, err)
	require.Len(t, grandkids, 1)
	assert.Equal(t, "Button", grandkids[0].Role())
}

func TestAttributeLookup(t *testing.T) {
	root := buildSampleTree()
	children, _ := root.Children()
	win := children[0]

	attrs, err := win.Attributes()
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "Bounds", attrs[0].Name())

	val, err := attrs[0].Value()
	require.NoError(t, err)
	rect, ok := val.AsRect()
	require.True(t, ok)
	assert.Equal(t, 800.0, rect.Width)
}

func TestDocOrderKeyMonotonic(t *testing.T) {
	a := NewNode(uinode.NamespaceControl, "Button", "A")
	b := NewNode(uinode.NamespaceControl, "Button", "B")

	keyA, ok := a.DocOrderKey()
	require.True(t, ok)
	keyB, ok := b.DocOrderKey()
	require.True(t, ok)
	assert.Less(t, keyA, keyB)
}

func TestMarkDetachedInvalidatesNode(t *testing.T) {
	n := NewNode(uinode.NamespaceControl, "Button", "A")
	assert.True(t, n.IsValid())
	n.MarkDetached()
	assert.False(t, n.IsValid())
}

func TestProviderResolveRuntimeID(t *testing.T) {
	root := buildSampleTree()
	tree := NewProvider("memtree", "In-Memory Reference", root)

	children, _ := root.Children()
	win := children[0]

	resolved, err := tree.ResolveRuntimeID(win.RuntimeID())
	require.NoError(t, err)
	assert.Equal(t, win.RuntimeID(), resolved.RuntimeID())

	_, err = tree.ResolveRuntimeID("no-such-id")
	assert.ErrorIs(t, err, provider.ErrNoSuchRuntimeID)
}

func TestProviderResolveDetachedNode(t *testing.T) {
	root := buildSampleTree()
	tree := NewProvider("memtree", "In-Memory Reference", root)

	children, _ := root.Children()
	win := children[0]
	win.MarkDetached()

	_, err := tree.ResolveRuntimeID(win.RuntimeID())
	assert.ErrorIs(t, err, provider.ErrNoSuchRuntimeID)
}

func TestRegistryResolvesAcrossProviders(t *testing.T) {
	reg := provider.NewRegistry()

	rootA := NewNode(uinode.NamespaceApp, "Application", "A")
	rootB := NewNode(uinode.NamespaceApp, "Application", "B")
	reg.Register(NewProvider("a", "A", rootA))
	reg.Register(NewProvider("b", "B", rootB))

	resolved, err := reg.ResolveRuntimeID(rootB.RuntimeID())
	require.NoError(t, err)
	assert.Equal(t, rootB.RuntimeID(), resolved.RuntimeID())
}
