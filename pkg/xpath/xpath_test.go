package xpath_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/provider/memtree"
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
	"github.com/d-biehl/platynui/pkg/xpath"
)

// buildDesktop constructs a small reference tree: Desktop > App[Notepad] >
// Window[Untitled] > { Button[OK], Button[Cancel] }, with a Bounds
// attribute on the window to exercise derived-alias attributes.
func buildDesktop(t *testing.T) *memtree.Node {
	t.Helper()
	desktop := memtree.NewNode(uinode.NamespaceApp, "Desktop", "")
	app := memtree.NewNode(uinode.NamespaceApp, "Application", "Notepad")
	desktop.AddChild(app)

	win := memtree.NewNode(uinode.NamespaceControl, "Window", "Untitled")
	win.SetAttribute("Bounds", uivalue.FromRect(uivalue.Rect{X: 10, Y: 20, Width: 300, Height: 200}))
	app.AddChild(win)

	ok := memtree.NewNode(uinode.NamespaceControl, "Button", "OK")
	ok.SetAttribute("Enabled", uivalue.Bool(true))
	win.AddChild(ok)

	cancel := memtree.NewNode(uinode.NamespaceControl, "Button", "Cancel")
	cancel.SetAttribute("Enabled", uivalue.Bool(false))
	win.AddChild(cancel)

	return desktop
}

func evalString(t *testing.T, source string, ctx uinode.Node) []xpath.Item {
	t.Helper()
	sc := xpath.NewStaticContext()
	prog, err := xpath.Compile(source, sc)
	require.NoError(t, err)
	dctx := xpath.NewDynamicContext(sc, xpath.NodeItem(ctx), true, nil)
	cur, err := xpath.Evaluate(prog, dctx)
	require.NoError(t, err)
	items, err := xpath.Drain(cur, dctx)
	require.NoError(t, err)
	return items
}

func TestChildAxisFindsButtons(t *testing.T) {
	desktop := buildDesktop(t)

	items := evalString(t, "//Button", desktop)
	assertNamesEqual(t, items, []string{"OK", "Cancel"})
}

func assertNamesEqual(t *testing.T, items []xpath.Item, want []string) {
	t.Helper()
	require.Len(t, items, len(want))
	for i, it := range items {
		require.Equal(t, xpath.ItemKindNode, it.Kind)
		require.Equal(t, want[i], it.Node.Name())
	}
}

func TestAttributePredicateFiltersByValue(t *testing.T) {
	desktop := buildDesktop(t)
	items := evalString(t, `//Button[@Enabled = true()]`, desktop)
	require.Len(t, items, 1)
	require.Equal(t, "OK", items[0].Node.Name())
}

func TestPositionalPredicateFastPath(t *testing.T) {
	desktop := buildDesktop(t)
	items := evalString(t, "//Button[1]", desktop)
	require.Len(t, items, 1)
	require.Equal(t, "OK", items[0].Node.Name())

	items = evalString(t, "//Button[2]", desktop)
	require.Len(t, items, 1)
	require.Equal(t, "Cancel", items[0].Node.Name())
}

func TestDerivedBoundsAlias(t *testing.T) {
	desktop := buildDesktop(t)
	items := evalString(t, "//Window/@Bounds.Width", desktop)
	require.Len(t, items, 1)
	require.Equal(t, xpath.ItemKindAttribute, items[0].Kind)
	require.Equal(t, "300", items[0].StringValue())
}

func TestArithmeticAndComparison(t *testing.T) {
	desktop := buildDesktop(t)
	items := evalString(t, "1 + 2 * 3", desktop)
	require.Len(t, items, 1)
	f, ok := items[0].Atomic.NumericValue()
	require.True(t, ok)
	require.Equal(t, 7.0, f)

	items = evalString(t, "(1 to 5)[. > 3]", desktop)
	require.Len(t, items, 2)
}

func TestFlworForReturn(t *testing.T) {
	desktop := buildDesktop(t)
	items := evalString(t, "for $b in //Button return name($b)", desktop)
	require.Len(t, items, 2)
	require.Equal(t, "Button", items[0].Atomic.StringForm())
	require.Equal(t, "Button", items[1].Atomic.StringForm())
}

func TestQuantifiedSomeEvery(t *testing.T) {
	desktop := buildDesktop(t)
	items := evalString(t, "some $b in //Button satisfies $b/@Enabled = true()", desktop)
	require.Len(t, items, 1)
	b, _ := items[0].Atomic.AsBool()
	require.True(t, b)

	items = evalString(t, "every $b in //Button satisfies $b/@Enabled = true()", desktop)
	b, _ = items[0].Atomic.AsBool()
	require.False(t, b)
}

func TestCastAndCastable(t *testing.T) {
	desktop := buildDesktop(t)
	items := evalString(t, `"42" cast as xs:integer`, desktop)
	require.Len(t, items, 1)
	i, ok := items[0].Atomic.AsInteger()
	require.True(t, ok)
	require.EqualValues(t, 42, i)

	items = evalString(t, `"notanumber" castable as xs:integer`, desktop)
	require.Len(t, items, 1)
	b, _ := items[0].Atomic.AsBool()
	require.False(t, b)
}

func TestUnionIntersectExcept(t *testing.T) {
	desktop := buildDesktop(t)
	items := evalString(t, "(//Button[1] | //Button[2])", desktop)
	require.Len(t, items, 2)

	items = evalString(t, "(//Button[1] intersect //Button[1])", desktop)
	require.Len(t, items, 1)

	items = evalString(t, "(//Button except //Button[1])", desktop)
	require.Len(t, items, 1)
	require.Equal(t, "Cancel", items[0].Node.Name())
}

func TestCancellationStopsEvaluation(t *testing.T) {
	desktop := buildDesktop(t)
	sc := xpath.NewStaticContext()
	prog, err := xpath.Compile("//Button", sc)
	require.NoError(t, err)

	var cancel atomic.Bool
	cancel.Store(true)
	dctx := xpath.NewDynamicContext(sc, xpath.NodeItem(desktop), true, &cancel)

	_, err = xpath.Evaluate(prog, dctx)
	require.Error(t, err)
	require.True(t, xpath.IsCode(err, xpath.FOER0000))
}
