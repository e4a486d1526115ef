package snapshot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/provider/memtree"
	"github.com/d-biehl/platynui/pkg/snapshot"
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

func buildTree(t *testing.T) *memtree.Node {
	t.Helper()
	win := memtree.NewNode(uinode.NamespaceControl, "Window", "Main")
	win.SetAttribute("Id", uivalue.String("window-1"))
	win.SetAttribute("Bounds", uivalue.FromRect(uivalue.Rect{X: 1, Y: 2, Width: 300, Height: 200}))

	ok := memtree.NewNode(uinode.NamespaceControl, "Button", "OK")
	ok.SetAttribute("Enabled", uivalue.Bool(true))
	win.AddChild(ok)

	app := memtree.NewNode(uinode.NamespaceApp, "Application", "")
	app.SetAttributeNS(uinode.NamespaceApp, "ProcessId", uivalue.Integer(4242))
	win.AddChild(app)

	return win
}

func TestTextDefaultShowsNameAndId(t *testing.T) {
	win := buildTree(t)
	lines, err := snapshot.Text(win, snapshot.DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, lines)
	require.Contains(t, lines[0], `Window "Main" [Id=window-1]`)
}

func TestTextAllModeShowsEveryAttribute(t *testing.T) {
	win := buildTree(t)
	opts := snapshot.Options{AttributeMode: snapshot.AttributesAll}
	lines, err := snapshot.Text(win, opts)
	require.NoError(t, err)

	joined := strings.Join(lines, "\n")
	require.Contains(t, joined, "@control:Bounds = ")
	require.Contains(t, joined, "@control:Bounds.Width = 300")
	require.Contains(t, joined, "@control:Enabled = true")
}

func TestTextExcludeDerivedSuppressesBoundsAliases(t *testing.T) {
	win := buildTree(t)
	opts := snapshot.Options{AttributeMode: snapshot.AttributesAll, ExcludeDerived: true}
	lines, err := snapshot.Text(win, opts)
	require.NoError(t, err)

	joined := strings.Join(lines, "\n")
	require.Contains(t, joined, "@control:Bounds = ")
	require.NotContains(t, joined, "@control:Bounds.Width")
	require.NotContains(t, joined, "@control:Bounds.X")
}

func TestTextListModeFiltersByIncludeExclude(t *testing.T) {
	win := buildTree(t)
	opts := snapshot.Options{
		AttributeMode: snapshot.AttributesList,
		Include:       []string{"Bounds*"},
		Exclude:       []string{"Bounds.Height"},
	}
	lines, err := snapshot.Text(win, opts)
	require.NoError(t, err)

	joined := strings.Join(lines, "\n")
	require.Contains(t, joined, "@control:Bounds = ")
	require.Contains(t, joined, "@control:Bounds.Width")
	require.NotContains(t, joined, "@control:Bounds.Height")
}

func TestTextMaxDepthStopsDescent(t *testing.T) {
	win := buildTree(t)
	lines, err := snapshot.Text(win, snapshot.Options{MaxDepth: 1})
	require.NoError(t, err)
	// Window header plus its six attribute lines (Id, Bounds and the four
	// Bounds.* aliases); no child lines.
	require.Len(t, lines, 7)
}

func TestTextPrefixesNonControlNamespace(t *testing.T) {
	win := buildTree(t)
	lines, err := snapshot.Text(win, snapshot.Options{AttributeMode: snapshot.AttributesAll})
	require.NoError(t, err)

	joined := strings.Join(lines, "\n")
	require.Contains(t, joined, "app:Application")
	require.Contains(t, joined, "@app:ProcessId = 4242")
}

func TestXMLOmitsControlPrefixOnElementsButKeepsAppPrefix(t *testing.T) {
	win := buildTree(t)
	var buf strings.Builder
	require.NoError(t, snapshot.XML(&buf, win, snapshot.Options{AttributeMode: snapshot.AttributesAll}))

	out := buf.String()
	require.Contains(t, out, "<Window")
	require.NotContains(t, out, "<control:Window")
	require.Contains(t, out, `xmlns="urn:platynui:control"`)
	require.Contains(t, out, "<app:Application")
}

func TestXMLAttributesAreAlwaysPrefixedIncludingControl(t *testing.T) {
	win := buildTree(t)
	var buf strings.Builder
	require.NoError(t, snapshot.XML(&buf, win, snapshot.Options{AttributeMode: snapshot.AttributesAll}))

	out := buf.String()
	require.Contains(t, out, `control:Bounds=`)
	require.Contains(t, out, `control:Bounds.Width=`)
}

func TestXMLIncludeRuntimeID(t *testing.T) {
	win := buildTree(t)
	var buf strings.Builder
	require.NoError(t, snapshot.XML(&buf, win, snapshot.Options{IncludeRuntimeID: true}))
	require.Contains(t, buf.String(), "runtimeId=")
}

func TestNodeBoundsReadsBoundsAttribute(t *testing.T) {
	win := buildTree(t)
	r, err := snapshot.NodeBounds(win)
	require.NoError(t, err)
	require.Equal(t, uivalue.Rect{X: 1, Y: 2, Width: 300, Height: 200}, r)
}

func TestNodeBoundsErrorsWithoutBounds(t *testing.T) {
	kids, err := buildTree(t).Children()
	require.NoError(t, err)
	_, err = snapshot.NodeBounds(kids[0])
	require.ErrorIs(t, err, snapshot.ErrNoBounds)
}

type fakeHighlight struct {
	rects    []uivalue.Rect
	duration int
	cleared  bool
}

func (f *fakeHighlight) Highlight(rects []uivalue.Rect, durationMillis int) error {
	f.rects = rects
	f.duration = durationMillis
	return nil
}

func (f *fakeHighlight) ClearHighlight() error {
	f.cleared = true
	return nil
}

func TestHighlightNodesSkipsNodesWithoutBounds(t *testing.T) {
	win := buildTree(t)
	kids, err := win.Children()
	require.NoError(t, err)

	svc := &fakeHighlight{}
	require.NoError(t, snapshot.HighlightNodes(svc, append([]uinode.Node{win}, kids...), 500))
	require.Len(t, svc.rects, 1)
	require.Equal(t, 500, svc.duration)
}

func TestHighlightNodesNoOpWhenNothingHasBounds(t *testing.T) {
	kids, err := buildTree(t).Children()
	require.NoError(t, err)

	svc := &fakeHighlight{}
	require.NoError(t, snapshot.HighlightNodes(svc, kids, 500))
	require.Nil(t, svc.rects)
}
