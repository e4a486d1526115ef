package runtime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/keyboard"
	"github.com/d-biehl/platynui/pkg/pattern"
	"github.com/d-biehl/platynui/pkg/provider"
	"github.com/d-biehl/platynui/pkg/provider/memtree"
	"github.com/d-biehl/platynui/pkg/runtime"
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// buildApp mirrors the reference tree used across the node-graph and
// XPath test suites: Desktop > App[Notepad] > Window[Untitled] >
// {Button[OK], Button[Cancel]}.
func buildApp(t *testing.T) (*memtree.Node, *memtree.Node) {
	t.Helper()
	app := memtree.NewNode(uinode.NamespaceApp, "Application", "Notepad")

	win := memtree.NewNode(uinode.NamespaceControl, "Window", "Untitled")
	win.SetAttribute("Bounds", uivalue.FromRect(uivalue.Rect{X: 10, Y: 20, Width: 300, Height: 200}))
	app.AddChild(win)

	ok := memtree.NewNode(uinode.NamespaceControl, "Button", "OK")
	ok.SetAttribute("Enabled", uivalue.Bool(true))
	win.AddChild(ok)

	cancel := memtree.NewNode(uinode.NamespaceControl, "Button", "Cancel")
	cancel.SetAttribute("Enabled", uivalue.Bool(false))
	win.AddChild(cancel)

	return app, win
}

func newTestRuntime(t *testing.T, app *memtree.Node) *runtime.Runtime {
	t.Helper()
	reg := provider.NewRegistry()
	reg.Register(memtree.NewProvider("memtree", "Reference Tree", app))

	rt, err := runtime.New(reg, capability.Set{})
	require.NoError(t, err)
	return rt
}

func TestEvaluateFindsButtonsFromDesktop(t *testing.T) {
	app, _ := buildApp(t)
	rt := newTestRuntime(t, app)

	items, err := rt.Evaluate("//Button", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "OK", items[0].Node.Name())
	require.Equal(t, "Cancel", items[1].Node.Name())
}

func TestEvaluateWithContextNode(t *testing.T) {
	app, win := buildApp(t)
	rt := newTestRuntime(t, app)

	items, err := rt.Evaluate("Button[@Enabled = true()]", win)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "OK", items[0].Node.Name())
}

func TestEvaluateSingleDoesNotMaterializeWholeSequence(t *testing.T) {
	app, _ := buildApp(t)
	rt := newTestRuntime(t, app)

	item, err := rt.EvaluateSingle("//Button", nil)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, "OK", item.Node.Name())
}

func TestEvaluateSingleEmptySequenceReturnsNil(t *testing.T) {
	app, _ := buildApp(t)
	rt := newTestRuntime(t, app)

	item, err := rt.EvaluateSingle("//Slider", nil)
	require.NoError(t, err)
	require.Nil(t, item)
}

func TestEvaluateStreamYieldsItemsLazily(t *testing.T) {
	app, _ := buildApp(t)
	rt := newTestRuntime(t, app)

	stream, err := rt.EvaluateStream("//Button", nil)
	require.NoError(t, err)

	var names []string
	for {
		item, ok, err := stream.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		names = append(names, item.Node.Name())
	}
	require.Equal(t, []string{"OK", "Cancel"}, names)
}

func TestCompileCachedReusesProgram(t *testing.T) {
	app, _ := buildApp(t)
	rt := newTestRuntime(t, app)

	p1, err := rt.CompileCached("//Button")
	require.NoError(t, err)
	p2, err := rt.CompileCached("//Button")
	require.NoError(t, err)
	require.Same(t, p1, p2)
}

func TestContextNodeUnknownAfterDetach(t *testing.T) {
	app, win := buildApp(t)
	rt := newTestRuntime(t, app)

	kids, err := win.Children()
	require.NoError(t, err)
	ok := kids[0]

	item, err := rt.EvaluateSingle("//Button[@Enabled = true()]", nil)
	require.NoError(t, err)
	require.NotNil(t, item)
	stale := item.Node
	require.Equal(t, ok.RuntimeID(), stale.RuntimeID())

	ok.(*memtree.Node).MarkDetached()

	_, err = rt.Evaluate(".", stale)
	require.Error(t, err)
	var cnu *runtime.ContextNodeUnknownError
	require.ErrorAs(t, err, &cnu)
}

func TestClearCacheEmptiesAdaptationCache(t *testing.T) {
	app, _ := buildApp(t)
	rt := newTestRuntime(t, app)

	_, err := rt.Evaluate("//Button", nil)
	require.NoError(t, err)
	rt.ClearCache()

	items, err := rt.Evaluate("//Button", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

type fakeFocusable struct{ focused bool }

func (f *fakeFocusable) Focus() error {
	f.focused = true
	return nil
}

func TestFocusCallsNearestFocusableAncestor(t *testing.T) {
	app, win := buildApp(t)
	rt := newTestRuntime(t, app)

	focusable := &fakeFocusable{}
	win.SetPattern(pattern.IDFocusable, focusable)

	kids, err := win.Children()
	require.NoError(t, err)
	ok := kids[0]

	require.NoError(t, rt.Focus(ok))
	require.True(t, focusable.focused)
}

func TestFocusRaisesWhenNoAncestorFocusable(t *testing.T) {
	app, win := buildApp(t)
	rt := newTestRuntime(t, app)

	kids, err := win.Children()
	require.NoError(t, err)

	require.ErrorIs(t, rt.Focus(kids[0]), runtime.ErrNoFocusableAncestor)
}

type fakeWindowSurface struct {
	activated     bool
	acceptsInput  bool
	acceptsKnown  bool
}

func (f *fakeWindowSurface) Activate() error  { f.activated = true; return nil }
func (f *fakeWindowSurface) Minimize() error  { return nil }
func (f *fakeWindowSurface) Maximize() error  { return nil }
func (f *fakeWindowSurface) Restore() error   { return nil }
func (f *fakeWindowSurface) Close() error     { return nil }
func (f *fakeWindowSurface) MoveTo(uivalue.Point) error      { return nil }
func (f *fakeWindowSurface) Resize(uivalue.Size) error       { return nil }
func (f *fakeWindowSurface) MoveAndResize(uivalue.Rect) error { return nil }
func (f *fakeWindowSurface) AcceptsUserInput() (bool, bool) {
	return f.acceptsInput, f.acceptsKnown
}

func TestBringToFrontActivatesWithoutWait(t *testing.T) {
	app, win := buildApp(t)
	rt := newTestRuntime(t, app)

	surface := &fakeWindowSurface{}
	win.SetPattern(pattern.IDWindowSurface, surface)

	require.NoError(t, rt.BringToFront(win, 0))
	require.True(t, surface.activated)
}

func TestBringToFrontPollsUntilAcceptsInput(t *testing.T) {
	app, win := buildApp(t)
	rt := newTestRuntime(t, app)

	surface := &fakeWindowSurface{acceptsKnown: true}
	win.SetPattern(pattern.IDWindowSurface, surface)

	done := make(chan struct{})
	go func() {
		time.Sleep(5 * time.Millisecond)
		surface.acceptsInput = true
		close(done)
	}()

	require.NoError(t, rt.BringToFront(win, 200*time.Millisecond))
	<-done
}

func TestTopLevelWindowForFindsAncestor(t *testing.T) {
	app, win := buildApp(t)
	rt := newTestRuntime(t, app)

	win.SetPattern(pattern.IDWindowSurface, &fakeWindowSurface{})

	kids, err := win.Children()
	require.NoError(t, err)

	top, err := rt.TopLevelWindowFor(kids[0])
	require.NoError(t, err)
	require.Equal(t, win.RuntimeID(), top.RuntimeID())
}

func TestPointerKeyboardOperationsErrorWhenNotRegistered(t *testing.T) {
	app, _ := buildApp(t)
	rt := newTestRuntime(t, app)

	_, err := rt.PointerPosition()
	require.ErrorIs(t, err, capability.ErrMissingDevice)

	err = rt.KeyboardType("hi", keyboard.Call{})
	require.ErrorIs(t, err, capability.ErrMissingDevice)
}
