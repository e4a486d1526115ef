package main

import (
	"github.com/d-biehl/platynui/pkg/provider/memtree"
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// buildDemoTree constructs a small in-memory accessibility tree standing
// in for a real AT-SPI/UIA/X11 provider (spec.md §1 treats those as
// external collaborators specified only by contract). It backs
// `--provider=mock`, the CLI demo mode SPEC_FULL.md's provider section
// names.
func buildDemoTree() *memtree.Node {
	app := memtree.NewNode(uinode.NamespaceApp, "Application", "Demo")

	win := memtree.NewNode(uinode.NamespaceControl, "Window", "PlatynUI Demo")
	win.SetAttribute("Id", uivalue.String("demo-window"))
	win.SetAttribute("Bounds", uivalue.FromRect(uivalue.Rect{X: 100, Y: 100, Width: 640, Height: 480}))
	app.AddChild(win)

	ok := memtree.NewNode(uinode.NamespaceControl, "Button", "OK")
	ok.SetAttribute("Id", uivalue.String("ok-button"))
	ok.SetAttribute("Enabled", uivalue.Bool(true))
	ok.SetAttribute("Bounds", uivalue.FromRect(uivalue.Rect{X: 500, Y: 400, Width: 80, Height: 24}))
	win.AddChild(ok)

	cancel := memtree.NewNode(uinode.NamespaceControl, "Button", "Cancel")
	cancel.SetAttribute("Id", uivalue.String("cancel-button"))
	cancel.SetAttribute("Enabled", uivalue.Bool(true))
	cancel.SetAttribute("Bounds", uivalue.FromRect(uivalue.Rect{X: 590, Y: 400, Width: 80, Height: 24}))
	win.AddChild(cancel)

	return app
}
