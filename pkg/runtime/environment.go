package runtime

import (
	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// Highlight draws overlay rectangles for durationMillis (spec.md §6
// HighlightService). Raises capability.ErrMissingDevice if no highlight
// service was registered.
func (rt *Runtime) Highlight(rects []uivalue.Rect, durationMillis int) error {
	if rt.caps.Highlight == nil {
		return capability.ErrMissingDevice
	}
	return rt.caps.Highlight.Highlight(rects, durationMillis)
}

// ClearHighlight removes any active highlight overlay.
func (rt *Runtime) ClearHighlight() error {
	if rt.caps.Highlight == nil {
		return capability.ErrMissingDevice
	}
	return rt.caps.Highlight.ClearHighlight()
}

// Screenshot captures rect (or the full desktop when rect is nil) via the
// registered ScreenshotService.
func (rt *Runtime) Screenshot(rect *uivalue.Rect) (capability.Screenshot, error) {
	if rt.caps.Screenshot == nil {
		return capability.Screenshot{}, capability.ErrMissingDevice
	}
	return rt.caps.Screenshot.Capture(rect)
}
