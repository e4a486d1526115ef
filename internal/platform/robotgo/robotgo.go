// Package robotgo is the reference PlatformCapability implementation
// (spec.md §6): it backs capability.PointerDevice, capability.KeyboardDevice,
// capability.DesktopInfo, and capability.ScreenshotService with
// github.com/go-vgo/robotgo, grounded on the teacher's pkg/input/input.go
// and pkg/screen/screen.go. capability.WindowManager and
// capability.HighlightService have no cross-platform robotgo equivalent
// (window activation and highlight overlays are provider territory —
// AT-SPI/UIA/X11 — per spec.md §6) and ship here as stubs returning
// capability.ErrNotSupported.
package robotgo

import (
	"image"

	"github.com/go-vgo/robotgo"
	"golang.org/x/image/draw"

	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// Pointer implements capability.PointerDevice over robotgo's mouse API,
// grounded on the teacher's pkg/input/input.go Click/MoveTo/Drag/Scroll
// functions (generalized from free functions to a value satisfying the
// PointerDevice interface).
type Pointer struct{}

// Position reports the current pointer location.
func (Pointer) Position() (uivalue.Point, error) {
	x, y := robotgo.Location()
	return uivalue.Point{X: float64(x), Y: float64(y)}, nil
}

// MoveTo places the pointer at desktop-absolute coordinates.
func (Pointer) MoveTo(pt uivalue.Point) error {
	robotgo.Move(int(pt.X), int(pt.Y))
	return nil
}

// Press holds button down at the pointer's current location.
func (Pointer) Press(button capability.MouseButton) error {
	robotgo.Toggle(mouseButtonName(button), "down")
	return nil
}

// Release lifts button at the pointer's current location.
func (Pointer) Release(button capability.MouseButton) error {
	robotgo.Toggle(mouseButtonName(button), "up")
	return nil
}

// Scroll emits one wheel step of delta (spec.md §4.5's scroll_step unit).
func (Pointer) Scroll(delta uivalue.Point) error {
	robotgo.Scroll(int(delta.X), int(delta.Y))
	return nil
}

func mouseButtonName(button capability.MouseButton) string {
	switch button {
	case capability.ButtonRight:
		return "right"
	case capability.ButtonMiddle:
		return "center"
	default:
		return "left"
	}
}

// Keyboard implements capability.KeyboardDevice over robotgo's key API,
// grounded on the teacher's internal/tools/keypress.go KeyToggle/KeyTap
// usage and pkg/input/input.go's normalizeKeyName table.
type Keyboard struct{}

// Press presses keyID down without releasing it.
func (Keyboard) Press(keyID string) error {
	return robotgo.KeyToggle(keyID, "down")
}

// Release releases a previously pressed key.
func (Keyboard) Release(keyID string) error {
	return robotgo.KeyToggle(keyID, "up")
}

// TypeText types a literal run of text (spec.md §4.6's quoted-token case).
func (Keyboard) TypeText(text string) error {
	if text == "" {
		return nil
	}
	robotgo.TypeStr(text)
	return nil
}

// KnownKeyNames lists the key names robotgo recognizes, used by the
// keyboard DSL to validate bare tokens before dispatch.
func (Keyboard) KnownKeyNames() ([]string, error) {
	return knownKeyNames, nil
}

// knownKeyNames mirrors robotgo's own key-name table (see the teacher's
// normalizeKeyName switch in pkg/input/input.go) plus the printable
// alphanumeric range robotgo accepts verbatim.
var knownKeyNames = buildKnownKeyNames()

func buildKnownKeyNames() []string {
	names := []string{
		"enter", "backspace", "delete", "escape", "tab", "space",
		"up", "down", "left", "right", "home", "end", "pageup", "pagedown",
		"cmd", "ctrl", "alt", "shift", "capslock", "fn",
		"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12",
	}
	for c := 'a'; c <= 'z'; c++ {
		names = append(names, string(c))
	}
	for c := '0'; c <= '9'; c++ {
		names = append(names, string(c))
	}
	return names
}

// Desktop implements capability.DesktopInfo over robotgo's display API,
// grounded on the teacher's pkg/screen/screen.go Displays/PrimaryDisplay.
type Desktop struct{}

// Displays returns every connected monitor's bounds.
func (Desktop) Displays() ([]capability.Display, error) {
	n := robotgo.DisplaysNum()
	displays := make([]capability.Display, n)
	for i := 0; i < n; i++ {
		x, y, w, h := robotgo.GetDisplayBounds(i)
		displays[i] = capability.Display{
			Index:       i,
			Bounds:      uivalue.Rect{X: float64(x), Y: float64(y), Width: float64(w), Height: float64(h)},
			ScaleFactor: 1.0,
			Primary:     i == 0,
		}
	}
	return displays, nil
}

// DesktopBounds returns the bounding box of the primary display, the
// origin pointer.OriginDesktop resolves against.
func (Desktop) DesktopBounds() (uivalue.Rect, error) {
	if robotgo.DisplaysNum() == 0 {
		return uivalue.Rect{}, capability.NewPlatformError(capability.KindCapabilityUnavailable, "no displays found", nil)
	}
	x, y, w, h := robotgo.GetDisplayBounds(0)
	return uivalue.Rect{X: float64(x), Y: float64(y), Width: float64(w), Height: float64(h)}, nil
}

// Screenshot implements capability.ScreenshotService over robotgo's
// capture API, grounded on the teacher's pkg/screen/screen.go
// CaptureRect/CapturePrimary and the RGBA conversion in its toRGBA helper.
type Screenshot struct {
	desktop Desktop
}

// Capture grabs rect (or the primary display's full bounds when rect is
// nil) and returns it as an RGBA8 capability.Screenshot.
func (s Screenshot) Capture(rect *uivalue.Rect) (capability.Screenshot, error) {
	r := rect
	if r == nil {
		bounds, err := s.desktop.DesktopBounds()
		if err != nil {
			return capability.Screenshot{}, err
		}
		r = &bounds
	}

	img, err := robotgo.CaptureImg(int(r.X), int(r.Y), int(r.Width), int(r.Height))
	if err != nil {
		return capability.Screenshot{}, capability.NewPlatformError(capability.KindOperationFailed, "screen capture failed", err)
	}

	rgba := toRGBA(img)
	return capability.Screenshot{
		Width:       rgba.Bounds().Dx(),
		Height:      rgba.Bounds().Dy(),
		Pixels:      rgba.Pix,
		PixelFormat: capability.PixelFormatRGBA8,
	}, nil
}

// toRGBA normalizes whatever concrete image.Image robotgo hands back into
// *image.RGBA so Screenshot.Pixels always carries a predictable 4-byte
// RGBA8 layout, grounded on the teacher's pkg/screen/resize.go use of
// golang.org/x/image/draw for format-preserving, aspect-preserving scaling
// (here applied at 1:1 scale purely to normalize the pixel format).
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.NearestNeighbor.Scale(rgba, bounds, img, bounds, draw.Src, nil)
	return rgba
}

// Platform bundles every robotgo-backed capability behind one value so a
// single instance can populate a whole capability.Set.
type Platform struct {
	Pointer    Pointer
	Keyboard   Keyboard
	Desktop    Desktop
	Screenshot Screenshot
}

// New returns a ready-to-use Platform. robotgo needs no explicit
// initialization, unlike a provider connection, so construction never
// fails; the error return exists for symmetry with other capability
// constructors.
func New() (*Platform, error) {
	return &Platform{}, nil
}

// CapabilitySet builds a capability.Set from p, leaving WindowMgr and
// Highlight as the ErrNotSupported stubs documented at the package level.
func (p *Platform) CapabilitySet() capability.Set {
	return capability.Set{
		Pointer:    p.Pointer,
		Keyboard:   p.Keyboard,
		Desktop:    p.Desktop,
		Screenshot: p.Screenshot,
		WindowMgr:  unsupportedWindowManager{},
		Highlight:  unsupportedHighlight{},
	}
}

// unsupportedWindowManager is the capability.WindowManager stub: robotgo
// has no cross-platform window-handle API (spec.md frames window
// activation as provider territory — AT-SPI/UIA/X11 — not core).
type unsupportedWindowManager struct{}

func (unsupportedWindowManager) ResolveWindow(string) (capability.WindowID, error) {
	return "", capability.ErrNotSupported
}
func (unsupportedWindowManager) Bounds(capability.WindowID) (uivalue.Rect, error) {
	return uivalue.Rect{}, capability.ErrNotSupported
}
func (unsupportedWindowManager) IsActive(capability.WindowID) (bool, error) {
	return false, capability.ErrNotSupported
}
func (unsupportedWindowManager) Activate(capability.WindowID) error { return capability.ErrNotSupported }
func (unsupportedWindowManager) Close(capability.WindowID) error    { return capability.ErrNotSupported }
func (unsupportedWindowManager) Minimize(capability.WindowID) error { return capability.ErrNotSupported }
func (unsupportedWindowManager) Maximize(capability.WindowID) error { return capability.ErrNotSupported }
func (unsupportedWindowManager) Restore(capability.WindowID) error  { return capability.ErrNotSupported }
func (unsupportedWindowManager) MoveTo(capability.WindowID, uivalue.Point) error {
	return capability.ErrNotSupported
}
func (unsupportedWindowManager) Resize(capability.WindowID, uivalue.Size) error {
	return capability.ErrNotSupported
}

// unsupportedHighlight is the capability.HighlightService stub: drawing a
// screen overlay needs a platform window layer robotgo doesn't expose.
type unsupportedHighlight struct{}

func (unsupportedHighlight) Highlight([]uivalue.Rect, int) error { return capability.ErrNotSupported }
func (unsupportedHighlight) ClearHighlight() error               { return capability.ErrNotSupported }
