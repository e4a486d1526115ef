package robotgo

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/capability"
)

func TestMouseButtonNameMapsAllThreeButtons(t *testing.T) {
	require.Equal(t, "left", mouseButtonName(capability.ButtonLeft))
	require.Equal(t, "right", mouseButtonName(capability.ButtonRight))
	require.Equal(t, "center", mouseButtonName(capability.ButtonMiddle))
}

func TestMouseButtonNameDefaultsToLeft(t *testing.T) {
	require.Equal(t, "left", mouseButtonName(capability.MouseButton("unknown")))
}

func TestBuildKnownKeyNamesIncludesLettersAndNamedKeys(t *testing.T) {
	names := buildKnownKeyNames()
	asSet := make(map[string]bool, len(names))
	for _, n := range names {
		asSet[n] = true
	}
	require.True(t, asSet["enter"])
	require.True(t, asSet["a"])
	require.True(t, asSet["9"])
	require.True(t, asSet["f12"])
}

func TestToRGBAPassesThroughExistingRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	got := toRGBA(src)
	require.Same(t, src, got)
}

func TestToRGBAConvertsOtherFormats(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	src.SetGray(1, 1, color.Gray{Y: 128})

	got := toRGBA(src)
	require.Equal(t, 3, got.Bounds().Dx())
	require.Equal(t, 3, got.Bounds().Dy())
}

func TestUnsupportedWindowManagerReturnsErrNotSupported(t *testing.T) {
	var wm unsupportedWindowManager
	_, err := wm.ResolveWindow("anything")
	require.ErrorIs(t, err, capability.ErrNotSupported)
	require.ErrorIs(t, wm.Activate(""), capability.ErrNotSupported)
}

func TestUnsupportedHighlightReturnsErrNotSupported(t *testing.T) {
	var hl unsupportedHighlight
	require.ErrorIs(t, hl.Highlight(nil, 0), capability.ErrNotSupported)
	require.ErrorIs(t, hl.ClearHighlight(), capability.ErrNotSupported)
}
