package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/internal/config"
	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/keyboard"
	"github.com/d-biehl/platynui/pkg/pointer"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

func TestDefaultMatchesEngineDefaults(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, "linear", cfg.Pointer.Mode)
	require.Equal(t, "mock", cfg.Provider)
	require.NotZero(t, cfg.Keyboard.BetweenKeysDelay)
}

func TestLoadWithoutFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.Default().Pointer.Mode, cfg.Pointer.Mode)
}

func TestLoadReadsProfilesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platynui.yaml")
	contents := `
provider: mock
pointer:
  mode: bezier
  steps_per_pixel: 0.3
pointer_active_profile: careful
pointer_profiles:
  - name: careful
    settings:
      mode: overshoot
      steps_per_pixel: 0.5
keyboard:
  between_keys_delay: 25ms
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "bezier", cfg.Pointer.Mode)
	require.Equal(t, "careful", cfg.PointerActiveProfile)
	require.Len(t, cfg.PointerProfiles, 1)
	require.Equal(t, "overshoot", cfg.PointerProfiles[0].Settings.Mode)
	require.Equal(t, float64(0.5), cfg.PointerProfiles[0].Settings.StepsPerPixel)
	require.Equal(t, 25*time.Millisecond, cfg.Keyboard.BetweenKeysDelay)
}

type stubPointerDevice struct{}

func (stubPointerDevice) Position() (uivalue.Point, error)       { return uivalue.Point{}, nil }
func (stubPointerDevice) MoveTo(uivalue.Point) error             { return nil }
func (stubPointerDevice) Press(capability.MouseButton) error     { return nil }
func (stubPointerDevice) Release(capability.MouseButton) error   { return nil }
func (stubPointerDevice) Scroll(uivalue.Point) error             { return nil }

type stubDesktopInfo struct{}

func (stubDesktopInfo) Displays() ([]capability.Display, error) { return nil, nil }
func (stubDesktopInfo) DesktopBounds() (uivalue.Rect, error) {
	return uivalue.Rect{Width: 1920, Height: 1080}, nil
}

type stubKeyboardDevice struct{}

func (stubKeyboardDevice) Press(string) error                 { return nil }
func (stubKeyboardDevice) Release(string) error                { return nil }
func (stubKeyboardDevice) TypeText(string) error                { return nil }
func (stubKeyboardDevice) KnownKeyNames() ([]string, error)      { return []string{"Enter"}, nil }

func TestApplyPointerRegistersProfiles(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.PointerProfiles = []config.PointerProfile{{Name: "careful", Settings: config.PointerSettings{Mode: "overshoot"}}}
	cfg.PointerActiveProfile = "careful"

	eng, err := pointer.New(stubPointerDevice{}, stubDesktopInfo{})
	require.NoError(t, err)

	config.ApplyPointer(cfg, eng)
	require.Contains(t, eng.Profiles, "careful")
	require.Equal(t, pointer.Overshoot, eng.Profiles["careful"].Settings.Mode)
}

func TestApplyKeyboardRegistersProfiles(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.KeyboardProfiles = []config.KeyboardProfile{{Name: "slow", Settings: config.KeyboardSettings{BetweenKeysDelay: 50 * time.Millisecond}}}

	eng, err := keyboard.New(stubKeyboardDevice{})
	require.NoError(t, err)

	config.ApplyKeyboard(cfg, eng)
	require.Contains(t, eng.Profiles, "slow")
}
