package keyboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	names    []string
	presses  []string
	releases []string
	typed    []string
}

func (f *fakeDevice) Press(keyID string) error {
	f.presses = append(f.presses, keyID)
	return nil
}

func (f *fakeDevice) Release(keyID string) error {
	f.releases = append(f.releases, keyID)
	return nil
}

func (f *fakeDevice) TypeText(text string) error {
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeDevice) KnownKeyNames() ([]string, error) { return f.names, nil }

func newTestEngine(t *testing.T) (*Engine, *fakeDevice) {
	t.Helper()
	dev := &fakeDevice{names: []string{"Control", "Shift", "S", "Enter", "F5", "A"}}
	e, err := New(dev)
	require.NoError(t, err)
	e.sleep = func(time.Duration) {}
	return e, dev
}

func TestRunSingleKeyPressesAndReleases(t *testing.T) {
	e, dev := newTestEngine(t)
	require.NoError(t, e.Run("Enter", Call{}))
	require.Equal(t, []string{"Enter"}, dev.presses)
	require.Equal(t, []string{"Enter"}, dev.releases)
}

func TestRunTextRunTypesViaDevice(t *testing.T) {
	e, dev := newTestEngine(t)
	require.NoError(t, e.Run(`"hello"`, Call{}))
	require.Equal(t, []string{"hello"}, dev.typed)
	require.Empty(t, dev.presses)
}

func TestRunChordPressesInOrderReleasesReversed(t *testing.T) {
	e, dev := newTestEngine(t)
	require.NoError(t, e.Run("[Control Shift S]", Call{}))
	require.Equal(t, []string{"Control", "Shift", "S"}, dev.presses)
	require.Equal(t, []string{"S", "Shift", "Control"}, dev.releases)
}

func TestPressThenReleaseHoldsAcrossCalls(t *testing.T) {
	e, dev := newTestEngine(t)
	require.NoError(t, e.Press("Control", Call{}))
	require.Equal(t, []string{"Control"}, dev.presses)
	require.Empty(t, dev.releases)

	require.NoError(t, e.Release("Control", Call{}))
	require.Equal(t, []string{"Control"}, dev.releases)
}

func TestUnknownKeyRaisesUnknownKeyError(t *testing.T) {
	e, _ := newTestEngine(t)
	err := e.Run("Nonexistent", Call{})
	require.Error(t, err)
	var uk *UnknownKeyError
	require.ErrorAs(t, err, &uk)
	require.Equal(t, "Nonexistent", uk.Key)
}

func TestTypeConvenienceWrapper(t *testing.T) {
	e, dev := newTestEngine(t)
	require.NoError(t, e.Type("plain text, no DSL: []\"", Call{}))
	require.Equal(t, []string{`plain text, no DSL: []"`}, dev.typed)
}

func TestKnownKeyNamesDelegates(t *testing.T) {
	e, _ := newTestEngine(t)
	names, err := e.KnownKeyNames()
	require.NoError(t, err)
	require.Contains(t, names, "Enter")
}

func TestOverridesLayerOverSettings(t *testing.T) {
	e, _ := newTestEngine(t)
	d := 0 * time.Millisecond
	err := e.Run("Enter", Call{Overrides: &Overrides{PressDelay: &d, ReleaseDelay: &d}})
	require.NoError(t, err)

	r := e.resolveCall(Call{Overrides: &Overrides{PressDelay: &d, ReleaseDelay: &d}})
	require.Equal(t, d, r.PressDelay)
	require.Equal(t, d, r.ReleaseDelay)
	require.Equal(t, 15*time.Millisecond, r.BetweenKeysDelay)
}
