package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyboardFlagsOverridesNilWhenUnset(t *testing.T) {
	f := &keyboardFlags{}
	require.Nil(t, f.overrides())
}

func TestKeyboardFlagsOverridesAppliesDelays(t *testing.T) {
	f := &keyboardFlags{betweenKeysDelay: 15, afterTextDelay: 20}
	ov := f.overrides()
	require.NotNil(t, ov)
	require.Equal(t, int64(15000000), int64(*ov.BetweenKeysDelay))
	require.Equal(t, int64(20000000), int64(*ov.AfterTextDelay))
	require.Nil(t, ov.ChordPressDelay)
}
