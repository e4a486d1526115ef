package uivalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringFormTrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "800", Number(800).StringForm())
	assert.Equal(t, "0.5", Number(0.5).StringForm())
	assert.Equal(t, "", Null().StringForm())
}

func TestExpandAliasesRect(t *testing.T) {
	v := FromRect(Rect{X: 0, Y: 10, Width: 800, Height: 600})
	aliases := ExpandAliases(v)
	require.Len(t, aliases, 4)

	byName := map[string]Value{}
	for _, a := range aliases {
		byName[a.Name] = a.Value
	}
	x, _ := byName["X"].NumericValue()
	y, _ := byName["Y"].NumericValue()
	w, _ := byName["Width"].NumericValue()
	h, _ := byName["Height"].NumericValue()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 10.0, y)
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)
}

func TestExpandAliasesPoint(t *testing.T) {
	v := FromPoint(Point{X: 12, Y: 34})
	aliases := ExpandAliases(v)
	require.Len(t, aliases, 2)
}

func TestExpandAliasesNonStructural(t *testing.T) {
	assert.Empty(t, ExpandAliases(String("hello")))
	assert.Empty(t, ExpandAliases(Integer(5)))
}

func TestEffectiveBoolean(t *testing.T) {
	assert.False(t, Null().EffectiveBoolean())
	assert.False(t, String("").EffectiveBoolean())
	assert.True(t, String("x").EffectiveBoolean())
	assert.False(t, Integer(0).EffectiveBoolean())
	assert.True(t, Integer(1).EffectiveBoolean())
	assert.True(t, Bool(true).EffectiveBoolean())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Integer(5), Integer(5)))
	assert.False(t, Equal(Integer(5), Number(5)))
	assert.True(t, Equal(FromRect(Rect{1, 2, 3, 4}), FromRect(Rect{1, 2, 3, 4})))
}
