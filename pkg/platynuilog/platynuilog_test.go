package platynuilog_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/platynuilog"
)

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := platynuilog.New(platynuilog.LevelWarn, &buf)

	l.Info("should not appear")
	require.Empty(t, buf.String())

	l.Warn("should appear: %d", 42)
	require.Contains(t, buf.String(), "should appear: 42")
}

func TestWithPrefixTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := platynuilog.New(platynuilog.LevelDebug, &buf)
	tagged := l.WithPrefix("pointer")

	tagged.Debug("moved")
	require.Contains(t, buf.String(), "component=pointer")
	require.Contains(t, buf.String(), "moved")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, platynuilog.LevelDebug, platynuilog.ParseLevel("DEBUG"))
	require.Equal(t, platynuilog.LevelWarn, platynuilog.ParseLevel("warning"))
	require.Equal(t, platynuilog.LevelInfo, platynuilog.ParseLevel("bogus"))
}

func TestToolLoggerLifecycle(t *testing.T) {
	var buf bytes.Buffer
	platynuilog.SetOutput(&buf)
	platynuilog.SetLevel(platynuilog.LevelDebug)
	defer platynuilog.SetLevel(platynuilog.LevelInfo)

	tl := platynuilog.NewToolLogger("keyboard")
	tl.Start("run", "Enter")
	tl.Success("run", "ok")
	tl.Failure("run", errors.New("boom"))

	out := buf.String()
	require.Contains(t, out, "component=keyboard")
	require.Contains(t, out, "start run(Enter)")
}
