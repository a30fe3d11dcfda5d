package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false, false).Debug("hidden")
	require.Empty(t, buf.String())

	New(&buf, true, false).Debug("shown", "k", 1)
	require.Contains(t, buf.String(), "level=DEBUG")
	require.Contains(t, buf.String(), "k=1")
}

func TestColorizingWriter(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false, true).Warn("careful")
	require.Contains(t, buf.String(), "level="+ansiYellow+"WARN"+ansiReset)
}

func TestColorEnabledEnv(t *testing.T) {
	t.Setenv("CLICOLOR_FORCE", "1")
	require.True(t, colorEnabled(nil))

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("NO_COLOR", "1")
	require.False(t, colorEnabled(nil))
}
