package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWriterCapturesLevels(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf)
	t.Cleanup(CloseLogger)

	DebugLog("plain %d", 1)
	LogWarning("careful %s", "now")
	LogError("broken")
	LogCandidate("/tmp/a.png", "MATCHED", "score=0.9")
	LogCandidate("/tmp/b.png", "NO_MATCH", "")

	out := buf.String()
	assert.Contains(t, out, "plain 1")
	assert.Contains(t, out, "WARNING: careful now")
	assert.Contains(t, out, "ERROR: broken")
	assert.Contains(t, out, "MATCHED: /tmp/a.png - score=0.9")
	assert.Contains(t, out, "NO_MATCH: /tmp/b.png")
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regionfinder.log")
	require.NoError(t, SetupLogger(path))

	DebugLog("hello from test")
	CloseLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Debug Log Started")
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), "Debug Log Closed")
}

func TestSilentWithoutSetup(t *testing.T) {
	CloseLogger()
	// Must not panic when nothing is configured.
	DebugLog("dropped")
	LogCandidate("x", "y", "z")
}
