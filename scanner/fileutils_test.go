package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regionfinder/types"
)

func TestExtensionFilter(t *testing.T) {
	insensitive := NewExtensionFilter([]string{".png", ".JPEG"}, false)
	assert.True(t, insensitive.Match("a.png"))
	assert.True(t, insensitive.Match("a.PNG"))
	assert.True(t, insensitive.Match("dir/b.jpeg"))
	assert.False(t, insensitive.Match("b.jpg"))
	assert.False(t, insensitive.Match("png"))
	assert.False(t, insensitive.Match("noext"))

	sensitive := NewExtensionFilter([]string{".png"}, true)
	assert.True(t, sensitive.Match("a.png"))
	assert.False(t, sensitive.Match("a.PNG"))
}

func TestCollectCandidates(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"z.png", "a.jpeg", "sub/b.png", "sub/skip.txt", "sub/deeper/c.PNG", "d.gif"} {
		writeFile(t, filepath.Join(root, name), []byte("x"))
	}

	candidates, err := CollectCandidates(context.Background(), root, NewExtensionFilter([]string{".png", ".jpeg"}, false))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.jpeg"),
		filepath.Join(root, "sub", "b.png"),
		filepath.Join(root, "sub", "deeper", "c.PNG"),
		filepath.Join(root, "z.png"),
	}, candidates)
}

func TestCollectCandidatesMissingRoot(t *testing.T) {
	candidates, err := CollectCandidates(context.Background(), filepath.Join(t.TempDir(), "gone"), NewExtensionFilter([]string{".png"}, false))
	assert.ErrorIs(t, err, types.ErrInaccessibleDirectory)
	assert.Nil(t, candidates)
}

func TestCollectCandidatesSkipsUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.png"), []byte("x"))
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "hidden.png"), []byte("x"))
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	candidates, err := CollectCandidates(context.Background(), root, NewExtensionFilter([]string{".png"}, false))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.png")}, candidates)
}

func TestCollectCandidatesCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.png"), []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CollectCandidates(ctx, root, NewExtensionFilter([]string{".png"}, false))
	assert.ErrorIs(t, err, context.Canceled)
}
