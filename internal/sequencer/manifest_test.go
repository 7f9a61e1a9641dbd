package sequencer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestParseManifest_SkipsBlankAndComments(t *testing.T) {
	input := "a.png\n\n   \n# skipped\n  b.jpg  \n"
	images, err := ParseManifest(strings.NewReader(input), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.jpg"}, images)
}

func TestParseManifest_RelativeToBase(t *testing.T) {
	images, err := ParseManifest(strings.NewReader("x/a.png\n/root/b.png\n"), "/data")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("/data", "x", "a.png"), "/root/b.png"}, images)
}

func TestParseManifest_Globs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "run1", "f002.png"))
	touch(t, filepath.Join(dir, "run1", "f001.png"))
	touch(t, filepath.Join(dir, "run2", "deep", "f003.png"))
	touch(t, filepath.Join(dir, "run2", "notes.txt"))

	images, err := ParseManifest(strings.NewReader("first.png\n**/*\n"), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "first.png"),
		filepath.Join(dir, "run1", "f001.png"),
		filepath.Join(dir, "run1", "f002.png"),
		filepath.Join(dir, "run2", "deep", "f003.png"),
	}, images)
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
