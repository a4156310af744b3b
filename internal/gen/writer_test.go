package gen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	files := []GeneratedFile{{Filename: "a_gen.go", Content: []byte("package a\n")}}

	changed, err := WriteFiles(files, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_gen.go"}, changed)

	path := filepath.Join(dir, "a_gen.go")
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	changed, err = WriteFiles(files, dir)
	require.NoError(t, err)
	assert.Empty(t, changed, "identical content is not rewritten")

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past))

	files[0].Content = []byte("package a\n\nvar X int\n")
	changed, err = WriteFiles(files, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_gen.go"}, changed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestRemoveStale(t *testing.T) {
	dir := t.TempDir()

	removed, err := RemoveStale(dir, "missing_gen.go")
	require.NoError(t, err)
	assert.False(t, removed)

	generated := filepath.Join(dir, "a_gen.go")
	require.NoError(t, os.WriteFile(generated, []byte(Header+"\n\npackage a\n"), 0o600))

	removed, err = RemoveStale(dir, "a_gen.go")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, generated)

	handwritten := filepath.Join(dir, "b_gen.go")
	require.NoError(t, os.WriteFile(handwritten, []byte("package a\n"), 0o600))

	removed, err = RemoveStale(dir, "b_gen.go")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.FileExists(t, handwritten)
}
