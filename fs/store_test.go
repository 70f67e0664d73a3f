package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Atomic File Storage
// The store uses temp directory for atomic updates

func TestFileStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewFileStore(base, "markdown")

	// When I save a file
	err := store.Save("detox-basics.md", []byte("# Detox"))

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the temp directory (not final)
	_, err = os.Stat(filepath.Join(base, "markdown.tmp", "detox-basics.md"))
	require.NoError(t, err, "file should exist in temp directory")

	// And final directory does not exist yet
	_, err = os.Stat(filepath.Join(base, "markdown"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestFileStore_CommitReplacesFinalDirectory(t *testing.T) {
	t.Parallel()

	// Given a final directory left over from a previous run
	base := t.TempDir()
	stale := filepath.Join(base, "markdown", "stale.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	// And a store with a saved file
	store := fs.NewFileStore(base, "markdown")
	require.NoError(t, store.Save("a.md", []byte("# A")))

	// When I commit
	err := store.Commit()

	// Then the new file is in place
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "markdown", "a.md"))
	require.NoError(t, err)

	// And the stale file is gone
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "previous output should be replaced")

	// And temp directory is gone
	_, err = os.Stat(filepath.Join(base, "markdown.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after commit")
}

func TestFileStore_CommitWithoutFilesCreatesEmptyDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "markdown")

	require.NoError(t, store.Commit())

	entries, err := os.ReadDir(filepath.Join(base, "markdown"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store with saved files
	base := t.TempDir()
	store := fs.NewFileStore(base, "markdown")
	require.NoError(t, store.Save("a.md", []byte("# A")))

	// When I abort
	err := store.Abort()

	// Then no error occurs
	require.NoError(t, err)

	// And temp directory is cleaned up
	_, err = os.Stat(filepath.Join(base, "markdown.tmp"))
	assert.True(t, os.IsNotExist(err), "temp directory should be removed after abort")

	// And final directory doesn't exist
	_, err = os.Stat(filepath.Join(base, "markdown"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist after abort")
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(t.TempDir(), "markdown")

	for _, path := range []string{"../../etc/passwd", "/etc/passwd", ""} {
		err := store.Save(path, []byte("bad content"))

		require.Error(t, err, path)
		assert.Equal(t, wxrport.EINVALID, wxrport.ErrorCode(err), path)
		assert.Contains(t, err.Error(), "path traversal")
	}
}
