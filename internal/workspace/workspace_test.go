package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesLayout(t *testing.T) {
	root := t.TempDir()

	ws, err := Open(Layout{
		PublicDir:     filepath.Join(root, "public"),
		ArchiveSubdir: "archive",
		UploadsDir:    filepath.Join(root, "uploads"),
	})
	require.NoError(t, err)

	for _, dir := range []string{ws.PublicDir, ws.UploadsDir, ws.Archive.Path()} {
		fi, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, fi.IsDir(), dir)
	}

	assert.Equal(t, filepath.Join(root, "public", "archive"), ws.Archive.Path())
	assert.Equal(t, "index.html", ws.Archive.IndexName())
	assert.Equal(t, "/public/archive/", ws.ArchiveURLPath())
}

func TestOpen_CustomIndexAndNestedArchive(t *testing.T) {
	root := t.TempDir()

	ws, err := Open(Layout{
		PublicDir:     filepath.Join(root, "public"),
		ArchiveSubdir: filepath.Join("docs", "archive"),
		UploadsDir:    filepath.Join(root, "uploads"),
		IndexFileName: "list.html",
	})
	require.NoError(t, err)

	assert.Equal(t, "list.html", ws.Archive.IndexName())
	assert.Equal(t, "/public/docs/archive/", ws.ArchiveURLPath())
}

func TestOpen_FailsWhenPathIsAFile(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "uploads")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := Open(Layout{
		PublicDir:     filepath.Join(root, "public"),
		ArchiveSubdir: "archive",
		UploadsDir:    blocker,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uploads dir")
}
