// Package workspace prepares the on-disk layout the server works in.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/htmlkeeper/internal/archive"
	"github.com/dmitrijs2005/htmlkeeper/internal/filex"
)

// Layout names the directories to prepare. ArchiveSubdir is relative to
// PublicDir so archived documents are reachable under /public.
type Layout struct {
	PublicDir     string
	ArchiveSubdir string
	UploadsDir    string
	IndexFileName string
}

// Workspace is proof that every directory in a Layout exists. Build it once
// at startup with Open and hand it to the components that write files.
type Workspace struct {
	PublicDir  string
	UploadsDir string
	Archive    *archive.Dir
}

func Open(l Layout) (*Workspace, error) {
	public, err := filex.EnsureDir(l.PublicDir)
	if err != nil {
		return nil, fmt.Errorf("public dir: %w", err)
	}

	archiveDir, err := filex.EnsureDir(filepath.Join(public, l.ArchiveSubdir))
	if err != nil {
		return nil, fmt.Errorf("archive dir: %w", err)
	}

	uploads, err := filex.EnsureDir(l.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("uploads dir: %w", err)
	}

	return &Workspace{
		PublicDir:  public,
		UploadsDir: uploads,
		Archive:    archive.NewDir(archiveDir, l.IndexFileName),
	}, nil
}

// ArchiveURLPath is the URL path prefix under which archived documents are
// served, e.g. "/public/archive/".
func (w *Workspace) ArchiveURLPath() string {
	rel, err := filepath.Rel(w.PublicDir, w.Archive.Path())
	if err != nil || rel == "." {
		return "/public/"
	}
	return "/public/" + filepath.ToSlash(rel) + "/"
}
