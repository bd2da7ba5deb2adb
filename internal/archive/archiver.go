// Package archive turns submitted text into standalone HTML documents inside
// an archive directory and keeps the directory's index page current.
//
// Document writes share the directory; index rebuilds own it. The RWMutex in
// Dir enforces that split so a rebuild always observes every document whose
// write completed before it started.
package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
	"github.com/dmitrijs2005/htmlkeeper/internal/filex"
)

// Document is one archived submission.
type Document struct {
	Title      string
	RawContent string
	FileName   string
	HTMLBody   []byte
	LocalPath  string
}

// Dir is an archive directory and the lock coordinating its writers.
type Dir struct {
	path      string
	indexName string
	mu        sync.RWMutex
}

// NewDir wraps an existing directory. indexName defaults to index.html.
func NewDir(path, indexName string) *Dir {
	if indexName == "" {
		indexName = common.IndexFileName
	}
	return &Dir{path: path, indexName: indexName}
}

func (d *Dir) Path() string      { return d.path }
func (d *Dir) IndexName() string { return d.indexName }

// IsReserved reports whether fileName would clobber the generated index.
func (d *Dir) IsReserved(fileName string) bool {
	return strings.EqualFold(fileName, d.indexName)
}

// Archiver renders documents and writes them into a Dir.
type Archiver struct {
	dir      *Dir
	renderer Renderer
}

func NewArchiver(dir *Dir, renderer Renderer) *Archiver {
	return &Archiver{dir: dir, renderer: renderer}
}

// Write renders (title, content) and stores it as dir/fileName, replacing any
// previous file of that name. fileName must already be sanitized.
func (a *Archiver) Write(ctx context.Context, title, content, fileName string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if fileName == "" || fileName != filepath.Base(fileName) || strings.ContainsAny(fileName, `/\`) {
		return Document{}, fmt.Errorf("invalid document name %q", fileName)
	}

	body, err := a.renderer.Render(title, content)
	if err != nil {
		return Document{}, err
	}

	path := filepath.Join(a.dir.path, fileName)

	a.dir.mu.RLock()
	err = filex.WriteFileAtomic(path, body, 0o644)
	a.dir.mu.RUnlock()
	if err != nil {
		return Document{}, err
	}

	return Document{
		Title:      title,
		RawContent: content,
		FileName:   fileName,
		HTMLBody:   body,
		LocalPath:  path,
	}, nil
}
