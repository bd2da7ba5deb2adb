package archive

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
	"github.com/dmitrijs2005/htmlkeeper/internal/filex"
)

// IndexEntry is one line of the generated listing.
type IndexEntry struct {
	DisplayName string
	Link        string
}

// Index is a full snapshot of the archive directory.
type Index struct {
	Entries     []IndexEntry
	GeneratedAt time.Time
}

// Indexer regenerates the archive index page from scratch.
type Indexer struct {
	dir  *Dir
	page IndexPage
	now  func() time.Time
}

func NewIndexer(dir *Dir, page IndexPage) *Indexer {
	return &Indexer{dir: dir, page: page, now: time.Now}
}

// Rebuild scans the directory and overwrites the index file. Rebuilds are
// serialized with each other and with in-flight document writes.
//
// Entries follow os.ReadDir order. Callers must not rely on any particular
// ordering.
func (ix *Indexer) Rebuild(ctx context.Context) (Index, error) {
	if err := ctx.Err(); err != nil {
		return Index{}, err
	}

	ix.dir.mu.Lock()
	defer ix.dir.mu.Unlock()

	entries, err := os.ReadDir(ix.dir.path)
	if err != nil {
		return Index{}, fmt.Errorf("list %s: %w", ix.dir.path, err)
	}

	idx := Index{GeneratedAt: ix.now()}
	for _, e := range entries {
		name := e.Name()
		if !ix.listed(name, e.Type()) {
			continue
		}
		idx.Entries = append(idx.Entries, IndexEntry{
			DisplayName: strings.TrimSuffix(name, common.DocumentExt),
			Link:        "./" + url.PathEscape(name),
		})
	}

	page, err := ix.page.Render(idx.Entries)
	if err != nil {
		return Index{}, err
	}

	if err := filex.WriteFileAtomic(filepath.Join(ix.dir.path, ix.dir.indexName), page, 0o644); err != nil {
		return Index{}, err
	}

	return idx, nil
}

func (ix *Indexer) listed(name string, mode os.FileMode) bool {
	return mode.IsRegular() &&
		strings.HasSuffix(name, common.DocumentExt) &&
		name != ix.dir.indexName &&
		!filex.IsTemp(name)
}
