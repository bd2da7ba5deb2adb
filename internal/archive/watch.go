package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
	"github.com/dmitrijs2005/htmlkeeper/internal/filex"
	"github.com/dmitrijs2005/htmlkeeper/internal/logging"
)

const defaultWatchDebounce = 250 * time.Millisecond

// Watcher rebuilds the index when documents appear in or vanish from the
// archive directory without going through the pipeline (copied in by hand,
// deleted by an operator).
type Watcher struct {
	indexer  *Indexer
	logger   logging.Logger
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

func NewWatcher(indexer *Indexer, logger logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(indexer.dir.path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", indexer.dir.path, err)
	}
	return &Watcher{
		indexer:  indexer,
		logger:   logger,
		fsw:      fsw,
		debounce: defaultWatchDebounce,
	}, nil
}

// Run blocks until ctx is done, coalescing bursts of events into one rebuild.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "archive watcher error", "err", err)

		case <-fire:
			fire = nil
			idx, err := w.indexer.Rebuild(ctx)
			if err != nil {
				w.logger.Error(ctx, "index rebuild after external change failed", "err", err)
				continue
			}
			w.logger.Info(ctx, "index rebuilt after external change", "entries", len(idx.Entries))
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	return strings.HasSuffix(name, common.DocumentExt) &&
		name != w.indexer.dir.indexName &&
		!filex.IsTemp(name)
}
