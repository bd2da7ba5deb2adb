// Package pipeline sequences the archival steps for save and upload requests:
//
//	validating → writing → indexing → mirroring → done
//
// A failure stops the request at that stage. Earlier stages are never rolled
// back and nothing is retried; the returned result still describes what was
// completed so a caller can tell "never saved" from "saved but not indexed"
// from "saved and indexed but not mirrored".
package pipeline

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/htmlkeeper/internal/archive"
	"github.com/dmitrijs2005/htmlkeeper/internal/common"
	"github.com/dmitrijs2005/htmlkeeper/internal/filex"
	"github.com/dmitrijs2005/htmlkeeper/internal/logging"
	"github.com/dmitrijs2005/htmlkeeper/internal/mirror"
	"github.com/dmitrijs2005/htmlkeeper/internal/workspace"
)

// Archiver writes one rendered document into the archive directory.
type Archiver interface {
	Write(ctx context.Context, title, content, fileName string) (archive.Document, error)
}

// Indexer regenerates the archive index.
type Indexer interface {
	Rebuild(ctx context.Context) (archive.Index, error)
}

// SaveRequest is a text submission. FileName may be empty, in which case the
// document is named after Title.
type SaveRequest struct {
	FileName string
	Title    string
	Content  string
}

type SaveResult struct {
	Stage      Stage
	FileName   string
	LocalPath  string
	PublicPath string
	Indexed    bool
	Entries    int
	RemoteURL  string
}

type UploadResult struct {
	Stage      Stage
	StoredName string
	LocalPath  string
	PublicPath string
	Size       int64
	RemoteURL  string
}

type Options struct {
	// MirrorTimeout bounds each remote upload. Zero means no extra deadline.
	MirrorTimeout time.Duration

	Now func() time.Time
}

type Pipeline struct {
	ws       *workspace.Workspace
	archiver Archiver
	indexer  Indexer
	mirror   mirror.Mirror
	logger   logging.Logger
	opts     Options
}

func New(ws *workspace.Workspace, archiver Archiver, indexer Indexer, m mirror.Mirror, logger logging.Logger, opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if m == nil {
		m = mirror.Nop{}
	}
	return &Pipeline{
		ws:       ws,
		archiver: archiver,
		indexer:  indexer,
		mirror:   m,
		logger:   logger,
		opts:     opts,
	}
}

// Save archives a text submission, refreshes the index and mirrors the
// document.
func (p *Pipeline) Save(ctx context.Context, req SaveRequest) (SaveResult, error) {
	res := SaveResult{Stage: StageValidating}

	fileName, err := p.validateSave(req)
	if err != nil {
		return res, p.fail(ctx, StageValidating, common.ErrValidation, err)
	}
	res.FileName = fileName
	log := p.logger.With("file", fileName)

	res.Stage = StageWriting
	doc, err := p.archiver.Write(ctx, req.Title, req.Content, fileName)
	if err != nil {
		return res, p.fail(ctx, StageWriting, common.ErrLocalWrite, err)
	}
	res.LocalPath = doc.LocalPath
	res.PublicPath = p.ws.ArchiveURLPath() + url.PathEscape(fileName)
	log.Info(ctx, "document written", "bytes", len(doc.HTMLBody))

	res.Stage = StageIndexing
	idx, err := p.indexer.Rebuild(ctx)
	if err != nil {
		return res, p.fail(ctx, StageIndexing, common.ErrIndexRebuild, err)
	}
	res.Indexed = true
	res.Entries = len(idx.Entries)

	res.Stage = StageMirroring
	remoteURL, err := p.mirrorFile(ctx, doc.LocalPath, mirror.ArchiveKey(fileName))
	if err != nil {
		return res, p.fail(ctx, StageMirroring, common.ErrRemoteMirror, err)
	}
	res.RemoteURL = remoteURL

	res.Stage = StageDone
	log.Info(ctx, "document archived", "entries", res.Entries, "url", remoteURL)
	return res, nil
}

// Upload stores a raw file under a time-prefixed name and mirrors it.
func (p *Pipeline) Upload(ctx context.Context, originalName string, body io.Reader) (UploadResult, error) {
	res := UploadResult{Stage: StageValidating}

	if strings.TrimSpace(originalName) == "" {
		return res, p.fail(ctx, StageValidating, common.ErrValidation, common.ErrEmptyFileName)
	}
	if body == nil {
		return res, p.fail(ctx, StageValidating, common.ErrValidation, common.ErrNoFile)
	}

	stored := archive.StoredUploadName(p.opts.Now(), originalName)
	res.StoredName = stored
	log := p.logger.With("file", stored)

	res.Stage = StageWriting
	if err := ctx.Err(); err != nil {
		return res, p.fail(ctx, StageWriting, common.ErrLocalWrite, err)
	}
	path := filepath.Join(p.ws.UploadsDir, stored)
	n, err := filex.WriteAtomic(path, body, 0o644)
	if err != nil {
		return res, p.fail(ctx, StageWriting, common.ErrLocalWrite, err)
	}
	res.LocalPath = path
	res.PublicPath = "/uploads/" + url.PathEscape(stored)
	res.Size = n
	log.Info(ctx, "upload stored", "bytes", n)

	res.Stage = StageMirroring
	remoteURL, err := p.mirrorFile(ctx, path, mirror.UploadKey(stored))
	if err != nil {
		return res, p.fail(ctx, StageMirroring, common.ErrRemoteMirror, err)
	}
	res.RemoteURL = remoteURL

	res.Stage = StageDone
	return res, nil
}

// RebuildIndex refreshes the index outside of a save, e.g. at startup.
func (p *Pipeline) RebuildIndex(ctx context.Context) (archive.Index, error) {
	idx, err := p.indexer.Rebuild(ctx)
	if err != nil {
		return idx, &StageError{Stage: StageIndexing, Kind: common.ErrIndexRebuild, Err: err}
	}
	return idx, nil
}

func (p *Pipeline) validateSave(req SaveRequest) (string, error) {
	if strings.TrimSpace(req.Title) == "" {
		return "", common.ErrEmptyTitle
	}
	if strings.TrimSpace(req.Content) == "" {
		return "", common.ErrEmptyContent
	}

	name := req.FileName
	if name == "" {
		name = req.Title
	} else if strings.TrimSpace(name) == "" {
		return "", common.ErrEmptyFileName
	}

	fileName := archive.DocumentFileName(name)
	if p.ws.Archive.IsReserved(fileName) {
		return "", common.ErrReservedName
	}
	return fileName, nil
}

// mirrorFile uploads path under key. A disabled mirror is not a failure.
func (p *Pipeline) mirrorFile(ctx context.Context, path, key string) (string, error) {
	if p.opts.MirrorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.MirrorTimeout)
		defer cancel()
	}

	remoteURL, err := p.mirror.Put(ctx, path, key)
	if errors.Is(err, common.ErrMirrorDisabled) {
		p.logger.Debug(ctx, "remote mirror disabled, skipping", "key", key)
		return "", nil
	}
	return remoteURL, err
}

func (p *Pipeline) fail(ctx context.Context, stage Stage, kind, err error) error {
	if stage == StageValidating {
		p.logger.Warn(ctx, "request rejected", "stage", stage, "err", err)
	} else {
		p.logger.Error(ctx, "pipeline stage failed", "stage", stage, "err", err)
	}
	return &StageError{Stage: stage, Kind: kind, Err: err}
}
