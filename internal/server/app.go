// Package server wires the archive, remote mirror and HTTP API together and
// runs them until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/htmlkeeper/internal/archive"
	"github.com/dmitrijs2005/htmlkeeper/internal/logging"
	"github.com/dmitrijs2005/htmlkeeper/internal/mirror"
	"github.com/dmitrijs2005/htmlkeeper/internal/pipeline"
	"github.com/dmitrijs2005/htmlkeeper/internal/server/config"
	"github.com/dmitrijs2005/htmlkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/htmlkeeper/internal/workspace"
)

const (
	BackendS3   = "s3"
	BackendGCS  = "gcs"
	BackendNone = "none"
)

const defaultShutdownTimeout = 30 * time.Second

type App struct {
	config   *config.Config
	logger   *logging.SlogLogger
	ws       *workspace.Workspace
	indexer  *archive.Indexer
	pipeline *pipeline.Pipeline
	handler  http.Handler
	closers  []io.Closer

	listening chan struct{}
	addr      net.Addr
}

// NewApp builds every component from c. Nothing is started until Run.
func NewApp(c *config.Config) (*App, error) {
	return newApp(c, logging.NewJSON(os.Stdout, c.LogLevel))
}

func newApp(c *config.Config, logger *logging.SlogLogger) (*App, error) {
	ctx := context.Background()

	escape, err := archive.ParseEscapeMode(c.EscapeMode)
	if err != nil {
		return nil, err
	}

	ws, err := workspace.Open(workspace.Layout{
		PublicDir:     c.PublicDir,
		ArchiveSubdir: c.ArchiveSubdir,
		UploadsDir:    c.UploadsDir,
		IndexFileName: c.IndexFileName,
	})
	if err != nil {
		return nil, fmt.Errorf("workspace init error: %w", err)
	}

	m, closer, err := newMirror(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("remote mirror init error: %w", err)
	}

	archiver := archive.NewArchiver(ws.Archive, archive.Renderer{Lang: c.Lang, Escape: escape})
	indexer := archive.NewIndexer(ws.Archive, archive.IndexPage{Lang: c.Lang, Title: c.IndexTitle})
	p := pipeline.New(ws, archiver, indexer, m, logger, pipeline.Options{MirrorTimeout: c.MirrorTimeout})

	h := httpapi.New(p, httpapi.Options{
		PublicDir:            ws.PublicDir,
		UploadsDir:           ws.UploadsDir,
		MaxUploadBytes:       c.MaxUploadBytes,
		MaxConcurrentUploads: c.MaxConcurrentUploads,
	}, logger)

	app := &App{
		config:    c,
		logger:    logger,
		ws:        ws,
		indexer:   indexer,
		pipeline:  p,
		handler:   h,
		listening: make(chan struct{}),
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

// newMirror picks the remote store named by RemoteBackend. The returned
// closer is nil when the backend holds no resources.
func newMirror(ctx context.Context, c *config.Config, logger logging.Logger) (mirror.Mirror, io.Closer, error) {
	switch c.RemoteBackend {
	case BackendS3:
		m, err := mirror.NewS3Mirror(ctx, mirror.S3Config{
			Region:        c.S3Region,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Bucket:        c.S3Bucket,
			BaseEndpoint:  c.S3BaseEndpoint,
			UsePathStyle:  c.S3UsePathStyle,
			PublicBaseURL: c.PublicBaseURL,
		}, logger)
		return m, nil, err
	case BackendGCS:
		m, err := mirror.NewGCSMirror(ctx, mirror.GCSConfig{
			Bucket:          c.GCSBucket,
			CredentialsFile: c.GCSCredentialsFile,
			PublicBaseURL:   c.PublicBaseURL,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return m, m, nil
	case BackendNone, "":
		return mirror.Nop{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown remote backend %q", c.RemoteBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until ctx is cancelled or a shutdown signal arrives, then
// drains in-flight requests for up to ShutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...",
		"addr", app.config.ListenAddr,
		"archive", app.ws.Archive.Path(),
		"remote", app.config.RemoteBackend)

	app.initSignalHandler(cancelFunc)

	if idx, err := app.pipeline.RebuildIndex(ctx); err != nil {
		app.logger.Warn(ctx, "initial index build failed", "err", err)
	} else {
		app.logger.Info(ctx, "index built", "entries", len(idx.Entries))
	}

	ln, err := net.Listen("tcp", app.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.ListenAddr, err)
	}
	app.addr = ln.Addr()
	close(app.listening)

	srv := &http.Server{
		Handler:  app.handler,
		ErrorLog: slog.NewLogLogger(app.logger.Slog().Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(ctx, "shutdown requested, draining connections")

		timeout := app.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if app.config.WatchArchive {
		w, err := archive.NewWatcher(app.indexer, app.logger)
		if err != nil {
			app.logger.Warn(ctx, "archive watcher disabled", "err", err)
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	err = g.Wait()
	app.logger.Info(ctx, "app stopped")
	return err
}

// Ready is closed once the HTTP listener is bound.
func (app *App) Ready() <-chan struct{} { return app.listening }

// Addr is the bound listen address. Valid after Ready is closed.
func (app *App) Addr() net.Addr { return app.addr }

func (app *App) close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "err", err)
		}
	}
}
