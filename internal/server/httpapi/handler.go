// Package httpapi exposes the archival pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/julienschmidt/httprouter"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
	"github.com/dmitrijs2005/htmlkeeper/internal/logging"
	"github.com/dmitrijs2005/htmlkeeper/internal/pipeline"
)

// Service is the part of the pipeline the handlers drive.
type Service interface {
	Save(ctx context.Context, req pipeline.SaveRequest) (pipeline.SaveResult, error)
	Upload(ctx context.Context, originalName string, body io.Reader) (pipeline.UploadResult, error)
}

// Options configures the HTTP surface.
type Options struct {
	// PublicDir is served under /public. Its index.html, if any, is the
	// landing page at /.
	PublicDir string
	// UploadsDir is served under /uploads.
	UploadsDir string

	MaxUploadBytes       int64
	MaxConcurrentUploads int
}

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	svc     Service
	opts    Options
	logger  logging.Logger
	metrics *Metrics
	limiter *UploadLimiter
}

// New registers all routes and returns the root http.Handler.
//
// Middleware stack (outer → inner):
//
//	RequestLog → CORS → router → UploadLimiter (uploads only) → handler
func New(svc Service, opts Options, logger logging.Logger) http.Handler {
	h := &Handler{
		svc:     svc,
		opts:    opts,
		logger:  logger,
		metrics: &Metrics{},
		limiter: NewUploadLimiter(opts.MaxConcurrentUploads),
	}

	r := httprouter.New()

	r.POST("/save-html", h.SaveHTML)
	r.Handler(http.MethodPost, "/upload", h.limiter.Limit(http.HandlerFunc(h.Upload)))

	r.GET("/", h.Landing)
	r.ServeFiles("/uploads/*filepath", http.Dir(opts.UploadsDir))
	r.ServeFiles("/public/*filepath", http.Dir(opts.PublicDir))

	r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handler(http.MethodGet, "/metrics", h.metrics.metricsHandler(h.limiter.Active))

	r.PanicHandler = func(w http.ResponseWriter, req *http.Request, v any) {
		logger.Error(req.Context(), "handler panic", "panic", v, "path", req.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}

	return RequestLog(logger)(CORS(r))
}

// Landing serves index.html from the public directory.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	path := filepath.Join(h.opts.PublicDir, common.IndexFileName)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Path    string `json:"path,omitempty"`
	File    string `json:"file,omitempty"`
}

// statusFor maps a pipeline error to an HTTP status: 400 for rejected input,
// 502 when only the remote mirror failed, 500 for local failures.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrRemoteMirror):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Message: msg}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}
