package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/dmitrijs2005/htmlkeeper/internal/logging"
	"github.com/dmitrijs2005/htmlkeeper/internal/netx"
)

const gcsPublicBase = "https://storage.googleapis.com"

var newGCSClient = storage.NewClient

// GCSConfig describes a Google Cloud Storage bucket. An empty
// CredentialsFile means Application Default Credentials.
type GCSConfig struct {
	Bucket          string
	CredentialsFile string
	PublicBaseURL   string
}

type objectWriterFunc func(ctx context.Context, bucket, key, contentType string) io.WriteCloser

type GCSMirror struct {
	cfg       GCSConfig
	newWriter objectWriterFunc
	closer    io.Closer
	logger    logging.Logger
}

func NewGCSMirror(ctx context.Context, cfg GCSConfig, logger logging.Logger) (*GCSMirror, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is not configured")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := newGCSClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &GCSMirror{
		cfg: cfg,
		newWriter: func(ctx context.Context, bucket, key, contentType string) io.WriteCloser {
			w := client.Bucket(bucket).Object(key).NewWriter(ctx)
			w.ContentType = contentType
			return w
		},
		closer: client,
		logger: logger,
	}, nil
}

func (m *GCSMirror) Put(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %q: %w", localPath, err)
	}
	defer f.Close()

	// Cancelling the writer's context is how an object write is aborted.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := m.newWriter(ctx, m.cfg.Bucket, key, contentType(localPath))
	n, err := io.Copy(w, f)
	if err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("put gs://%s/%s: %w", m.cfg.Bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("put gs://%s/%s: %w", m.cfg.Bucket, key, err)
	}

	url := m.ObjectURL(key)
	m.logger.Debug(ctx, "mirrored to gcs", "key", key, "bytes", n, "url", url)
	return url, nil
}

func (m *GCSMirror) ObjectURL(key string) string {
	if m.cfg.PublicBaseURL != "" {
		return netx.JoinURL(m.cfg.PublicBaseURL, key)
	}
	return netx.JoinURL(gcsPublicBase, m.cfg.Bucket+"/"+key)
}

func (m *GCSMirror) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}
