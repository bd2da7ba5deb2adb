package mirror

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/dmitrijs2005/htmlkeeper/internal/logging"
)

type fakeObjectWriter struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (w *fakeObjectWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func TestGCSMirror_Put(t *testing.T) {
	w := &fakeObjectWriter{}
	var gotBucket, gotKey, gotType string

	m := &GCSMirror{
		cfg: GCSConfig{Bucket: "archive-bucket"},
		newWriter: func(ctx context.Context, bucket, key, contentType string) io.WriteCloser {
			gotBucket, gotKey, gotType = bucket, key, contentType
			return w
		},
		logger: logging.Discard(),
	}
	path := writeLocal(t, "photo.png", "PNGDATA")

	url, err := m.Put(context.Background(), path, UploadKey("1-photo.png"))
	require.NoError(t, err)

	assert.Equal(t, "https://storage.googleapis.com/archive-bucket/public/uploads/1-photo.png", url)
	assert.Equal(t, "archive-bucket", gotBucket)
	assert.Equal(t, "public/uploads/1-photo.png", gotKey)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "PNGDATA", w.String())
	assert.True(t, w.closed)
}

func TestGCSMirror_CloseError(t *testing.T) {
	m := &GCSMirror{
		cfg: GCSConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com"},
		newWriter: func(context.Context, string, string, string) io.WriteCloser {
			return &fakeObjectWriter{closeErr: errors.New("quota exceeded")}
		},
		logger: logging.Discard(),
	}
	path := writeLocal(t, "a.html", "x")

	_, err := m.Put(context.Background(), path, "public/archive/a.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "gs://b/public/archive/a.html")

	assert.Equal(t, "https://cdn.example.com/public/archive/a.html", m.ObjectURL("public/archive/a.html"))
}

func TestNewGCSMirror_Errors(t *testing.T) {
	orig := newGCSClient
	t.Cleanup(func() { newGCSClient = orig })

	_, err := NewGCSMirror(context.Background(), GCSConfig{}, logging.Discard())
	assert.Error(t, err)

	var gotOpts int
	newGCSClient = func(ctx context.Context, opts ...option.ClientOption) (*storage.Client, error) {
		gotOpts = len(opts)
		return nil, errors.New("no credentials")
	}
	_, err = NewGCSMirror(context.Background(), GCSConfig{Bucket: "b", CredentialsFile: "/etc/sa.json"}, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
	assert.Equal(t, 1, gotOpts)
}

func TestGCSMirror_CloseWithoutClient(t *testing.T) {
	assert.NoError(t, (&GCSMirror{}).Close())
}
