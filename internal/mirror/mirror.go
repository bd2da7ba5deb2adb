// Package mirror copies locally stored files to a remote object store.
//
// Mirroring is best effort: a failed Put leaves the local file untouched and
// nothing records which files reached the remote side.
package mirror

import (
	"context"
	"mime"
	"path/filepath"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
)

// Mirror uploads the current bytes of localPath under key and returns a URL
// where the object can be fetched. Putting the same key twice overwrites.
type Mirror interface {
	Put(ctx context.Context, localPath, key string) (string, error)
}

// ArchiveKey is the remote key for an archived HTML document.
func ArchiveKey(fileName string) string {
	return common.ArchiveKeyPrefix + fileName
}

// UploadKey is the remote key for a raw upload.
func UploadKey(storedName string) string {
	return common.UploadKeyPrefix + storedName
}

// Nop is used when no remote store is configured.
type Nop struct{}

func (Nop) Put(context.Context, string, string) (string, error) {
	return "", common.ErrMirrorDisabled
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
