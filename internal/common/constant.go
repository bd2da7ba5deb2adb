package common

const (
	// DocumentExt is appended to every sanitized document name.
	DocumentExt = ".html"

	// IndexFileName is the generated listing inside the archive directory.
	IndexFileName = "index.html"

	// ArchiveKeyPrefix and UploadKeyPrefix namespace mirrored objects.
	ArchiveKeyPrefix = "public/archive/"
	UploadKeyPrefix  = "public/uploads/"

	// RequestIDHeaderName carries the per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)
