// Package client talks to the htmlkeeper HTTP API.
//
// HTTPClient submits text documents (SaveHTML) and streams files (Upload).
// Failed requests come back as *APIError, which matches the pipeline stage
// sentinels from internal/common with errors.Is, so a caller can tell a
// rejected request from one that was saved but not mirrored. Transport
// failures and 503 responses match ErrUnavailable.
package client
