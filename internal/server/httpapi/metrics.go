package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Metrics holds process-lifetime counters exposed at GET /metrics.
type Metrics struct {
	SavesTotal       atomic.Int64
	SavesRejected    atomic.Int64 // validation failures, nothing written
	SavesFailedWrite atomic.Int64
	SavesFailedIndex atomic.Int64 // saved but not indexed
	MirrorFailures   atomic.Int64 // saved locally but not mirrored (saves and uploads)
	UploadsTotal     atomic.Int64
	UploadsFailed    atomic.Int64
	BytesWritten     atomic.Int64 // upload bytes committed to disk
}

// metricsHandler serialises a counter snapshot as flat JSON. activeFunc
// reports in-flight uploads from the limiter at render time.
func (m *Metrics) metricsHandler(activeFunc func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{ //nolint:errcheck
			"saves_total":          m.SavesTotal.Load(),
			"saves_rejected":       m.SavesRejected.Load(),
			"saves_failed_write":   m.SavesFailedWrite.Load(),
			"saves_failed_index":   m.SavesFailedIndex.Load(),
			"mirror_failures":      m.MirrorFailures.Load(),
			"uploads_total":        m.UploadsTotal.Load(),
			"uploads_failed":       m.UploadsFailed.Load(),
			"upload_bytes_written": m.BytesWritten.Load(),
			"active_uploads":       int64(activeFunc()),
		})
	}
}
