package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
	"github.com/dmitrijs2005/htmlkeeper/internal/pipeline"
)

// uploadField is the multipart field carrying the file.
const uploadField = "file"

// UploadResponse is returned after a file has been stored.
type UploadResponse struct {
	Message string `json:"message"`
	File    string `json:"file"`
	URL     string `json:"url"`
}

// Upload stores a multipart file. The part is streamed straight to disk,
// never buffered whole in memory.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	h.metrics.UploadsTotal.Add(1)
	log := h.logger.With("request_id", RequestID(r.Context()))

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		h.metrics.UploadsFailed.Add(1)
		writeError(w, http.StatusBadRequest, "未收到文件", err)
		return
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			h.metrics.UploadsFailed.Add(1)
			status := statusFor(err)
			if status != http.StatusRequestEntityTooLarge {
				status = http.StatusBadRequest
				err = common.ErrNoFile
			}
			writeError(w, status, "未收到文件", err)
			return
		}
		if part.FormName() != uploadField || part.FileName() == "" {
			part.Close()
			continue
		}

		res, err := h.svc.Upload(r.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			h.metrics.UploadsFailed.Add(1)
			if errors.Is(err, common.ErrRemoteMirror) {
				h.metrics.MirrorFailures.Add(1)
			}
			writeJSON(w, statusFor(err), errorResponse{
				Message: uploadFailureMessage(err),
				Error:   err.Error(),
				Stage:   string(pipeline.StageOf(err)),
				File:    res.StoredName,
			})
			return
		}

		h.metrics.BytesWritten.Add(res.Size)
		log.Info(r.Context(), "file uploaded", "file", res.StoredName, "bytes", res.Size, "url", res.RemoteURL)
		writeJSON(w, http.StatusOK, UploadResponse{
			Message: "上传成功",
			File:    res.StoredName,
			URL:     res.RemoteURL,
		})
		return
	}
}

func uploadFailureMessage(err error) string {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return "文件过大"
	case errors.Is(err, common.ErrValidation):
		return "未收到文件"
	case errors.Is(err, common.ErrRemoteMirror):
		return "上传 OSS 失败"
	default:
		return "保存失败"
	}
}
