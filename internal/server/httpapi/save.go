package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
	"github.com/dmitrijs2005/htmlkeeper/internal/pipeline"
)

const maxFormMemory = 1 << 20

type saveRequest struct {
	FileName string `json:"fileName"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// SaveResponse is returned after a document has been archived.
type SaveResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	URL     string `json:"url"`
}

// SaveHTML archives a text submission. The body is JSON
// {fileName?, title, content} or the same fields form-encoded.
func (h *Handler) SaveHTML(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.metrics.SavesTotal.Add(1)
	log := h.logger.With("request_id", RequestID(r.Context()))

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	req, err := decodeSave(r)
	if err != nil {
		h.metrics.SavesRejected.Add(1)
		status := statusFor(err)
		if status != http.StatusRequestEntityTooLarge {
			status = http.StatusBadRequest
		}
		log.Warn(r.Context(), "bad save request", "err", err)
		writeError(w, status, "请求体无效", err)
		return
	}

	res, err := h.svc.Save(r.Context(), pipeline.SaveRequest{
		FileName: req.FileName,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		h.countSaveFailure(err)
		writeJSON(w, statusFor(err), errorResponse{
			Message: saveFailureMessage(err),
			Error:   err.Error(),
			Stage:   string(pipeline.StageOf(err)),
			Path:    res.PublicPath,
		})
		return
	}

	log.Info(r.Context(), "document saved", "file", res.FileName, "url", res.RemoteURL)
	writeJSON(w, http.StatusOK, SaveResponse{
		Message: fmt.Sprintf("文件已保存为 %s", res.FileName),
		Path:    res.PublicPath,
		URL:     res.RemoteURL,
	})
}

func decodeSave(r *http.Request) (saveRequest, error) {
	var req saveRequest

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		var err error
		if ct == "multipart/form-data" {
			err = r.ParseMultipartForm(maxFormMemory)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return req, fmt.Errorf("parse form: %w", err)
		}
		req.FileName = r.PostForm.Get("fileName")
		req.Title = r.PostForm.Get("title")
		req.Content = r.PostForm.Get("content")
		return req, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("decode json: %w", err)
	}
	return req, nil
}

func (h *Handler) countSaveFailure(err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		h.metrics.SavesRejected.Add(1)
	case errors.Is(err, common.ErrLocalWrite):
		h.metrics.SavesFailedWrite.Add(1)
	case errors.Is(err, common.ErrIndexRebuild):
		h.metrics.SavesFailedIndex.Add(1)
	case errors.Is(err, common.ErrRemoteMirror):
		h.metrics.MirrorFailures.Add(1)
	}
}

func saveFailureMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		return "参数缺失"
	case errors.Is(err, common.ErrLocalWrite):
		return "保存失败"
	case errors.Is(err, common.ErrIndexRebuild):
		return "文件已保存，索引更新失败"
	case errors.Is(err, common.ErrRemoteMirror):
		return "文件已保存，远程上传失败"
	default:
		return "保存失败"
	}
}
