package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
)

type SaveInput struct {
	FileName string `json:"fileName,omitempty"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

type SaveOutput struct {
	Message string `json:"message"`
	Path    string `json:"path"`
	URL     string `json:"url"`
}

type UploadOutput struct {
	Message string `json:"message"`
	File    string `json:"file"`
	URL     string `json:"url"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Stage   string `json:"stage"`
	Path    string `json:"path"`
	File    string `json:"file"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the server at baseURL
// (e.g. "http://localhost:3000"). timeout bounds each request; zero means none.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("server url %q must start with http:// or https://", baseURL)
	}
	return &HTTPClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}, nil
}

func (c *HTTPClient) SaveHTML(ctx context.Context, in SaveInput) (SaveOutput, error) {
	var out SaveOutput

	body, err := json.Marshal(in)
	if err != nil {
		return out, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/save-html", bytes.NewReader(body))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")

	err = c.do(req, &out)
	return out, err
}

// Upload streams r as the multipart "file" field named name. The body is
// produced through a pipe, so large files are never held in memory.
func (c *HTTPClient) Upload(ctx context.Context, name string, r io.Reader) (UploadOutput, error) {
	var out UploadOutput

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		pr.Close()
		return out, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	err = c.do(req, &out)
	pr.Close()
	return out, err
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrUnexpectedAPI, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body errorBody
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		}
		apiErr.Detail = body.Error
		apiErr.Stage = body.Stage
		apiErr.Path = body.Path
		apiErr.File = body.File
	} else if s := strings.TrimSpace(string(b)); s != "" {
		apiErr.Detail = s
	}
	return apiErr
}

// IsSavedLocally reports whether err still means the document reached the
// server's disk: it failed at indexing or mirroring, not before.
func IsSavedLocally(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return errors.Is(err, common.ErrIndexRebuild) || errors.Is(err, common.ErrRemoteMirror)
}
