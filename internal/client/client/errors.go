package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/htmlkeeper/internal/common"
)

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrTooLarge      = errors.New("request too large")
	ErrUnexpectedAPI = errors.New("unexpected api response")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Detail  string
	Stage   string
	Path    string
	File    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap maps the response onto a sentinel.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusRequestEntityTooLarge:
		return ErrTooLarge
	case e.Status == http.StatusServiceUnavailable:
		return ErrUnavailable
	case e.Status == http.StatusBadRequest:
		return common.ErrValidation
	case e.Status == http.StatusBadGateway || e.Stage == "mirroring":
		return common.ErrRemoteMirror
	case e.Stage == "indexing":
		return common.ErrIndexRebuild
	case e.Stage == "writing":
		return common.ErrLocalWrite
	default:
		return ErrUnexpectedAPI
	}
}
