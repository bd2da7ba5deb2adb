// Package common defines shared constants and sentinel errors used across
// the htmlkeeper server and CLI. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Pipeline stage errors. Each one tells the caller how far a request got
	// before it failed.
	ErrValidation   = errors.New("validation error")
	ErrLocalWrite   = errors.New("local write failed")
	ErrIndexRebuild = errors.New("index rebuild failed")
	ErrRemoteMirror = errors.New("remote mirror failed")

	// Remote store errors.
	ErrMirrorDisabled = errors.New("remote mirror disabled")

	// Input errors.
	ErrEmptyTitle    = errors.New("title is empty")
	ErrEmptyContent  = errors.New("content is empty")
	ErrEmptyFileName = errors.New("file name is empty")
	ErrReservedName  = errors.New("file name is reserved")
	ErrNoFile        = errors.New("no file received")
)
