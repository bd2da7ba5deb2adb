package pipeline

import (
	"errors"
	"fmt"
)

// Stage names a step of a save or upload request.
type Stage string

const (
	StageValidating Stage = "validating"
	StageWriting    Stage = "writing"
	StageIndexing   Stage = "indexing"
	StageMirroring  Stage = "mirroring"
	StageDone       Stage = "done"
)

// StageError reports which stage failed. It matches both its kind (one of
// the common.Err* stage sentinels) and the underlying cause via errors.Is.
type StageError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// StageOf returns the failed stage recorded in err, or "" if err did not come
// from the pipeline.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
