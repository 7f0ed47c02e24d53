package wizard

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by wizard operations.
var (
	// ErrClosed is returned by every operation after Close or a successful Submit.
	ErrClosed = errors.New("wizard is closed")

	// ErrSubmissionInFlight is returned while a submission is pending.
	ErrSubmissionInFlight = errors.New("submission already in progress")

	// ErrNotOnFinalStep is returned by Submit before the photos step.
	ErrNotOnFinalStep = errors.New("submit is only allowed on the final step")

	// ErrPhotoIndex is returned by RemovePhoto for an index out of range.
	ErrPhotoIndex = errors.New("photo index out of range")

	// ErrUnknownHandle is returned when releasing a handle that is not live.
	ErrUnknownHandle = errors.New("unknown or released preview handle")
)

// UploadErrorKind classifies upload constraint violations.
type UploadErrorKind string

// Upload constraint kinds.
const (
	OversizeFile  UploadErrorKind = "oversize_file"
	TooManyPhotos UploadErrorKind = "too_many_photos"
)

// UploadError is a recoverable upload constraint violation. Oversize files
// are reported as notices alongside accepted photos; a batch that would
// exceed the photo limit is returned as an error and nothing is added.
type UploadError struct {
	Kind  UploadErrorKind
	File  string // offending file for OversizeFile
	Size  int64  // file size or resulting photo count
	Limit int64
}

func (e *UploadError) Error() string {
	switch e.Kind {
	case OversizeFile:
		return fmt.Sprintf("%s is larger than %s", e.File, formatBytes(e.Limit))
	case TooManyPhotos:
		return fmt.Sprintf("maximum %d photos allowed (would have %d)", e.Limit, e.Size)
	default:
		return string(e.Kind)
	}
}

// SubmitError wraps a failure returned by the Creator. The wizard state is
// left intact so the submission can be retried.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to create property: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

func formatBytes(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	return fmt.Sprintf("%d bytes", n)
}
