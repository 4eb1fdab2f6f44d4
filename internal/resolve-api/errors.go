package resolveApi

import (
	"errors"
	"fmt"
)

// Stable error codes produced by the Python bridge. The engine never keys
// behavior off these; they are passed through for diagnostics only.
const (
	CodeResolveNotRunning    = "RESOLVE_NOT_RUNNING"
	CodeNoProject            = "NO_PROJECT"
	CodeNoTimeline           = "NO_TIMELINE"
	CodeTimelineNotFound     = "TIMELINE_NOT_FOUND"
	CodeClipNotFound         = "CLIP_NOT_FOUND"
	CodeTrackNotFound        = "TRACK_NOT_FOUND"
	CodeMediaNotFound        = "MEDIA_NOT_FOUND"
	CodeImportFailed         = "IMPORT_FAILED"
	CodeRenderFailed         = "RENDER_FAILED"
	CodeInvalidProperty      = "INVALID_PROPERTY"
	CodeInvalidValue         = "INVALID_VALUE"
	CodePythonError          = "PYTHON_ERROR"
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
)

// BridgeError is a failure reported by the bridge for one operation.
// Its string form, "[CODE] message", is what ends up verbatim in the
// per-operation execution result.
type BridgeError struct {
	Code    string
	Message string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// IsBridgeError returns the typed bridge error when err is (or wraps) one.
func IsBridgeError(err error) (*BridgeError, bool) {
	var be *BridgeError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
