package markit

import (
	"errors"
	"fmt"
)

// Sentinel errors for video opening failures. They are wrapped with the
// offending path, so match them with errors.Is.
var (
	ErrVideoNotFound      = errors.New("video file not found")
	ErrVideoOpenFailed    = errors.New("failed to open video file")
	ErrInvalidVideoFormat = errors.New("invalid video format or corrupted file")
	ErrEmptyVideo         = errors.New("no frames found in video")
)

// FrameError reports a failure while processing a single frame.
// A frame error aborts the whole detection run: scene continuity depends
// on every frame being scored against its immediate predecessor.
type FrameError struct {
	Frame  uint32
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame processing failed at frame %d: %s", e.Frame, e.Reason)
}

// ConfigError reports an invalid detector or timecode configuration.
// Configuration is never silently corrected.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Message
}

// InternalError reports a defensive invariant violation, such as a plane
// size mismatch that upstream validation should have made unreachable.
// It indicates a logic bug and is not recoverable.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message
}

func frameErrorf(frame uint32, format string, args ...any) *FrameError {
	return &FrameError{Frame: frame, Reason: fmt.Sprintf(format, args...)}
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

func internalErrorf(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
