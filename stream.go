package markit

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// Stream wraps a gocv video capture with validated metadata and sequential
// frame reading. Frames keep stable dimensions and a fixed framerate for
// the whole run; the constructor rejects files where that cannot hold.
type Stream struct {
	cap          *gocv.VideoCapture
	path         string
	fps          float64
	frameCount   uint32
	width        int
	height       int
	currentFrame uint32
}

// OpenStream opens a video file for frame-at-a-time reading.
func OpenStream(path string) (*Stream, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrVideoNotFound)
	}

	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrVideoOpenFailed)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrVideoOpenFailed)
	}

	fps := cap.Get(gocv.VideoCaptureFPS)
	frameCount := cap.Get(gocv.VideoCaptureFrameCount)
	width := int(cap.Get(gocv.VideoCaptureFrameWidth))
	height := int(cap.Get(gocv.VideoCaptureFrameHeight))

	if fps <= 0 {
		cap.Close()
		return nil, fmt.Errorf("%s: framerate %v: %w", path, fps, ErrInvalidVideoFormat)
	}
	if frameCount <= 0 {
		cap.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyVideo)
	}
	if width <= 0 || height <= 0 {
		cap.Close()
		return nil, fmt.Errorf("%s: dimensions %dx%d: %w", path, width, height, ErrInvalidVideoFormat)
	}

	return &Stream{
		cap:        cap,
		path:       path,
		fps:        fps,
		frameCount: uint32(frameCount),
		width:      width,
		height:     height,
	}, nil
}

// Next reads the next frame into buf and reports whether one was read.
// It returns false at end of stream.
func (s *Stream) Next(buf *gocv.Mat) bool {
	if ok := s.cap.Read(buf); !ok || buf.Empty() {
		return false
	}
	s.currentFrame++
	return true
}

// FPS returns the video framerate.
func (s *Stream) FPS() float64 {
	return s.fps
}

// FrameCount returns the total number of frames in the video.
func (s *Stream) FrameCount() uint32 {
	return s.frameCount
}

// Width returns the frame width in pixels.
func (s *Stream) Width() int {
	return s.width
}

// Height returns the frame height in pixels.
func (s *Stream) Height() int {
	return s.height
}

// Path returns the video file path.
func (s *Stream) Path() string {
	return s.path
}

// CurrentFrame returns the number of frames read so far (1-indexed; 0
// before the first read).
func (s *Stream) CurrentFrame() uint32 {
	return s.currentFrame
}

// DurationSeconds returns the video duration derived from frame count and
// framerate.
func (s *Stream) DurationSeconds() float64 {
	return float64(s.frameCount) / s.fps
}

// Info returns the stream's metadata snapshot.
func (s *Stream) Info() VideoInfo {
	return VideoInfo{
		Path:            s.path,
		FPS:             s.fps,
		FrameCount:      s.frameCount,
		Width:           s.width,
		Height:          s.height,
		DurationSeconds: s.DurationSeconds(),
	}
}

// Close releases the underlying capture.
func (s *Stream) Close() {
	s.cap.Close()
}

// VideoInfo is a video's metadata, queryable without running detection.
type VideoInfo struct {
	Path            string  `json:"path"`
	FPS             float64 `json:"fps"`
	FrameCount      uint32  `json:"frame_count"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// IsValid reports whether all numeric fields are strictly positive.
func (v VideoInfo) IsValid() bool {
	return v.FPS > 0 &&
		v.FrameCount > 0 &&
		v.Width > 0 &&
		v.Height > 0 &&
		v.DurationSeconds > 0
}

// Description returns a human-readable summary of the video.
func (v VideoInfo) Description() string {
	return fmt.Sprintf("%dx%d at %.2ffps, %d frames (%.1fs duration)",
		v.Width, v.Height, v.FPS, v.FrameCount, v.DurationSeconds)
}
