package markit

// Timecode is an immutable position within a video, pairing a frame number
// with the video's framerate. Two timecodes are only comparable when their
// framerates match.
type Timecode struct {
	frameNumber uint32
	fps         float64
}

// NewTimecode creates a Timecode. The framerate must be positive.
func NewTimecode(frameNumber uint32, fps float64) (Timecode, error) {
	if fps <= 0 {
		return Timecode{}, configErrorf("fps must be positive, got %v", fps)
	}
	return Timecode{frameNumber: frameNumber, fps: fps}, nil
}

// FrameNumber returns the frame index.
func (t Timecode) FrameNumber() uint32 {
	return t.frameNumber
}

// FPS returns the framerate.
func (t Timecode) FPS() float64 {
	return t.fps
}

// Seconds returns the position in seconds since the start of the video.
func (t Timecode) Seconds() float64 {
	return float64(t.frameNumber) / t.fps
}

// Milliseconds returns the position in milliseconds since the start of
// the video.
func (t Timecode) Milliseconds() float64 {
	return t.Seconds() * 1000.0
}

// SceneCut is a detected scene boundary. End is nil until the next cut is
// known (or the video ends); CompleteSceneCuts fills it in.
type SceneCut struct {
	Start Timecode
	End   *Timecode
}

// NewSceneCut creates a scene cut with only its start position.
func NewSceneCut(start Timecode) SceneCut {
	return SceneCut{Start: start}
}

// NewCompleteSceneCut creates a scene cut with both boundaries. The two
// timecodes must share a framerate and the end must come after the start.
func NewCompleteSceneCut(start, end Timecode) (SceneCut, error) {
	if start.FPS() != end.FPS() {
		return SceneCut{}, configErrorf("start and end fps must match, got %v and %v", start.FPS(), end.FPS())
	}
	if end.FrameNumber() <= start.FrameNumber() {
		return SceneCut{}, configErrorf("end frame %d must be after start frame %d", end.FrameNumber(), start.FrameNumber())
	}
	return SceneCut{Start: start, End: &end}, nil
}

// DurationFrames returns the scene length in frames. The second return is
// false until End has been set.
func (c SceneCut) DurationFrames() (uint32, bool) {
	if c.End == nil {
		return 0, false
	}
	return c.End.FrameNumber() - c.Start.FrameNumber(), true
}

// DurationSeconds returns the scene length in seconds. The second return
// is false until End has been set.
func (c SceneCut) DurationSeconds() (float64, bool) {
	frames, ok := c.DurationFrames()
	if !ok {
		return 0, false
	}
	return float64(frames) / c.Start.FPS(), true
}
