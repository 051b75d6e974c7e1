package markit

import "fmt"

// FilterMode selects how the flash filter handles detections that arrive
// closer together than the minimum scene length.
type FilterMode int

const (
	// FilterSuppress drops detections until the minimum scene length has
	// passed since the last confirmed cut. This is the default.
	FilterSuppress FilterMode = iota
	// FilterMerge coalesces a burst of closely-spaced detections into a
	// single cut placed at the last frame of the burst.
	FilterMerge
)

func (m FilterMode) String() string {
	switch m {
	case FilterSuppress:
		return "suppress"
	case FilterMerge:
		return "merge"
	default:
		return fmt.Sprintf("FilterMode(%d)", int(m))
	}
}

// ParseFilterMode converts a mode name ("suppress" or "merge") into a
// FilterMode.
func ParseFilterMode(name string) (FilterMode, error) {
	switch name {
	case "suppress":
		return FilterSuppress, nil
	case "merge":
		return FilterMerge, nil
	default:
		return FilterSuppress, configErrorf("unknown filter mode %q, want suppress or merge", name)
	}
}

// FlashFilter enforces a minimum scene length on raw above-threshold
// signals, filtering out camera flashes and other transient changes that
// should not count as scene boundaries. It is a small state machine fed
// one frame per call; callers must feed frames in order.
type FlashFilter struct {
	mode           FilterMode
	minSceneLength uint32

	lastCutFrame   uint32
	hasLastCut     bool
	lastAboveFrame uint32
	hasLastAbove   bool
	mergeTriggered bool
	mergeStart     uint32
}

// NewFlashFilter creates a suppress-mode filter. The minimum scene length
// must be positive.
func NewFlashFilter(minSceneLength uint32) (*FlashFilter, error) {
	return NewFlashFilterWithMode(FilterSuppress, minSceneLength)
}

// NewFlashFilterWithMode creates a filter with an explicit mode.
func NewFlashFilterWithMode(mode FilterMode, minSceneLength uint32) (*FlashFilter, error) {
	if minSceneLength == 0 {
		return nil, configErrorf("minimum scene length must be positive")
	}
	if mode != FilterSuppress && mode != FilterMerge {
		return nil, configErrorf("unknown filter mode %d", int(mode))
	}
	return &FlashFilter{mode: mode, minSceneLength: minSceneLength}, nil
}

// MinSceneLength returns the configured minimum scene length in frames.
func (f *FlashFilter) MinSceneLength() uint32 {
	return f.minSceneLength
}

// Mode returns the active filter mode.
func (f *FlashFilter) Mode() FilterMode {
	return f.mode
}

// LastCutFrame returns the frame number of the last confirmed cut. The
// second return is false before the first confirmation.
func (f *FlashFilter) LastCutFrame() (uint32, bool) {
	return f.lastCutFrame, f.hasLastCut
}

// Filter consumes one frame's verdict and returns the confirmed cuts it
// produces: zero or one. A slice is used because merge mode closes out a
// pending burst as a unit.
func (f *FlashFilter) Filter(tc Timecode, aboveThreshold bool) []Timecode {
	if aboveThreshold {
		f.lastAboveFrame = tc.FrameNumber()
		f.hasLastAbove = true
	}

	switch f.mode {
	case FilterMerge:
		return f.filterMerge(tc, aboveThreshold)
	default:
		return f.filterSuppress(tc, aboveThreshold)
	}
}

func (f *FlashFilter) filterSuppress(tc Timecode, aboveThreshold bool) []Timecode {
	if !aboveThreshold {
		return nil
	}

	frame := tc.FrameNumber()
	if f.hasLastCut && satSub(frame, f.lastCutFrame) < f.minSceneLength {
		return nil
	}

	f.lastCutFrame = frame
	f.hasLastCut = true
	return []Timecode{tc}
}

func (f *FlashFilter) filterMerge(tc Timecode, aboveThreshold bool) []Timecode {
	frame := tc.FrameNumber()

	// A quiet frame may close an open merge window once enough frames
	// have passed since the burst last fired.
	if f.mergeTriggered && !aboveThreshold && f.hasLastAbove &&
		satSub(frame, f.lastAboveFrame) >= f.minSceneLength {
		f.mergeTriggered = false
		mergeStart := f.mergeStart
		f.mergeStart = 0

		if satSub(f.lastAboveFrame, mergeStart) >= f.minSceneLength {
			f.lastCutFrame = f.lastAboveFrame
			f.hasLastCut = true
			// The burst's own fps equals the triggering frame's fps for
			// any single run; the triggering timecode is the one at hand.
			return []Timecode{{frameNumber: f.lastAboveFrame, fps: tc.FPS()}}
		}
		// Burst too short to stand as a scene: drop it.
		return nil
	}

	if !aboveThreshold {
		return nil
	}

	if !f.hasLastCut {
		f.lastCutFrame = frame
		f.hasLastCut = true
		return []Timecode{tc}
	}

	if satSub(frame, f.lastCutFrame) >= f.minSceneLength {
		f.lastCutFrame = frame
		return []Timecode{tc}
	}

	if !f.mergeTriggered {
		f.mergeTriggered = true
		f.mergeStart = frame
	}
	// Already merging: the shared lastAboveFrame update extends the burst.
	return nil
}

// Reset clears all filter state, returning the filter to its
// pre-any-frame condition. Call it before reusing the filter on a new
// video.
func (f *FlashFilter) Reset() {
	f.lastCutFrame = 0
	f.hasLastCut = false
	f.lastAboveFrame = 0
	f.hasLastAbove = false
	f.mergeTriggered = false
	f.mergeStart = 0
}

// satSub subtracts b from a, flooring at zero. Frame counters can wrap on
// very long streams; saturating keeps a wrapped counter from turning into
// a spuriously large gap.
func satSub(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}
