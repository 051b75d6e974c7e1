package markit

import (
	"gocv.io/x/gocv"
)

// Detection defaults matching the established content-detector behavior.
const (
	DefaultThreshold      = 27.0
	DefaultMinSceneLength = 15
)

// DetectorConfig is the full configuration surface of a ContentDetector.
type DetectorConfig struct {
	Threshold      float64
	Weights        ComponentWeights
	MinSceneLength uint32
	FilterMode     FilterMode
}

// DefaultDetectorConfig returns the standard configuration: threshold
// 27.0, equal hue/sat/lum weights, 15-frame minimum scene length,
// suppress mode.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Threshold:      DefaultThreshold,
		Weights:        DefaultWeights(),
		MinSceneLength: DefaultMinSceneLength,
		FilterMode:     FilterSuppress,
	}
}

// ContentDetector detects scene changes by comparing consecutive frames in
// HSV color space. A weighted score over the per-channel differences is
// tested against a threshold, and the flash filter turns raw verdicts into
// confirmed cuts.
//
// A detector is not safe for concurrent use and holds state across frames;
// call Reset before reusing it on another video.
type ContentDetector struct {
	threshold    float64
	weights      ComponentWeights
	lastFeatures *frameFeatures
	filter       *FlashFilter
	frameCount   uint32
	observer     Observer
}

// NewContentDetector creates a detector with the default weights, minimum
// scene length and suppress mode. The threshold must be non-negative.
func NewContentDetector(threshold float64) (*ContentDetector, error) {
	cfg := DefaultDetectorConfig()
	cfg.Threshold = threshold
	return newDetector(cfg, false)
}

// NewLumaOnlyDetector creates a detector that scores brightness changes
// only.
func NewLumaOnlyDetector(threshold float64) (*ContentDetector, error) {
	cfg := DefaultDetectorConfig()
	cfg.Threshold = threshold
	cfg.Weights = LumaOnlyWeights()
	return newDetector(cfg, false)
}

// NewContentDetectorWithConfig creates a detector from an explicit
// configuration. Unlike the preset constructors, the supplied weights are
// validated.
func NewContentDetectorWithConfig(cfg DetectorConfig) (*ContentDetector, error) {
	return newDetector(cfg, true)
}

// validateWeights is false for the built-in presets, which are known
// valid.
func newDetector(cfg DetectorConfig, validateWeights bool) (*ContentDetector, error) {
	if cfg.Threshold < 0 {
		return nil, configErrorf("threshold must be non-negative, got %v", cfg.Threshold)
	}
	if validateWeights {
		if err := cfg.Weights.Validate(); err != nil {
			return nil, err
		}
	}

	filter, err := NewFlashFilterWithMode(cfg.FilterMode, cfg.MinSceneLength)
	if err != nil {
		return nil, err
	}

	return &ContentDetector{
		threshold: cfg.Threshold,
		weights:   cfg.Weights,
		filter:    filter,
		observer:  noopObserver{},
	}, nil
}

// SetObserver installs an event sink. Passing nil restores the no-op sink.
func (d *ContentDetector) SetObserver(obs Observer) {
	if obs == nil {
		d.observer = noopObserver{}
		return
	}
	d.observer = obs
}

// Threshold returns the configured score threshold.
func (d *ContentDetector) Threshold() float64 {
	return d.threshold
}

// Weights returns the configured component weights.
func (d *ContentDetector) Weights() ComponentWeights {
	return d.weights
}

// MinSceneLength returns the flash filter's minimum scene length.
func (d *ContentDetector) MinSceneLength() uint32 {
	return d.filter.MinSceneLength()
}

// Mode returns the flash filter's mode.
func (d *ContentDetector) Mode() FilterMode {
	return d.filter.Mode()
}

// FrameCount returns the number of frames processed since construction or
// the last Reset.
func (d *ContentDetector) FrameCount() uint32 {
	return d.frameCount
}

// ProcessFrame scores one BGR frame against the previous frame and runs
// the verdict through the flash filter. It returns the confirmed cut's
// timecode, or nil when no cut was confirmed.
//
// The retained feature set is replaced whenever extraction succeeds, even
// if scoring then fails, so a caller that recovers at a higher layer keeps
// scoring against the true predecessor.
func (d *ContentDetector) ProcessFrame(frame *gocv.Mat, tc Timecode) (*Timecode, error) {
	d.frameCount++

	if frame == nil || frame.Empty() {
		return nil, frameErrorf(tc.FrameNumber(), "empty frame provided")
	}

	features, err := extractFeatures(frame, tc.FrameNumber())
	if err != nil {
		return nil, err
	}

	score, scoreErr := contentScore(features, d.lastFeatures, d.weights)
	if d.lastFeatures != nil {
		d.lastFeatures.Close()
	}
	d.lastFeatures = features
	if scoreErr != nil {
		return nil, scoreErr
	}

	aboveThreshold := score >= d.threshold
	d.observer.FrameScored(tc.FrameNumber(), score, aboveThreshold)

	cuts := d.filter.Filter(tc, aboveThreshold)
	if len(cuts) == 0 {
		return nil, nil
	}

	cut := cuts[0]
	d.observer.CutConfirmed(cut)
	return &cut, nil
}

// Reset clears the retained feature set, the flash filter and the frame
// counter. It must be called before reusing a detector on a new video;
// Detect does this automatically.
func (d *ContentDetector) Reset() {
	if d.lastFeatures != nil {
		d.lastFeatures.Close()
		d.lastFeatures = nil
	}
	d.filter.Reset()
	d.frameCount = 0
	d.observer.FilterReset()
}

// Close releases any retained frame data. The detector must not be used
// after Close.
func (d *ContentDetector) Close() {
	if d.lastFeatures != nil {
		d.lastFeatures.Close()
		d.lastFeatures = nil
	}
}
