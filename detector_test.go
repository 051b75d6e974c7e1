package markit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// uniformFrame creates a single-color BGR frame.
func uniformFrame(t *testing.T, rows, cols int, b, g, r float64) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), rows, cols, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })
	return mat
}

// scoreRecorder captures observer events for assertions.
type scoreRecorder struct {
	scores []float64
	cuts   []uint32
	resets int
}

func (r *scoreRecorder) FrameScored(_ uint32, score float64, _ bool) {
	r.scores = append(r.scores, score)
}

func (r *scoreRecorder) CutConfirmed(tc Timecode) {
	r.cuts = append(r.cuts, tc.FrameNumber())
}

func (r *scoreRecorder) FilterReset() {
	r.resets++
}

func TestNewContentDetector(t *testing.T) {
	detector, err := NewContentDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	assert.Equal(t, 27.0, detector.Threshold())
	assert.Equal(t, uint32(0), detector.FrameCount())
	assert.Equal(t, uint32(15), detector.MinSceneLength())
	assert.Equal(t, FilterSuppress, detector.Mode())
	assert.Equal(t, DefaultWeights(), detector.Weights())
}

func TestNewContentDetectorNegativeThreshold(t *testing.T) {
	_, err := NewContentDetector(-1.0)
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewLumaOnlyDetector(t *testing.T) {
	detector, err := NewLumaOnlyDetector(30.0)
	require.NoError(t, err)
	defer detector.Close()

	assert.Equal(t, LumaOnlyWeights(), detector.Weights())
}

func TestNewContentDetectorWithConfig(t *testing.T) {
	cfg := DetectorConfig{
		Threshold:      30.0,
		Weights:        ComponentWeights{DeltaHue: 0.5, DeltaSat: 0.3, DeltaLum: 0.2},
		MinSceneLength: 20,
		FilterMode:     FilterMerge,
	}

	detector, err := NewContentDetectorWithConfig(cfg)
	require.NoError(t, err)
	defer detector.Close()

	assert.Equal(t, 30.0, detector.Threshold())
	assert.Equal(t, uint32(20), detector.MinSceneLength())
	assert.Equal(t, FilterMerge, detector.Mode())
	assert.Equal(t, cfg.Weights, detector.Weights())
}

func TestNewContentDetectorWithConfigRejectsZeroWeights(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.Weights = ComponentWeights{}

	_, err := NewContentDetectorWithConfig(cfg)
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewContentDetectorWithConfigRejectsZeroMinSceneLength(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.MinSceneLength = 0

	_, err := NewContentDetectorWithConfig(cfg)
	assert.Error(t, err)
}

func TestComponentWeights(t *testing.T) {
	assert.Equal(t, 3.0, DefaultWeights().SumAbs())
	assert.Equal(t, 1.0, LumaOnlyWeights().SumAbs())

	assert.Error(t, ComponentWeights{}.Validate())
	assert.NoError(t, ComponentWeights{DeltaHue: 0.5, DeltaSat: 0.3, DeltaLum: 0.2}.Validate())
	assert.NoError(t, ComponentWeights{DeltaEdges: 1.0}.Validate())

	// Negative weights count by absolute value.
	assert.Equal(t, 2.0, ComponentWeights{DeltaHue: -1.0, DeltaLum: 1.0}.SumAbs())
}

func TestProcessFrameEmptyFrame(t *testing.T) {
	detector, err := NewContentDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	empty := gocv.NewMat()
	defer empty.Close()

	_, err = detector.ProcessFrame(&empty, tcAt(t, 1))
	require.Error(t, err)

	var frameErr *FrameError
	require.ErrorAs(t, err, &frameErr)
	assert.Equal(t, uint32(1), frameErr.Frame)
}

func TestProcessFrameFirstFrameScoresZero(t *testing.T) {
	detector, err := NewContentDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	recorder := &scoreRecorder{}
	detector.SetObserver(recorder)

	frame := uniformFrame(t, 64, 64, 255, 128, 0)
	cut, err := detector.ProcessFrame(&frame, tcAt(t, 1))
	require.NoError(t, err)

	assert.Nil(t, cut)
	require.Len(t, recorder.scores, 1)
	assert.Equal(t, 0.0, recorder.scores[0])
	assert.Equal(t, uint32(1), detector.FrameCount())
}

func TestProcessFrameIdenticalFramesScoreZero(t *testing.T) {
	detector, err := NewContentDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	recorder := &scoreRecorder{}
	detector.SetObserver(recorder)

	for i := uint32(1); i <= 3; i++ {
		frame := uniformFrame(t, 64, 64, 40, 80, 120)
		cut, err := detector.ProcessFrame(&frame, tcAt(t, i))
		require.NoError(t, err)
		assert.Nil(t, cut)
	}

	assert.Equal(t, []float64{0.0, 0.0, 0.0}, recorder.scores)
	assert.Empty(t, recorder.cuts)
}

func TestProcessFrameDetectsHardCut(t *testing.T) {
	detector, err := NewContentDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	recorder := &scoreRecorder{}
	detector.SetObserver(recorder)

	// Black to white: only the luminance plane changes, by the full
	// 8-bit range, so the score is 255/3 = 85.
	black := uniformFrame(t, 64, 64, 0, 0, 0)
	white := uniformFrame(t, 64, 64, 255, 255, 255)

	cut, err := detector.ProcessFrame(&black, tcAt(t, 1))
	require.NoError(t, err)
	assert.Nil(t, cut)

	cut, err = detector.ProcessFrame(&white, tcAt(t, 2))
	require.NoError(t, err)
	require.NotNil(t, cut)
	assert.Equal(t, uint32(2), cut.FrameNumber())

	require.Len(t, recorder.scores, 2)
	assert.InDelta(t, 85.0, recorder.scores[1], 1e-9)
	assert.Equal(t, []uint32{2}, recorder.cuts)
}

func TestProcessFrameLumaOnlyScoring(t *testing.T) {
	detector, err := NewLumaOnlyDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	recorder := &scoreRecorder{}
	detector.SetObserver(recorder)

	black := uniformFrame(t, 32, 32, 0, 0, 0)
	white := uniformFrame(t, 32, 32, 255, 255, 255)

	_, err = detector.ProcessFrame(&black, tcAt(t, 1))
	require.NoError(t, err)
	_, err = detector.ProcessFrame(&white, tcAt(t, 2))
	require.NoError(t, err)

	// With the luma-only preset the normalizer is 1, so the score is the
	// raw luminance delta.
	require.Len(t, recorder.scores, 2)
	assert.InDelta(t, 255.0, recorder.scores[1], 1e-9)
}

func TestProcessFrameDimensionChange(t *testing.T) {
	detector, err := NewContentDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	small := uniformFrame(t, 32, 32, 0, 0, 0)
	large := uniformFrame(t, 64, 64, 255, 255, 255)

	_, err = detector.ProcessFrame(&small, tcAt(t, 1))
	require.NoError(t, err)

	_, err = detector.ProcessFrame(&large, tcAt(t, 2))
	require.Error(t, err)

	var internalErr *InternalError
	assert.ErrorAs(t, err, &internalErr)

	// The retained features were still replaced, so the next frame of
	// the new size scores against the true predecessor.
	large2 := uniformFrame(t, 64, 64, 255, 255, 255)
	cut, err := detector.ProcessFrame(&large2, tcAt(t, 3))
	require.NoError(t, err)
	assert.Nil(t, cut)
}

func TestDetectorReset(t *testing.T) {
	detector, err := NewContentDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	recorder := &scoreRecorder{}
	detector.SetObserver(recorder)

	black := uniformFrame(t, 32, 32, 0, 0, 0)
	white := uniformFrame(t, 32, 32, 255, 255, 255)

	_, err = detector.ProcessFrame(&black, tcAt(t, 1))
	require.NoError(t, err)
	cut, err := detector.ProcessFrame(&white, tcAt(t, 2))
	require.NoError(t, err)
	require.NotNil(t, cut)
	assert.Equal(t, uint32(2), detector.FrameCount())

	detector.Reset()

	assert.Equal(t, uint32(0), detector.FrameCount())
	assert.Equal(t, 1, recorder.resets)

	// After reset the detector behaves like a fresh instance: the first
	// frame scores exactly zero even though it differs from the last
	// frame seen before the reset.
	black2 := uniformFrame(t, 32, 32, 0, 0, 0)
	cut, err = detector.ProcessFrame(&black2, tcAt(t, 1))
	require.NoError(t, err)
	assert.Nil(t, cut)
	assert.Equal(t, 0.0, recorder.scores[len(recorder.scores)-1])
}

func TestSetObserverNilIsNoop(t *testing.T) {
	detector, err := NewContentDetector(27.0)
	require.NoError(t, err)
	defer detector.Close()

	detector.SetObserver(nil)

	frame := uniformFrame(t, 16, 16, 1, 2, 3)
	_, err = detector.ProcessFrame(&frame, tcAt(t, 1))
	assert.NoError(t, err)
}
