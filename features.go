package markit

import (
	"gocv.io/x/gocv"
)

// edgeChannelEnabled gates the reserved edge-magnitude plane. It is not
// computed today; the scorer always uses a zero edge delta.
const edgeChannelEnabled = false

// frameFeatures holds the single-channel planes extracted from one frame.
// The planes own their pixel data and must be released with Close.
type frameFeatures struct {
	hue gocv.Mat
	sat gocv.Mat
	lum gocv.Mat
}

// extractFeatures converts a BGR frame into hue, saturation and luminance
// planes. frameNumber is only used to annotate errors.
func extractFeatures(frame *gocv.Mat, frameNumber uint32) (*frameFeatures, error) {
	hsv := gocv.NewMat()
	defer hsv.Close()

	gocv.CvtColor(*frame, &hsv, gocv.ColorBGRToHSV)
	if hsv.Empty() {
		return nil, frameErrorf(frameNumber, "HSV conversion produced an empty image")
	}

	planes := gocv.Split(hsv)
	if len(planes) != 3 {
		for i := range planes {
			planes[i].Close()
		}
		return nil, frameErrorf(frameNumber, "expected 3 HSV channels, got %d", len(planes))
	}

	ff := &frameFeatures{hue: planes[0], sat: planes[1], lum: planes[2]}
	if err := ff.validate(); err != nil {
		ff.Close()
		return nil, frameErrorf(frameNumber, "feature validation failed: %v", err)
	}
	return ff, nil
}

// validate checks that all planes share the same dimensions. It runs on
// every extracted feature set before the set is used for scoring.
func (ff *frameFeatures) validate() error {
	if ff.hue.Rows() != ff.sat.Rows() || ff.hue.Cols() != ff.sat.Cols() ||
		ff.sat.Rows() != ff.lum.Rows() || ff.sat.Cols() != ff.lum.Cols() {
		return internalErrorf("channel size mismatch: hue=%dx%d, sat=%dx%d, lum=%dx%d",
			ff.hue.Cols(), ff.hue.Rows(), ff.sat.Cols(), ff.sat.Rows(), ff.lum.Cols(), ff.lum.Rows())
	}
	return nil
}

// Close releases the underlying plane data.
func (ff *frameFeatures) Close() {
	ff.hue.Close()
	ff.sat.Close()
	ff.lum.Close()
}

// contentScore computes the weighted content difference between the
// current and previous feature sets. The first frame of a run has no
// predecessor and scores exactly 0.0, so no cut can fire on it.
func contentScore(current, previous *frameFeatures, weights ComponentWeights) (float64, error) {
	if previous == nil {
		return 0.0, nil
	}

	deltaHue, err := meanPixelDistance(current.hue, previous.hue)
	if err != nil {
		return 0, err
	}
	deltaSat, err := meanPixelDistance(current.sat, previous.sat)
	if err != nil {
		return 0, err
	}
	deltaLum, err := meanPixelDistance(current.lum, previous.lum)
	if err != nil {
		return 0, err
	}
	deltaEdges := 0.0 // reserved channel, never extracted

	weightedSum := deltaHue*weights.DeltaHue +
		deltaSat*weights.DeltaSat +
		deltaLum*weights.DeltaLum +
		deltaEdges*weights.DeltaEdges

	// Normalizing by the absolute weight sum keeps the score magnitude
	// independent of how many channels carry weight.
	return weightedSum / weights.SumAbs(), nil
}

// meanPixelDistance is the mean absolute pixel-wise difference between two
// single-channel planes. A size mismatch here means upstream validation
// was bypassed, so it surfaces as an internal error.
func meanPixelDistance(left, right gocv.Mat) (float64, error) {
	if left.Rows() != right.Rows() || left.Cols() != right.Cols() {
		return 0, internalErrorf("plane size mismatch: left=%dx%d, right=%dx%d",
			left.Cols(), left.Rows(), right.Cols(), right.Rows())
	}

	diff := gocv.NewMat()
	defer diff.Close()

	gocv.AbsDiff(left, right, &diff)

	total := diff.Sum().Val1
	pixels := float64(left.Rows() * left.Cols())
	return total / pixels, nil
}
