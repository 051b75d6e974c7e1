package markit

// Observer receives detection events. Implementations must be cheap and
// side-effect free with respect to detection: results never depend on
// whether an observer is installed.
type Observer interface {
	// FrameScored fires once per processed frame with its content score
	// and threshold verdict.
	FrameScored(frame uint32, score float64, aboveThreshold bool)
	// CutConfirmed fires when the flash filter confirms a scene cut.
	CutConfirmed(tc Timecode)
	// FilterReset fires when the detector's state is reset.
	FilterReset()
}

type noopObserver struct{}

func (noopObserver) FrameScored(uint32, float64, bool) {}
func (noopObserver) CutConfirmed(Timecode)             {}
func (noopObserver) FilterReset()                      {}
