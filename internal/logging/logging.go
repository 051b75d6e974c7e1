package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mdivjak/markit"
)

// Init initializes the global logger
func Init(verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// NewLogger creates a new logger with optional writers
func NewLogger(writers ...io.Writer) zerolog.Logger {
	if len(writers) == 0 {
		return log.Logger
	}

	if len(writers) == 1 {
		return zerolog.New(writers[0]).With().Timestamp().Logger()
	}

	multi := zerolog.MultiLevelWriter(writers...)
	return zerolog.New(multi).With().Timestamp().Logger()
}

// WithComponent creates a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return NewLogger().With().Str("component", component).Logger()
}

// DetectionObserver logs detector events through zerolog. Per-frame
// scores go to debug so they only show up with verbose logging.
type DetectionObserver struct {
	log zerolog.Logger
}

// NewDetectionObserver creates an observer logging under the detector
// component.
func NewDetectionObserver() *DetectionObserver {
	return &DetectionObserver{log: WithComponent("detector")}
}

// NewDetectionObserverTo creates an observer that logs to the given
// writers instead of the global logger.
func NewDetectionObserverTo(writers ...io.Writer) *DetectionObserver {
	return &DetectionObserver{
		log: NewLogger(writers...).With().Str("component", "detector").Logger(),
	}
}

func (o *DetectionObserver) FrameScored(frame uint32, score float64, aboveThreshold bool) {
	o.log.Debug().
		Uint32("frame", frame).
		Float64("score", score).
		Bool("above_threshold", aboveThreshold).
		Msg("frame scored")
}

func (o *DetectionObserver) CutConfirmed(tc markit.Timecode) {
	o.log.Info().
		Uint32("frame", tc.FrameNumber()).
		Float64("seconds", tc.Seconds()).
		Msg("scene cut confirmed")
}

func (o *DetectionObserver) FilterReset() {
	o.log.Debug().Msg("detector state reset")
}
