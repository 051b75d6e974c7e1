package markit

import (
	"time"

	uuid "github.com/gofrs/uuid/v5"
)

// SceneEntry is one scene row in a detection report.
type SceneEntry struct {
	Index           int     `json:"index"`
	StartFrame      uint32  `json:"start_frame"`
	EndFrame        uint32  `json:"end_frame"`
	StartSeconds    float64 `json:"start_seconds"`
	EndSeconds      float64 `json:"end_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Report is a machine-readable summary of one detection run.
type Report struct {
	RunID       string       `json:"run_id"`
	GeneratedAt string       `json:"generated_at"`
	Video       VideoInfo    `json:"video"`
	SceneCount  int          `json:"scene_count"`
	Scenes      []SceneEntry `json:"scenes"`
}

// NewReport builds a report from completed scene cuts. Cuts should have
// their End set (see CompleteSceneCuts); a cut without one is reported
// with zero end and duration.
func NewReport(info VideoInfo, cuts []SceneCut) (*Report, error) {
	runID, err := uuid.NewV4()
	if err != nil {
		return nil, internalErrorf("failed to generate run id: %v", err)
	}

	scenes := make([]SceneEntry, len(cuts))
	for i, cut := range cuts {
		entry := SceneEntry{
			Index:        i + 1,
			StartFrame:   cut.Start.FrameNumber(),
			StartSeconds: cut.Start.Seconds(),
		}
		if cut.End != nil {
			entry.EndFrame = cut.End.FrameNumber()
			entry.EndSeconds = cut.End.Seconds()
		}
		if duration, ok := cut.DurationSeconds(); ok {
			entry.DurationSeconds = duration
		}
		scenes[i] = entry
	}

	return &Report{
		RunID:       runID.String(),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Video:       info,
		SceneCount:  len(scenes),
		Scenes:      scenes,
	}, nil
}
