// Package markit detects scene cuts in video files by scoring the content
// difference between consecutive frames in HSV color space and filtering
// the raw detections through a minimum-scene-length flash filter.
//
//	detector, err := markit.NewContentDetector(27.0)
//	if err != nil {
//		return err
//	}
//	scenes, err := markit.Detect("video.mp4", detector)
package markit

import (
	"gocv.io/x/gocv"
)

// Detect runs scene detection over an entire video file and returns the
// detected scenes as a contiguous partition: each cut's End equals the
// next cut's Start, and the last cut ends at the final frame.
//
// The detector is reset before the run, so an instance can be reused
// across videos. A failure on any frame aborts the run: continuity
// requires every frame to be scored against its immediate predecessor.
func Detect(videoPath string, detector *ContentDetector) ([]SceneCut, error) {
	if detector == nil {
		return nil, configErrorf("detector must not be nil")
	}
	detector.Reset()

	stream, err := OpenStream(videoPath)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	buf := gocv.NewMat()
	defer buf.Close()

	var cuts []SceneCut
	for stream.Next(&buf) {
		tc := Timecode{frameNumber: stream.CurrentFrame(), fps: stream.FPS()}

		cut, err := detector.ProcessFrame(&buf, tc)
		if err != nil {
			return nil, err
		}
		if cut != nil {
			cuts = append(cuts, NewSceneCut(*cut))
		}
	}

	CompleteSceneCuts(cuts, stream.FPS(), stream.FrameCount())
	return cuts, nil
}

// DetectSceneChangeFrames runs detection with the default configuration
// (threshold 27.0, min scene length 15, suppress mode) and returns just
// the frame numbers where cuts occur.
func DetectSceneChangeFrames(videoPath string) ([]uint32, error) {
	detector, err := NewContentDetector(DefaultThreshold)
	if err != nil {
		return nil, err
	}
	defer detector.Close()

	scenes, err := Detect(videoPath, detector)
	if err != nil {
		return nil, err
	}

	frames := make([]uint32, len(scenes))
	for i, scene := range scenes {
		frames[i] = scene.Start.FrameNumber()
	}
	return frames, nil
}

// GetVideoInfo returns a video's metadata without running detection.
func GetVideoInfo(videoPath string) (VideoInfo, error) {
	stream, err := OpenStream(videoPath)
	if err != nil {
		return VideoInfo{}, err
	}
	defer stream.Close()

	return stream.Info(), nil
}

// CompleteSceneCuts fills in the End of every cut in place: each scene
// ends where the next begins, and the last scene ends at totalFrames.
// An empty list is a no-op.
func CompleteSceneCuts(cuts []SceneCut, fps float64, totalFrames uint32) {
	if len(cuts) == 0 {
		return
	}

	for i := 0; i < len(cuts)-1; i++ {
		end := Timecode{frameNumber: cuts[i+1].Start.FrameNumber(), fps: fps}
		cuts[i].End = &end
	}

	end := Timecode{frameNumber: totalFrames, fps: fps}
	cuts[len(cuts)-1].End = &end
}
