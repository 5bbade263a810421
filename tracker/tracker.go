// Package tracker assigns stable identities to object detections across
// video frames.  It implements a SORT style tracker, associating per frame
// detections to existing tracks by predicted bounding box overlap using a
// constant velocity Kalman filter per track.
package tracker

import (
	"fmt"
	"sort"
)

// Tracker associates object detections across frames and assigns stable
// track IDs.  A Tracker must be created per video session as it keeps a
// record of past detections for tracking
type Tracker struct {
	// Minimum IoU between a predicted track box and a detection box for the
	// pair to be considered a match
	iouThresh float32
	// Minimum detection score required to start a new track
	minScore float32
	// Maximum time an object can be lost before being removed
	maxTimeLost int
	// Current frame ID
	frameID int
	// Counter for assigning unique track IDs
	trackIDCount int
	// List of current tracks, tracked and lost
	tracks []*Track
}

// NewTracker initializes and returns a new Tracker.  The maximum number of
// frames a lost track is retained for is trackBuffer scaled by the frame
// rate relative to 30 FPS
func NewTracker(frameRate int, trackBuffer int, iouThresh float32,
	minScore float32) *Tracker {

	return &Tracker{
		iouThresh:   iouThresh,
		minScore:    minScore,
		maxTimeLost: int(float32(frameRate) / 30.0 * float32(trackBuffer)),
	}
}

// Reset clears the tracked data and resets everything
func (t *Tracker) Reset() {
	t.frameID = 0
	t.trackIDCount = 0
	t.tracks = make([]*Track, 0)
}

// match is a candidate association between a track and a detection
type match struct {
	trackIdx int
	detIdx   int
	iou      float32
}

// Update advances the tracker one frame with new detections and returns the
// list of currently tracked objects
func (t *Tracker) Update(detections []Detection) ([]*Track, error) {

	t.frameID++

	// predict the current position of all existing tracks
	for _, track := range t.tracks {
		track.predict()
	}

	// build candidate matches between predicted track boxes and detections
	var candidates []match

	for ti, track := range t.tracks {
		for di, det := range detections {

			iou := track.Rect().IoU(det.Rect)

			if iou >= t.iouThresh {
				candidates = append(candidates, match{ti, di, iou})
			}
		}
	}

	// greedy best first assignment, strongest overlaps win
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].iou > candidates[j].iou
	})

	matchedTracks := make(map[int]bool)
	matchedDets := make(map[int]bool)

	for _, cand := range candidates {

		if matchedTracks[cand.trackIdx] || matchedDets[cand.detIdx] {
			continue
		}

		matchedTracks[cand.trackIdx] = true
		matchedDets[cand.detIdx] = true

		track := t.tracks[cand.trackIdx]
		err := track.update(detections[cand.detIdx], t.frameID)

		if err != nil {
			return nil, fmt.Errorf("error updating matched track: %w", err)
		}
	}

	// age out tracks that received no detection this frame
	remaining := t.tracks[:0]

	for ti, track := range t.tracks {

		if matchedTracks[ti] {
			remaining = append(remaining, track)
			continue
		}

		track.markLost()

		if track.missed > t.maxTimeLost {
			track.markRemoved()
			continue
		}

		remaining = append(remaining, track)
	}

	t.tracks = remaining

	// start new tracks from unmatched detections with a high enough score
	for di, det := range detections {

		if matchedDets[di] || det.Score < t.minScore {
			continue
		}

		track := newTrack(det)
		t.trackIDCount++
		track.activate(t.frameID, t.trackIDCount)
		t.tracks = append(t.tracks, track)
	}

	// output currently tracked objects only, lost tracks are retained
	// internally for re-association but not reported
	var output []*Track

	for _, track := range t.tracks {
		if track.State() == Tracked {
			output = append(output, track)
		}
	}

	return output, nil
}
