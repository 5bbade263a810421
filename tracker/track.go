package tracker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TrackState represents the state of a tracked object
type TrackState int

const (
	// Object is newly detected
	New TrackState = 0
	// Object is currently being tracked
	Tracked TrackState = 1
	// Object has been lost
	Lost TrackState = 2
	// Object has been removed
	Removed TrackState = 3
)

// Track represents a single object followed across frames
type Track struct {
	// Kalman filter used for motion prediction
	kalmanFilter *KalmanFilter
	// Mean state vector
	mean StateMean
	// Covariance matrix
	covariance StateCov
	// Bounding box of the tracked object
	rect Rect
	// Current state of the track
	state TrackState
	// Detection score
	score float32
	// Unique ID for the track
	trackID int
	// Current frame ID
	frameID int
	// Frame ID when the track started
	startFrameID int
	// Unique ID for the detection
	detectionID int64
	// label is the object label/class from detection
	label int
	// missed is the number of consecutive frames without a matched detection
	missed int
}

// newTrack creates a new unactivated Track from a detection
func newTrack(det Detection) *Track {
	return &Track{
		kalmanFilter: NewKalmanFilter(5.0, 10.0),
		mean:         make(StateMean, 4),
		covariance:   StateCov{mat.NewDense(4, 4, nil)},
		rect:         det.Rect,
		state:        New,
		score:        det.Score,
		detectionID:  det.ID,
		label:        det.Label,
	}
}

// Rect returns the bounding box of the tracked object
func (t *Track) Rect() Rect {
	return t.rect
}

// State returns the current state of the track
func (t *Track) State() TrackState {
	return t.state
}

// Score returns the detection score
func (t *Track) Score() float32 {
	return t.score
}

// TrackID returns the unique ID for the track
func (t *Track) TrackID() int {
	return t.trackID
}

// FrameID returns the frame ID the track was last updated on
func (t *Track) FrameID() int {
	return t.frameID
}

// StartFrameID returns the frame ID when the track started
func (t *Track) StartFrameID() int {
	return t.startFrameID
}

// DetectionID returns the unique ID of the matched detection
func (t *Track) DetectionID() int64 {
	return t.detectionID
}

// Label returns the object label/class from detection
func (t *Track) Label() int {
	return t.label
}

// activate initializes the track with the given frame ID and track ID
func (t *Track) activate(frameID, trackID int) {

	t.kalmanFilter.Initiate(t.mean, &t.covariance,
		Measurement{t.rect.CenterX(), t.rect.CenterY()})

	t.state = Tracked
	t.trackID = trackID
	t.frameID = frameID
	t.startFrameID = frameID
	t.missed = 0
}

// predict advances the track one frame using the motion model and moves the
// bounding box to the predicted center
func (t *Track) predict() {
	t.kalmanFilter.Predict(t.mean, &t.covariance)
	t.updateRect()
}

// update corrects the track with a new matched detection
func (t *Track) update(det Detection, frameID int) error {

	err := t.kalmanFilter.Update(t.mean, &t.covariance,
		Measurement{det.Rect.CenterX(), det.Rect.CenterY()})

	if err != nil {
		return fmt.Errorf("error updating track: %w", err)
	}

	// take the detected box dimensions and recenter on the filtered position
	t.rect.W = det.Rect.W
	t.rect.H = det.Rect.H
	t.updateRect()

	t.state = Tracked
	t.score = det.Score
	t.detectionID = det.ID
	t.frameID = frameID
	t.missed = 0

	return nil
}

// markLost marks the track as lost for the current frame
func (t *Track) markLost() {
	t.state = Lost
	t.missed++
}

// markRemoved marks the track as removed
func (t *Track) markRemoved() {
	t.state = Removed
}

// updateRect recenters the bounding box on the state mean position, the box
// dimensions are kept from the last matched detection
func (t *Track) updateRect() {
	t.rect.X = t.mean[0] - t.rect.W/2
	t.rect.Y = t.mean[1] - t.rect.H/2
}
