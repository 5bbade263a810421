package footfall

import "sync"

// Point represents the x,y pixel coordinates of a tracked object's bounding
// box center in the video frame
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// track holds the position history of a single track id
type track struct {
	points []Point
}

// Trail keeps a bounded history of center point positions keyed by track id.
// The most recent point is last and the oldest point is evicted once the
// history exceeds the configured size
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// history of tracked points
	history map[int]*track
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size is the maximum number
// of most recent points to keep per track id
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[int]*track),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[int]*track)
}

// Add appends a point to the history of the given track id, creating the
// history on first observation and evicting the oldest point when the
// history size is exceeded
func (t *Trail) Add(id int, pt Point) {
	t.Lock()
	defer t.Unlock()

	// init map if no history exists yet for track id
	if _, exists := t.history[id]; !exists {
		t.history[id] = &track{}
	}

	trk := t.history[id]
	trk.points = append(trk.points, pt)

	// check if history is exceeded and drop oldest point
	if len(trk.points) > t.size {
		trk.points = trk.points[1:]
	}
}

// Last returns the two most recent points for the given track id.  The ok
// result is false when the track has less than two points of history
func (t *Trail) Last(id int) (prev, curr Point, ok bool) {
	t.Lock()
	defer t.Unlock()

	trk, exists := t.history[id]

	if !exists || len(trk.points) < 2 {
		return Point{}, Point{}, false
	}

	return trk.points[len(trk.points)-2], trk.points[len(trk.points)-1], true
}

// Points gets the point history for a specific track id
func (t *Trail) Points(id int) []Point {
	t.Lock()
	defer t.Unlock()

	if _, exists := t.history[id]; exists {
		return t.history[id].points
	}

	// no history yet
	return nil
}

// Len returns the number of points held in history for the given track id
func (t *Trail) Len(id int) int {
	t.Lock()
	defer t.Unlock()

	if trk, exists := t.history[id]; exists {
		return len(trk.points)
	}

	return 0
}
