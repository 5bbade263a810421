package footfall

import "fmt"

// DefaultHistorySize is the number of most recent center points kept per
// track id
const DefaultHistorySize = 30

// Direction indicates which way a track crossed the counting line
type Direction int

const (
	// Entry is a downward crossing of the line, moving into the counted area
	Entry Direction = 1
	// Exit is an upward crossing of the line, moving out of the counted area
	Exit Direction = 2
)

// String returns the display name of the direction
func (d Direction) String() string {
	switch d {
	case Entry:
		return "ENTRY"
	case Exit:
		return "EXIT"
	}

	return "UNKNOWN"
}

// Crossing describes a single line crossing event for a track
type Crossing struct {
	// TrackID is the identity of the track that crossed the line
	TrackID int
	// Direction the line was crossed in
	Direction Direction
	// Entries is the total entry count after this crossing
	Entries int
	// Exits is the total exit count after this crossing
	Exits int
}

// Summary holds the current crossing counts
type Summary struct {
	Entries int
	Exits   int
	// NetFlow is entries minus exits
	NetFlow int
}

// Counter counts directional crossings of a fixed horizontal line by tracked
// objects.  It keeps a bounded trailing history of center points per track id
// and counts each track id at most once for the lifetime of the Counter or
// until Reset is called.
//
// A Counter serves a single video session and must be fed observations one
// frame at a time in frame order, crossing decisions depend on the two most
// recent points of a track's history
type Counter struct {
	// lineY is the y coordinate of the counting line in frame pixels
	lineY int
	// trail is the per track center point history
	trail *Trail
	// counted is the set of track ids that have already been counted
	counted map[int]bool
	// crossing counts
	entries int
	exits   int
}

// NewCounter returns a Counter with the counting line placed at
// roiPosition * frameHeight.  roiPosition must be within [0,1] and
// frameHeight must be greater than zero
func NewCounter(roiPosition float64, frameHeight int) (*Counter, error) {

	if roiPosition < 0 || roiPosition > 1 {
		return nil, fmt.Errorf("roi position %v is outside range [0,1]", roiPosition)
	}

	if frameHeight <= 0 {
		return nil, fmt.Errorf("frame height %d must be greater than zero", frameHeight)
	}

	return &Counter{
		lineY:   int(float64(frameHeight) * roiPosition),
		trail:   NewTrail(DefaultHistorySize),
		counted: make(map[int]bool),
	}, nil
}

// LineY returns the y coordinate of the counting line
func (c *Counter) LineY() int {
	return c.lineY
}

// Observe records the center point position of a track for the current frame
// and returns a Crossing if the track crossed the counting line since its
// previous observation.  It returns nil when no crossing occurred or the
// track has already been counted.
//
// When the previous point sits exactly on the line and the current point does
// too, neither direction fires and no crossing is counted
func (c *Counter) Observe(trackID int, pos Point) *Crossing {

	c.trail.Add(trackID, pos)

	if c.counted[trackID] {
		return nil
	}

	prev, curr, ok := c.trail.Last(trackID)

	if !ok {
		// first observation of this track
		return nil
	}

	var dir Direction

	switch {
	case prev.Y < c.lineY && curr.Y >= c.lineY:
		dir = Entry
		c.entries++

	case prev.Y > c.lineY && curr.Y <= c.lineY:
		dir = Exit
		c.exits++

	default:
		return nil
	}

	c.counted[trackID] = true

	return &Crossing{
		TrackID:   trackID,
		Direction: dir,
		Entries:   c.entries,
		Exits:     c.exits,
	}
}

// History returns the recorded center point history for the given track id,
// most recent point last
func (c *Counter) History(trackID int) []Point {
	return c.trail.Points(trackID)
}

// HistoryLen returns the number of history points held for the given track id
func (c *Counter) HistoryLen(trackID int) int {
	return c.trail.Len(trackID)
}

// Counted reports whether the given track id has already been counted
func (c *Counter) Counted(trackID int) bool {
	return c.counted[trackID]
}

// Reset clears all history, the counted track set, and both counters so a
// fresh counting session can start without recreating the Counter
func (c *Counter) Reset() {
	c.trail.Reset()
	c.counted = make(map[int]bool)
	c.entries = 0
	c.exits = 0
}

// Summary returns the current entry and exit counts along with the net flow
func (c *Counter) Summary() Summary {
	return Summary{
		Entries: c.entries,
		Exits:   c.exits,
		NetFlow: c.entries - c.exits,
	}
}
