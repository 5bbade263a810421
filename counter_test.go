package footfall

import "testing"

// TestNewCounterValidation tests construction fails fast on bad configuration
func TestNewCounterValidation(t *testing.T) {

	configs := []struct {
		roiPosition float64
		frameHeight int
		wantErr     bool
	}{
		{0.5, 100, false},
		{0, 100, false},
		{1, 100, false},
		{-0.1, 100, true},
		{1.1, 100, true},
		{0.5, 0, true},
		{0.5, -480, true},
	}

	for _, cfg := range configs {

		c, err := NewCounter(cfg.roiPosition, cfg.frameHeight)

		if cfg.wantErr && err == nil {
			t.Errorf("expected error for roi=%v height=%d, got none",
				cfg.roiPosition, cfg.frameHeight)
		}

		if !cfg.wantErr && err != nil {
			t.Errorf("unexpected error for roi=%v height=%d: %v",
				cfg.roiPosition, cfg.frameHeight, err)
		}

		if cfg.wantErr && c != nil {
			t.Errorf("expected nil counter on configuration error")
		}
	}
}

// TestLineY tests line placement is derived from the roi position and
// frame height
func TestLineY(t *testing.T) {

	c, err := NewCounter(0.5, 480)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.LineY() != 240 {
		t.Errorf("expected line y 240, got %d", c.LineY())
	}
}

// TestEntryCrossing tests a downward movement over the line produces a
// single entry event
func TestEntryCrossing(t *testing.T) {

	c, _ := NewCounter(0.5, 100)

	if cross := c.Observe(1, Pt(40, 10)); cross != nil {
		t.Errorf("expected no crossing on first observation, got %v", cross)
	}

	cross := c.Observe(1, Pt(40, 60))

	if cross == nil {
		t.Fatal("expected entry crossing, got none")
	}

	if cross.Direction != Entry {
		t.Errorf("expected direction %v, got %v", Entry, cross.Direction)
	}

	if cross.TrackID != 1 {
		t.Errorf("expected track id 1, got %d", cross.TrackID)
	}

	s := c.Summary()

	if s.Entries != 1 || s.Exits != 0 || s.NetFlow != 1 {
		t.Errorf("expected summary (1, 0, 1), got (%d, %d, %d)",
			s.Entries, s.Exits, s.NetFlow)
	}
}

// TestExitCrossing tests an upward movement over the line produces a single
// exit event
func TestExitCrossing(t *testing.T) {

	c, _ := NewCounter(0.5, 100)

	c.Observe(7, Pt(40, 60))
	cross := c.Observe(7, Pt(40, 10))

	if cross == nil {
		t.Fatal("expected exit crossing, got none")
	}

	if cross.Direction != Exit {
		t.Errorf("expected direction %v, got %v", Exit, cross.Direction)
	}

	s := c.Summary()

	if s.Entries != 0 || s.Exits != 1 || s.NetFlow != -1 {
		t.Errorf("expected summary (0, 1, -1), got (%d, %d, %d)",
			s.Entries, s.Exits, s.NetFlow)
	}
}

// TestNoCrossing tests movement on one side of the line produces no events
func TestNoCrossing(t *testing.T) {

	c, _ := NewCounter(0.5, 100)

	for _, y := range []int{10, 20, 30} {
		if cross := c.Observe(3, Pt(40, y)); cross != nil {
			t.Errorf("expected no crossing at y=%d, got %v", y, cross)
		}
	}

	s := c.Summary()

	if s.Entries != 0 || s.Exits != 0 {
		t.Errorf("expected zero counts, got (%d, %d)", s.Entries, s.Exits)
	}
}

// TestCountedOnce tests a track that crosses the line twice is counted only
// once
func TestCountedOnce(t *testing.T) {

	c, _ := NewCounter(0.5, 100)

	// cross downwards then back upwards
	events := 0

	for _, y := range []int{10, 60, 80, 40, 10} {
		if cross := c.Observe(5, Pt(40, y)); cross != nil {
			events++
		}
	}

	if events != 1 {
		t.Errorf("expected exactly one crossing event, got %d", events)
	}

	if !c.Counted(5) {
		t.Error("expected track 5 to be marked as counted")
	}

	s := c.Summary()

	if s.Entries != 1 || s.Exits != 0 {
		t.Errorf("expected counts (1, 0), got (%d, %d)", s.Entries, s.Exits)
	}
}

// TestIndependentTracks tests two tracks crossing in opposite directions
// each produce their own event
func TestIndependentTracks(t *testing.T) {

	c, _ := NewCounter(0.5, 100)

	// track 1 moves down, track 2 moves up, interleaved per frame
	c.Observe(1, Pt(20, 10))
	c.Observe(2, Pt(60, 90))

	crossA := c.Observe(1, Pt(20, 70))
	crossB := c.Observe(2, Pt(60, 30))

	if crossA == nil || crossA.Direction != Entry {
		t.Errorf("expected entry for track 1, got %v", crossA)
	}

	if crossB == nil || crossB.Direction != Exit {
		t.Errorf("expected exit for track 2, got %v", crossB)
	}

	s := c.Summary()

	if s.Entries != 1 || s.Exits != 1 || s.NetFlow != 0 {
		t.Errorf("expected summary (1, 1, 0), got (%d, %d, %d)",
			s.Entries, s.Exits, s.NetFlow)
	}
}

// TestHistoryCap tests history is bounded to the trailing DefaultHistorySize
// points
func TestHistoryCap(t *testing.T) {

	c, _ := NewCounter(0.9, 1000)

	for i := 0; i < 40; i++ {
		c.Observe(9, Pt(i, i))
	}

	if got := c.HistoryLen(9); got != DefaultHistorySize {
		t.Errorf("expected history length %d, got %d", DefaultHistorySize, got)
	}

	// oldest points were evicted, first remaining point is observation 10
	points := c.History(9)

	if points[0].X != 10 {
		t.Errorf("expected oldest retained point x=10, got %d", points[0].X)
	}

	if points[len(points)-1].X != 39 {
		t.Errorf("expected newest point x=39, got %d", points[len(points)-1].X)
	}
}

// TestReset tests reset clears counts and history, and allows a previously
// counted track to be counted again
func TestReset(t *testing.T) {

	c, _ := NewCounter(0.5, 100)

	c.Observe(4, Pt(40, 10))
	c.Observe(4, Pt(40, 60))

	if s := c.Summary(); s.Entries != 1 {
		t.Fatalf("expected one entry before reset, got %d", s.Entries)
	}

	c.Reset()

	s := c.Summary()

	if s.Entries != 0 || s.Exits != 0 || s.NetFlow != 0 {
		t.Errorf("expected summary (0, 0, 0) after reset, got (%d, %d, %d)",
			s.Entries, s.Exits, s.NetFlow)
	}

	if c.HistoryLen(4) != 0 {
		t.Errorf("expected empty history after reset, got %d", c.HistoryLen(4))
	}

	// same track id can trigger a new event after reset
	c.Observe(4, Pt(40, 60))
	cross := c.Observe(4, Pt(40, 10))

	if cross == nil || cross.Direction != Exit {
		t.Errorf("expected exit crossing after reset, got %v", cross)
	}
}

// TestOnLineBoundary tests two consecutive points exactly on the line fire
// neither direction
func TestOnLineBoundary(t *testing.T) {

	c, _ := NewCounter(0.5, 100)

	c.Observe(6, Pt(40, 50))

	if cross := c.Observe(6, Pt(40, 50)); cross != nil {
		t.Errorf("expected no crossing for points on the line, got %v", cross)
	}

	s := c.Summary()

	if s.Entries != 0 || s.Exits != 0 {
		t.Errorf("expected zero counts, got (%d, %d)", s.Entries, s.Exits)
	}
}

// TestLandOnLine tests a movement that lands exactly on the line from above
// or below still counts as a crossing
func TestLandOnLine(t *testing.T) {

	c, _ := NewCounter(0.5, 100)

	// from above onto the line is an entry
	c.Observe(1, Pt(40, 49))
	cross := c.Observe(1, Pt(40, 50))

	if cross == nil || cross.Direction != Entry {
		t.Errorf("expected entry when landing on line from above, got %v", cross)
	}

	// from below onto the line is an exit
	c.Observe(2, Pt(40, 51))
	cross = c.Observe(2, Pt(40, 50))

	if cross == nil || cross.Direction != Exit {
		t.Errorf("expected exit when landing on line from below, got %v", cross)
	}
}
