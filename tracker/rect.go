package tracker

// Rect represents a bounding box in top-left x, y, width, height format
type Rect struct {
	X, Y, W, H float32
}

// NewRect creates a new Rect with given top-left coordinates and dimensions
func NewRect(x, y, width, height float32) Rect {
	return Rect{X: x, Y: y, W: width, H: height}
}

// NewRectFromCorners creates a Rect from top-left and bottom-right corner
// coordinates
func NewRectFromCorners(x1, y1, x2, y2 float32) Rect {
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// TLX returns the top-left x coordinate of the rectangle
func (r Rect) TLX() float32 {
	return r.X
}

// TLY returns the top-left y coordinate of the rectangle
func (r Rect) TLY() float32 {
	return r.Y
}

// BRX returns the bottom-right x coordinate of the rectangle
func (r Rect) BRX() float32 {
	return r.X + r.W
}

// BRY returns the bottom-right y coordinate of the rectangle
func (r Rect) BRY() float32 {
	return r.Y + r.H
}

// CenterX returns the x coordinate of the rectangle center
func (r Rect) CenterX() float32 {
	return r.X + r.W/2
}

// CenterY returns the y coordinate of the rectangle center
func (r Rect) CenterY() float32 {
	return r.Y + r.H/2
}

// Area returns the rectangle area
func (r Rect) Area() float32 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}

	return r.W * r.H
}

// IoU calculates the Intersection over Union with another rectangle
func (r Rect) IoU(other Rect) float32 {

	ix := min32(r.BRX(), other.BRX()) - max32(r.TLX(), other.TLX())

	if ix <= 0 {
		return 0
	}

	iy := min32(r.BRY(), other.BRY()) - max32(r.TLY(), other.TLY())

	if iy <= 0 {
		return 0
	}

	intersection := ix * iy
	union := r.Area() + other.Area() - intersection

	if union <= 0 {
		return 0
	}

	return intersection / union
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
