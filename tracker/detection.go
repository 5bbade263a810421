package tracker

// Detection represents an object detected in a single frame that is fed into
// the Tracker for association across frames
type Detection struct {
	// Rect is the bounding box of the detected object
	Rect Rect
	// Label is the class label of the object detected
	Label int
	// Score is the confidence of the object detected
	Score float32
	// ID is a unique ID given to this detection which can be used to match
	// the input detection and tracked object
	ID int64
}

// NewDetection is a constructor function for the Detection struct
func NewDetection(rect Rect, label int, score float32, id int64) Detection {
	return Detection{
		Rect:  rect,
		Label: label,
		Score: score,
		ID:    id,
	}
}
