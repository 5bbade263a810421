// Package detect performs YOLO object detection on video frames using the
// OpenCV DNN module.  Detections are filtered by confidence and optionally
// by class before being handed to the tracker.
package detect

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// YoloInputSize is the square tensor input size of the YOLO model
	YoloInputSize = 416

	// DefaultConfidence is the minimum detection confidence threshold
	DefaultConfidence = 0.5
	// DefaultNMSThreshold is the non-maximum suppression overlap threshold
	DefaultNMSThreshold = 0.4
)

// Result defines the attributes of a single object detected in a frame
type Result struct {
	// Class is the line number in the labels file the model was trained on
	// defining the class of the detected object
	Class int
	// Box is the bounding box of the object location in frame coordinates
	Box image.Rectangle
	// Score is the confidence of the object detected
	Score float32
	// ID is a unique ID assigned to the detection result
	ID int64
}

// Detector runs YOLO inference on frames through the OpenCV DNN module
type Detector struct {
	net    gocv.Net
	labels []string
	// confThresh is the minimum confidence for a detection to be kept
	confThresh float32
	// nmsThresh is the IoU threshold used for non-maximum suppression
	nmsThresh float32
	// limitClasses restricts detection results to these class indexes,
	// empty means all classes are kept
	limitClasses []int
	// idGen assigns unique IDs to detection results
	idGen *IDGenerator
	// mu serializes access to the network, gocv.Net is stateful native code
	// and must not run SetInput/Forward from multiple goroutines at once
	mu sync.Mutex
}

// NewDetector loads the YOLO network from the given weights and network
// configuration files along with the class labels the model was trained on
func NewDetector(weightsFile, configFile, labelFile string) (*Detector, error) {

	net := gocv.ReadNet(weightsFile, configFile)

	if net.Empty() {
		return nil, fmt.Errorf("error loading network from %s and %s",
			weightsFile, configFile)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	labels, err := LoadLabels(labelFile)

	if err != nil {
		net.Close()
		return nil, fmt.Errorf("error loading model labels: %w", err)
	}

	return &Detector{
		net:        net,
		labels:     labels,
		confThresh: DefaultConfidence,
		nmsThresh:  DefaultNMSThreshold,
		idGen:      NewIDGenerator(),
	}, nil
}

// Labels returns the class labels the model was trained on
func (d *Detector) Labels() []string {
	return d.labels
}

// SetConfidence sets the minimum confidence threshold for detections
func (d *Detector) SetConfidence(conf float32) {
	d.confThresh = conf
}

// LimitClasses limits the object detection kind to the labels provided, eg:
// limit to just "person".  Provide a comma delimited list of labels to
// restrict to.  Words that are not a label in the labels file are ignored
func (d *Detector) LimitClasses(lim string) {

	words := strings.Split(lim, ",")

	for _, word := range words {
		trimmed := strings.TrimSpace(word)

		// check if word is an actual label in our labels file
		for i, label := range d.labels {
			if label == trimmed {
				d.limitClasses = append(d.limitClasses, i)
				break
			}
		}
	}
}

// classAllowed checks if the given class index passes the class filter
func (d *Detector) classAllowed(class int) bool {

	if len(d.limitClasses) == 0 {
		return true
	}

	for _, c := range d.limitClasses {
		if c == class {
			return true
		}
	}

	return false
}

// Detect runs YOLO inference on the given frame and returns the detected
// objects in frame pixel coordinates after confidence filtering, class
// filtering, and non-maximum suppression
func (d *Detector) Detect(img gocv.Mat) ([]Result, error) {

	d.mu.Lock()
	defer d.mu.Unlock()

	if img.Empty() {
		return nil, fmt.Errorf("input frame is empty")
	}

	frameWidth := float32(img.Cols())
	frameHeight := float32(img.Rows())

	// create blob from image
	blob := gocv.BlobFromImage(img, 1.0/255.0,
		image.Pt(YoloInputSize, YoloInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	var boxes []image.Rectangle
	var scores []float32
	var classes []int

	// each output row is cx, cy, w, h, objectness followed by per class
	// scores, coordinates normalized to the input size
	for i := 0; i < output.Rows(); i++ {

		row := output.RowRange(i, i+1)
		data := row.Clone()
		classScores := data.ColRange(5, data.Cols())

		_, maxVal, _, maxLoc := gocv.MinMaxLoc(classScores)
		classID := maxLoc.X
		confidence := maxVal

		if confidence >= d.confThresh && classID < len(d.labels) &&
			d.classAllowed(classID) {

			// scale normalized center box coordinates to the frame size
			cx := data.GetFloatAt(0, 0) * frameWidth
			cy := data.GetFloatAt(0, 1) * frameHeight
			width := data.GetFloatAt(0, 2) * frameWidth
			height := data.GetFloatAt(0, 3) * frameHeight

			left := int(cx - width/2)
			top := int(cy - height/2)

			boxes = append(boxes, image.Rect(left, top,
				left+int(width), top+int(height)))
			scores = append(scores, confidence)
			classes = append(classes, classID)
		}

		classScores.Close()
		data.Close()
		row.Close()
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	// suppress overlapping boxes keeping the highest scoring ones
	indices := gocv.NMSBoxes(boxes, scores, d.confThresh, d.nmsThresh)

	var results []Result

	for _, idx := range indices {
		results = append(results, Result{
			Class: classes[idx],
			Box:   boxes[idx],
			Score: scores[idx],
			ID:    d.idGen.GetNext(),
		})
	}

	return results, nil
}

// Close releases the resources held by the network
func (d *Detector) Close() error {
	return d.net.Close()
}
