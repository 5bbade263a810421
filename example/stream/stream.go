package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	footfall "github.com/openvisual/go-footfall"
	"github.com/openvisual/go-footfall/detect"
	"github.com/openvisual/go-footfall/render"
	"github.com/openvisual/go-footfall/tracker"
)

var (
	// FPS is the number of FPS to simulate
	FPS         = 30
	FPSinterval = time.Duration(float64(time.Second) / float64(FPS))
)

// Demo defines the struct for running the footfall counting demo
type Demo struct {
	// vidBuffer buffers the video frames into memory
	vidBuffer []gocv.Mat
	// det is the YOLO person detector
	det *detect.Detector
	// roiPosition is the vertical placement of the counting line
	roiPosition float64
	// frameHeight is the pixel height of the buffered video frames
	frameHeight int
}

// NewDemo returns an instance of Demo, a streaming HTTP server showing
// video with people being counted as they cross the line
func NewDemo(vidFile, weightsFile, netFile, labelFile string,
	roiPosition float64) (*Demo, error) {

	d := &Demo{
		roiPosition: roiPosition,
	}

	err := d.bufferVideo(vidFile)

	if err != nil {
		return nil, fmt.Errorf("error buffering video: %w", err)
	}

	d.frameHeight = d.vidBuffer[0].Rows()

	d.det, err = detect.NewDetector(weightsFile, netFile, labelFile)

	if err != nil {
		return nil, fmt.Errorf("error creating detector: %w", err)
	}

	return d, nil
}

// bufferVideo reads in the video frames and saves them to a buffer
func (d *Demo) bufferVideo(vidFile string) error {

	// open handle to read frames of video file
	video, err := gocv.VideoCaptureFile(vidFile)

	if err != nil {
		return err
	}

	defer video.Close()

	d.vidBuffer = make([]gocv.Mat, 0)

	for {
		img := gocv.NewMat()

		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			// reached last video frame
			break
		}

		// Check if the frame is empty
		if img.Empty() {
			continue
		}

		// push frame onto buffer
		d.vidBuffer = append(d.vidBuffer, img)
	}

	if len(d.vidBuffer) == 0 {
		return fmt.Errorf("no frames read from %s", vidFile)
	}

	return nil
}

// Stream is the HTTP handler function used to stream video frames to browser
func (d *Demo) Stream(w http.ResponseWriter, r *http.Request) {

	log.Printf("New client connection established")

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")

	// pointer to position in video buffer
	frameNum := -1

	// each stream gets its own tracker and counter as both keep per session
	// state, the tracker its track history and the counter its counted ids
	trk := tracker.NewTracker(FPS, FPS, 0.25, 0.5)

	cnt, err := footfall.NewCounter(d.roiPosition, d.frameHeight)

	if err != nil {
		log.Printf("Error creating counter: %v", err)
		return
	}

	// used for calculating FPS
	frameCount := 0
	startTime := time.Now()
	fps := float64(0)

	ticker := time.NewTicker(FPSinterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-r.Context().Done():
			log.Printf("Client disconnected")
			break loop

		// simulate reading 30FPS web camera
		case <-ticker.C:

			// increment pointer to next image in the video buffer
			frameNum++
			if frameNum > len(d.vidBuffer)-1 {
				// last frame reached so loop back to start of video
				frameNum = 0
				// clear tracker data
				trk.Reset()
				// clear counter and history data
				cnt.Reset()
			}

			// frames are processed in sequence as the counter relies on
			// observations arriving in video order
			buf, err := d.ProcessFrame(d.vidBuffer[frameNum], trk, cnt,
				fps, frameNum)

			if err != nil {
				log.Printf("Error occured during ProcessFrame: %v", err)
				continue
			}

			// Write the image to the response writer
			w.Write([]byte("--frame\r\n"))
			w.Write([]byte("Content-Type: image/jpeg\r\n\r\n"))
			w.Write(buf.GetBytes())
			w.Write([]byte("\r\n"))

			// Flush the buffer
			flusher, ok := w.(http.Flusher)
			if ok {
				flusher.Flush()
			}

			buf.Close()

			// calculate FPS
			frameCount++
			elapsed := time.Since(startTime).Seconds()

			if elapsed >= 1.0 {
				fps = float64(frameCount) / elapsed
				frameCount = 0
				startTime = time.Now()
			}
		}
	}
}

// ProcessFrame takes an image from the video, detects and tracks the people
// in it, feeds their positions to the counter, annotates the image, and
// returns the result encoded as a JPG file
func (d *Demo) ProcessFrame(img gocv.Mat, trk *tracker.Tracker,
	cnt *footfall.Counter, fps float64, frameNum int) (*gocv.NativeByteBuffer, error) {

	// copy the source image and annotate the copy
	resImg := gocv.NewMat()
	defer resImg.Close()
	img.CopyTo(&resImg)

	// run object detection on frame
	results, err := d.det.Detect(img)

	if err != nil {
		return nil, fmt.Errorf("error detecting objects: %w", err)
	}

	// track detected objects
	tracks, err := trk.Update(tracker.ResultsToDetections(results))

	if err != nil {
		return nil, fmt.Errorf("error updating tracker: %w", err)
	}

	render.CountLine(&resImg, cnt.LineY())

	// feed the tracked positions to the counter
	for _, track := range tracks {

		pos := footfall.Pt(int(track.Rect().CenterX()),
			int(track.Rect().CenterY()))

		if cross := cnt.Observe(track.TrackID(), pos); cross != nil {
			render.CrossingLabel(&resImg, cross, pos)
		}
	}

	render.TrackBoxes(&resImg, tracks, d.det.Labels(), render.DefaultFont(), 1)
	render.Trails(&resImg, tracks, cnt)
	render.Banner(&resImg, cnt.Summary())

	d.annotateStats(&resImg, fps, frameNum, len(tracks))

	// Encode the image to JPEG format
	return gocv.IMEncode(".jpg", resImg)
}

// annotateStats adds FPS, object count, and frame number to the bottom of
// the image
func (d *Demo) annotateStats(img *gocv.Mat, fps float64, frameNum,
	objCnt int) {

	gocv.PutTextWithParams(img,
		fmt.Sprintf("Frame: %d, FPS: %.2f, Objects: %d", frameNum, fps, objCnt),
		image.Pt(4, img.Rows()-10), gocv.FontHersheySimplex, 0.5, render.Pink,
		1, gocv.LineAA, false)
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	vidFile := flag.String("v", "../data/mall.mp4", "Video file to run counting on")
	weightsFile := flag.String("m", "../data/yolov4-tiny.weights", "YOLO model weights file")
	netFile := flag.String("n", "../data/yolov4-tiny.cfg", "YOLO network configuration file")
	labelFile := flag.String("l", "../data/coco_80_labels_list.txt", "Text file containing model labels")
	roi := flag.Float64("r", 0.5, "Vertical position of counting line [0-1]")
	httpAddr := flag.String("a", "localhost:8080", "HTTP Address to run server on, format address:port")
	limitLabels := flag.String("x", "person", "Comma delimited list of labels (COCO) to restrict counting to")

	flag.Parse()

	demo, err := NewDemo(*vidFile, *weightsFile, *netFile, *labelFile, *roi)

	if err != nil {
		log.Fatalf("Error creating demo: %v", err)
	}

	if *limitLabels != "" {
		demo.det.LimitClasses(*limitLabels)
	}

	http.HandleFunc("/stream", demo.Stream)

	// start http server
	log.Println(fmt.Sprintf("Open browser and view video at http://%s/stream",
		*httpAddr))
	log.Fatal(http.ListenAndServe(*httpAddr, nil))
}
