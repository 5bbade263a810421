package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"

	footfall "github.com/openvisual/go-footfall"
	"github.com/openvisual/go-footfall/config"
	"github.com/openvisual/go-footfall/detect"
	"github.com/openvisual/go-footfall/render"
	"github.com/openvisual/go-footfall/store"
	"github.com/openvisual/go-footfall/tracker"
)

// TTFFontSize is the point size used for the statistics banner when a TTF
// font file is provided
const TTFFontSize = 20

// App processes a video file counting people crossing the line and writes
// an annotated output video
type App struct {
	cfg config.Config
	// video is the input video handle
	video *gocv.VideoCapture
	// writer writes the annotated output video
	writer *gocv.VideoWriter
	// det is the YOLO person detector
	det *detect.Detector
	// trk assigns stable track ids to detections across frames
	trk *tracker.Tracker
	// cnt is the line crossing counter
	cnt *footfall.Counter
	// db is the optional crossing event log
	db *store.Store
	// fontFace is the optional TTF type face for the banner
	fontFace font.Face
	// video properties
	width       int
	height      int
	fps         int
	totalFrames int
}

// NewApp opens the video source and creates the detection, tracking, and
// counting pipeline from the session configuration
func NewApp(cfg config.Config) (*App, error) {

	a := &App{cfg: cfg}

	var err error
	a.video, err = gocv.VideoCaptureFile(cfg.Video)

	if err != nil {
		return nil, fmt.Errorf("error opening video source %s: %w",
			cfg.Video, err)
	}

	a.width = int(a.video.Get(gocv.VideoCaptureFrameWidth))
	a.height = int(a.video.Get(gocv.VideoCaptureFrameHeight))
	a.fps = int(a.video.Get(gocv.VideoCaptureFPS))
	a.totalFrames = int(a.video.Get(gocv.VideoCaptureFrameCount))

	if a.fps <= 0 {
		a.fps = 30
	}

	// counting line placement is validated here, abort the session on a
	// bad configuration
	a.cnt, err = footfall.NewCounter(cfg.ROIPosition, a.height)

	if err != nil {
		a.Close()
		return nil, fmt.Errorf("error creating counter: %w", err)
	}

	a.det, err = detect.NewDetector(cfg.Weights, cfg.ModelConfig, cfg.Labels)

	if err != nil {
		a.Close()
		return nil, fmt.Errorf("error creating detector: %w", err)
	}

	a.det.SetConfidence(float32(cfg.Confidence))

	if cfg.Classes != "" {
		a.det.LimitClasses(cfg.Classes)
	}

	a.trk = tracker.NewTracker(a.fps, a.fps, 0.25, float32(cfg.Confidence))

	a.writer, err = gocv.VideoWriterFile(cfg.Output, "mp4v",
		float64(a.fps), a.width, a.height, true)

	if err != nil {
		a.Close()
		return nil, fmt.Errorf("error creating output video %s: %w",
			cfg.Output, err)
	}

	if cfg.Database != "" {
		a.db, err = store.Open(cfg.Database)

		if err != nil {
			a.Close()
			return nil, fmt.Errorf("error opening event database: %w", err)
		}
	}

	if cfg.Font != "" {
		a.fontFace, err = render.LoadFontFace(cfg.Font, TTFFontSize)

		if err != nil {
			a.Close()
			return nil, fmt.Errorf("error loading TTF font: %w", err)
		}
	}

	return a, nil
}

// Close releases all resources held by the App
func (a *App) Close() {

	if a.video != nil {
		a.video.Close()
	}

	if a.writer != nil {
		a.writer.Close()
	}

	if a.det != nil {
		a.det.Close()
	}

	if a.db != nil {
		a.db.Close()
	}
}

// Run reads the video frame by frame, processes each frame, and prints the
// results summary when the video ends
func (a *App) Run() error {

	log.Printf("Processing %s, %dx%d at %d FPS", a.cfg.Video,
		a.width, a.height, a.fps)
	log.Printf("Counting line at y=%d", a.cnt.LineY())

	img := gocv.NewMat()
	defer img.Close()

	frameNum := 0

	for {
		if ok := a.video.Read(&img); !ok {
			// reached last video frame
			break
		}

		if img.Empty() {
			continue
		}

		frameNum++

		if err := a.processFrame(&img, frameNum); err != nil {
			return fmt.Errorf("error processing frame %d: %w", frameNum, err)
		}

		a.writer.Write(img)

		if frameNum%30 == 0 && a.totalFrames > 0 {
			percent := float64(frameNum) / float64(a.totalFrames) * 100
			log.Printf("Progress: %.1f%%", percent)
		}
	}

	a.printSummary()

	return nil
}

// processFrame runs detection, tracking, and counting on a single frame and
// draws the annotations onto it
func (a *App) processFrame(img *gocv.Mat, frameNum int) error {

	results, err := a.det.Detect(*img)

	if err != nil {
		return fmt.Errorf("error detecting objects: %w", err)
	}

	tracks, err := a.trk.Update(tracker.ResultsToDetections(results))

	if err != nil {
		return fmt.Errorf("error updating tracker: %w", err)
	}

	render.CountLine(img, a.cnt.LineY())

	for _, track := range tracks {

		pos := footfall.Pt(int(track.Rect().CenterX()),
			int(track.Rect().CenterY()))

		cross := a.cnt.Observe(track.TrackID(), pos)

		if cross == nil {
			continue
		}

		symbol := "+"
		total := cross.Entries

		if cross.Direction == footfall.Exit {
			symbol = "-"
			total = cross.Exits
		}

		log.Printf("[%s] %-5s | ID:%d | Total: %d",
			symbol, cross.Direction, cross.TrackID, total)

		if a.db != nil {
			if err := a.db.RecordCrossing(frameNum, cross); err != nil {
				log.Printf("Error recording crossing: %v", err)
			}
		}

		render.CrossingLabel(img, cross, pos)
	}

	render.TrackBoxes(img, tracks, a.det.Labels(), render.DefaultFont(), 2)
	render.Trails(img, tracks, a.cnt)

	if a.fontFace != nil {
		if err := render.BannerTTF(img, a.cnt.Summary(), a.fontFace); err != nil {
			return fmt.Errorf("error rendering banner: %w", err)
		}
	} else {
		render.Banner(img, a.cnt.Summary())
	}

	return nil
}

// printSummary prints the final counting results
func (a *App) printSummary() {

	s := a.cnt.Summary()

	log.Println(strings.Repeat("=", 60))
	log.Println("RESULTS SUMMARY")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Entries : %d", s.Entries)
	log.Printf("Exits   : %d", s.Exits)
	log.Printf("Net Flow: %d", s.NetFlow)
	log.Printf("Saved video: %s", a.cfg.Output)
	log.Println(strings.Repeat("=", 60))
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags, flag values override the config file
	cfgFile := flag.String("c", "", "TOML configuration file")
	vidFile := flag.String("v", "", "Video file to run counting on")
	outFile := flag.String("o", "", "The output video file with annotations")
	weightsFile := flag.String("m", "", "YOLO model weights file")
	netFile := flag.String("n", "", "YOLO network configuration file")
	labelFile := flag.String("l", "", "Text file containing model labels")
	roi := flag.Float64("r", -1, "Vertical position of counting line [0-1]")
	conf := flag.Float64("p", -1, "Detection confidence threshold")
	classes := flag.String("x", "", "Comma delimited list of labels to restrict counting to")
	dbFile := flag.String("d", "", "Optional sqlite file to record crossing events to")
	ttfFont := flag.String("f", "", "Optional TTF font for the statistics banner")

	flag.Parse()

	cfg, err := config.Load(*cfgFile)

	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			cfg.Video = *vidFile
		case "o":
			cfg.Output = *outFile
		case "m":
			cfg.Weights = *weightsFile
		case "n":
			cfg.ModelConfig = *netFile
		case "l":
			cfg.Labels = *labelFile
		case "r":
			cfg.ROIPosition = *roi
		case "p":
			cfg.Confidence = *conf
		case "x":
			cfg.Classes = *classes
		case "d":
			cfg.Database = *dbFile
		case "f":
			cfg.Font = *ttfFont
		}
	})

	if cfg.Video == "" {
		log.Fatal("No input video given, use -v or the config file")
	}

	app, err := NewApp(cfg)

	if err != nil {
		log.Fatalf("Error creating app: %v", err)
	}

	defer app.Close()

	if err := app.Run(); err != nil {
		log.Fatalf("Error running app: %v", err)
	}
}
