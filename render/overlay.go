// Package render draws counting line, track, and statistics overlays onto
// video frames.
package render

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	footfall "github.com/openvisual/go-footfall"
	"github.com/openvisual/go-footfall/tracker"
)

// CountLine draws the horizontal counting line across the full frame width
// at the given y coordinate
func CountLine(img *gocv.Mat, y int) {
	gocv.Line(img, image.Pt(0, y), image.Pt(img.Cols(), y), Yellow, 2)
}

// TrackBoxes draws the bounding box of each tracked object with a label
// holding the class name and track id
func TrackBoxes(img *gocv.Mat, tracks []*tracker.Track, classNames []string,
	font Font, lineThickness int) {

	for _, track := range tracks {

		useClr := TrackColor(track.TrackID())

		rect := image.Rect(
			int(track.Rect().TLX()), int(track.Rect().TLY()),
			int(track.Rect().BRX()), int(track.Rect().BRY()),
		)
		gocv.Rectangle(img, rect, useClr, lineThickness)

		// label with class name and tracking id
		text := fmt.Sprintf("%s %d", classNames[track.Label()], track.TrackID())
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		// create box for placing text on
		bRect := image.Rect(rect.Min.X,
			rect.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
			rect.Min.X+textSize.X+font.LeftPad+font.RightPad, rect.Min.Y)
		gocv.Rectangle(img, bRect, useClr, -1)

		gocv.PutTextWithParams(img, text,
			image.Pt(rect.Min.X+font.LeftPad, rect.Min.Y-font.BottomPad),
			font.Face, font.Scale, Black, font.Thickness, font.LineType, false)
	}
}

// Trails draws the center point history of each tracked object as a
// polyline with a circle on the current position
func Trails(img *gocv.Mat, tracks []*tracker.Track, counter *footfall.Counter) {

	for _, track := range tracks {

		points := counter.History(track.TrackID())

		if len(points) < 2 {
			continue
		}

		lineClr := TrackColor(track.TrackID())

		for i := 1; i < len(points); i++ {
			// draw line segment of trail
			gocv.Line(img,
				image.Pt(points[i-1].X, points[i-1].Y),
				image.Pt(points[i].X, points[i].Y),
				lineClr, 1,
			)

			if i == len(points)-1 {
				// draw center point circle on current position
				gocv.Circle(img, image.Pt(points[i].X, points[i].Y), 3,
					Pink, -1)
			}
		}
	}
}

// CrossingLabel flashes the crossing direction next to the position the
// crossing was detected at
func CrossingLabel(img *gocv.Mat, cross *footfall.Crossing, pos footfall.Point) {

	clr := Green

	if cross.Direction == footfall.Exit {
		clr = Red
	}

	gocv.PutTextWithParams(img, cross.Direction.String(),
		image.Pt(pos.X-40, pos.Y-30), gocv.FontHersheySimplex, 0.8, clr, 2,
		gocv.LineAA, false)
}

// Banner draws the running entry/exit statistics in a darkened box at the
// top left corner of the frame
func Banner(img *gocv.Mat, s footfall.Summary) {

	// darken the banner area keeping the video visible underneath
	overlay := img.Clone()
	gocv.Rectangle(&overlay, image.Rect(0, 0, 260, 110), Black, -1)
	gocv.AddWeighted(overlay, 0.6, *img, 0.4, 0, img)
	overlay.Close()

	gocv.PutTextWithParams(img, fmt.Sprintf("ENTRIES: %d", s.Entries),
		image.Pt(10, 30), gocv.FontHersheySimplex, 0.7, Green, 2,
		gocv.LineAA, false)

	gocv.PutTextWithParams(img, fmt.Sprintf("EXITS:   %d", s.Exits),
		image.Pt(10, 60), gocv.FontHersheySimplex, 0.7, Red, 2,
		gocv.LineAA, false)

	gocv.PutTextWithParams(img, fmt.Sprintf("TOTAL:   %d", s.Entries+s.Exits),
		image.Pt(10, 90), gocv.FontHersheySimplex, 0.7, Yellow, 2,
		gocv.LineAA, false)
}
