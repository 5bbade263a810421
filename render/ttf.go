package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	footfall "github.com/openvisual/go-footfall"
)

// LoadFontFace loads a TTF font from the given path and returns a type face
// at the given point size for drawing overlay text
func LoadFontFace(fontPath string, size float64) (font.Face, error) {

	// load font data
	fontBytes, err := os.ReadFile(fontPath)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	// parse the font
	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	// create a type face
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return face, nil
}

// TTFText draws the given text onto the image at x, y using a TTF type face
// instead of the built in Hershey fonts
func TTFText(img *gocv.Mat, face font.Face, text string, x, y int,
	clr color.RGBA) error {

	// create transparent image and write text onto it
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}),
		image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	dr.DrawString(text)

	// convert image.RGBA to gocv.Mat
	imgRGBA, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(),
		rgba.Bounds().Dx(), gocv.MatTypeCV8UC4, rgba.Pix)

	if imgRGBA.Empty() || err != nil {
		return fmt.Errorf("error creating Mat from RGBA")
	}

	defer imgRGBA.Close()

	gocv.CvtColor(imgRGBA, &imgRGBA, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, imgRGBA, 1.0, 0, img)

	return nil
}

// BannerTTF draws the running entry/exit statistics like Banner but using a
// loaded TTF type face
func BannerTTF(img *gocv.Mat, s footfall.Summary, face font.Face) error {

	// darken the banner area keeping the video visible underneath
	overlay := img.Clone()
	gocv.Rectangle(&overlay, image.Rect(0, 0, 260, 110), Black, -1)
	gocv.AddWeighted(overlay, 0.6, *img, 0.4, 0, img)
	overlay.Close()

	if err := TTFText(img, face, fmt.Sprintf("ENTRIES: %d", s.Entries),
		10, 30, Green); err != nil {
		return err
	}

	if err := TTFText(img, face, fmt.Sprintf("EXITS: %d", s.Exits),
		10, 60, Red); err != nil {
		return err
	}

	return TTFText(img, face, fmt.Sprintf("TOTAL: %d", s.Entries+s.Exits),
		10, 90, Yellow)
}
