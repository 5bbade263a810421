package tracker

import "github.com/openvisual/go-footfall/detect"

// ResultsToDetections takes object detection results and converts them into
// tracker detections
func ResultsToDetections(results []detect.Result) []Detection {

	var dets []Detection

	for _, res := range results {

		x := float32(res.Box.Min.X)
		y := float32(res.Box.Min.Y)
		width := float32(res.Box.Dx())
		height := float32(res.Box.Dy())

		dets = append(dets, Detection{
			Rect:  NewRect(x, y, width, height),
			Label: res.Class,
			Score: res.Score,
			ID:    res.ID,
		})
	}

	return dets
}
