// Package compose builds the images stored in feed slots: owned Mats wrapped
// around decoded RGB bytes, side-by-side stereo splits, and the synthesized
// placeholder imagery used when no real frame is available.
package compose

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Pixel layout of decoded frames: packed 8-bit interleaved RGB.
const BytesPerPixel = 3

// Placeholder fill and caption constants, shared by every synthesized image.
var (
	fillColor    = gocv.NewScalar(0, 0, 200, 0)
	captionColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

const (
	captionScale     = 5.0
	captionThickness = 4
)

// Label builds the placeholder caption identifying a side and stream name,
// e.g. "[left]head-cam".
func Label(side string, name string) string {
	return "[" + side + "]" + name
}

// Placeholder synthesizes a solid-fill image with a caption. The returned Mat
// owns its memory; the caller must Close it.
func Placeholder(width, height int, label string) gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(fillColor, height, width, gocv.MatTypeCV8UC3)
	gocv.PutText(&m, label, image.Pt(250, 250),
		gocv.FontHersheySimplex, captionScale, captionColor, captionThickness)
	return m
}

// ErrorFrame synthesizes the placeholder shown when the pipeline reported a
// fatal error or end-of-stream.
func ErrorFrame(width, height int) gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(fillColor, height, width, gocv.MatTypeCV8UC3)
	gocv.PutText(&m, "Error or End Video", image.Pt(width/2, height/2),
		gocv.FontHersheySimplex, captionScale, captionColor, captionThickness)
	return m
}

// FromRGB wraps interleaved RGB bytes in an owned Mat. The data is copied, so
// the source buffer may be released immediately after the call.
func FromRGB(data []byte, width, height int) (gocv.Mat, error) {
	if len(data) != width*height*BytesPerPixel {
		return gocv.Mat{}, fmt.Errorf(
			"compose: frame is %d bytes, want %d (%dx%dx%d)",
			len(data), width*height*BytesPerPixel, width, height, BytesPerPixel,
		)
	}
	return gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, data)
}

// SplitStereo wraps a side-by-side frame in an owned full Mat and returns
// half-width left/right views into it. The views share the full Mat's memory
// and stay valid only while it is alive; close the views before the full Mat.
func SplitStereo(data []byte, width, height int) (full, left, right gocv.Mat, err error) {
	full, err = FromRGB(data, width, height)
	if err != nil {
		return gocv.Mat{}, gocv.Mat{}, gocv.Mat{}, err
	}
	left = full.Region(image.Rect(0, 0, width/2, height))
	right = full.Region(image.Rect(width/2, 0, width, height))
	return full, left, right, nil
}
