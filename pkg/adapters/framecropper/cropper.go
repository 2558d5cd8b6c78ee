// Package framecropper slices full-page screenshots into device-sized frames.
package framecropper

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/user/devshot/pkg/datauri"
	"github.com/user/devshot/pkg/ports"
)

// ErrEmptyImage is returned when the screenshot has no pixels.
var ErrEmptyImage = errors.New("framecropper: empty image")

// Cropper implements ports.Cropper on top of a ports.Renderer.
type Cropper struct {
	renderer ports.Renderer
	format   ports.ImageFormat
	quality  int
}

// New creates a Cropper that re-encodes frames in the given format.
func New(renderer ports.Renderer, format ports.ImageFormat, quality int) *Cropper {
	if format == ports.FormatAuto {
		format = ports.FormatPNG
	}
	return &Cropper{renderer: renderer, format: format, quality: quality}
}

// Crop decodes the screenshot and returns one frame per window computed by Windows.
func (c *Cropper) Crop(ctx context.Context, uri string, device ports.DeviceProfile, offset ports.Offset) ([]string, error) {
	_, data, err := datauri.Decode(uri)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	img, err := c.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	windows := Windows(img.Bounds(), device, offset)
	if len(windows) == 0 {
		return nil, ErrEmptyImage
	}

	frames := make([]string, 0, len(windows))
	for i, rect := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		encoded, err := c.renderer.EncodeImage(c.renderer.CropImage(img, rect), c.format, c.quality)
		if err != nil {
			return nil, fmt.Errorf("encode frame %d: %w", i, err)
		}
		frames = append(frames, datauri.Encode(c.format.MIMEType(), encoded))
	}
	return frames, nil
}

// Windows computes the crop rectangles, in device pixels, for a screenshot
// with the given bounds. Each window is one device viewport; X insets every
// window horizontally and Y is the vertical step between windows (one full
// device height when Y <= 0). The final window is clamped to the bottom edge
// so the end of the page is always included.
func Windows(bounds image.Rectangle, device ports.DeviceProfile, offset ports.Offset) []image.Rectangle {
	if bounds.Empty() {
		return nil
	}

	scale := device.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}
	frameW, frameH := device.PixelSize()
	insetX := int(float64(offset.X) * scale)
	step := int(float64(offset.Y) * scale)
	if step <= 0 {
		step = frameH
	}

	left := bounds.Min.X + insetX
	if left >= bounds.Max.X {
		left = bounds.Min.X
	}
	right := left + frameW
	if frameW <= 0 || right > bounds.Max.X {
		right = bounds.Max.X
	}

	if frameH <= 0 || bounds.Dy() <= frameH {
		return []image.Rectangle{image.Rect(left, bounds.Min.Y, right, bounds.Max.Y)}
	}

	var windows []image.Rectangle
	top := bounds.Min.Y
	for ; top+frameH <= bounds.Max.Y; top += step {
		windows = append(windows, image.Rect(left, top, right, top+frameH))
	}
	if last := windows[len(windows)-1]; last.Max.Y < bounds.Max.Y {
		windows = append(windows, image.Rect(left, bounds.Max.Y-frameH, right, bounds.Max.Y))
	}
	return windows
}

// Ensure Cropper implements ports.Cropper
var _ ports.Cropper = (*Cropper)(nil)
