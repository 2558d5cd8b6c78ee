package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts image processing operations.
type Renderer interface {
	// CreateCanvas creates a new drawing surface filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage decodes image data, detecting the format when it is FormatAuto.
	DecodeImage(data []byte, format ImageFormat) (image.Image, error)

	// EncodeImage encodes an image to the specified format.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// CropImage copies the rect area of img into a new image anchored at (0,0).
	CropImage(img image.Image, rect image.Rectangle) image.Image
}

// Canvas is a mutable drawing surface.
type Canvas interface {
	// Clear resets every pixel to the canvas background.
	Clear()

	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// Size returns the canvas dimensions.
	Size() (width, height int)

	// ToImage returns the canvas backing image. Callers must not retain it
	// across further drawing.
	ToImage() image.Image
}

// ImageFormat specifies image encoding format.
type ImageFormat int

const (
	FormatAuto ImageFormat = iota
	FormatPNG
	FormatJPEG
)

// ParseImageFormat maps a config value to an ImageFormat.
func ParseImageFormat(s string) (ImageFormat, bool) {
	switch s {
	case "png", "":
		return FormatPNG, true
	case "jpeg", "jpg":
		return FormatJPEG, true
	default:
		return FormatAuto, false
	}
}

// Extension returns the file extension for the format, including the dot.
func (f ImageFormat) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// MIMEType returns the media type for the format.
func (f ImageFormat) MIMEType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}
