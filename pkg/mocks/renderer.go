package mocks

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/user/devshot/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer backed by image.RGBA.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	CropImageFunc    func(img image.Image, rect image.Rectangle) image.Image
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	return NewCanvas(width, height)
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

func (m *Renderer) CropImage(img image.Image, rect image.Rectangle) image.Image {
	if m.CropImageFunc != nil {
		return m.CropImageFunc(img, rect)
	}
	return image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas that counts operations.
type Canvas struct {
	img *image.RGBA

	ClearCalls int
	DrawCalls  int
}

// NewCanvas creates a transparent mock canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (m *Canvas) Clear() {
	m.ClearCalls++
	draw.Draw(m.img, m.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	m.DrawCalls++
	draw.Draw(m.img, img.Bounds().Add(image.Pt(x, y)), img, img.Bounds().Min, draw.Over)
}

func (m *Canvas) Size() (int, int) {
	return m.img.Bounds().Dx(), m.img.Bounds().Dy()
}

func (m *Canvas) ToImage() image.Image {
	return m.img
}

var _ ports.Canvas = (*Canvas)(nil)
