package framecropper

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/user/devshot/pkg/adapters/ggrenderer"
	"github.com/user/devshot/pkg/datauri"
	"github.com/user/devshot/pkg/ports"
)

func TestWindows(t *testing.T) {
	device := ports.DeviceProfile{ID: "phone", Width: 100, Height: 200, DeviceScaleFactor: 2}

	tests := []struct {
		name   string
		bounds image.Rectangle
		offset ports.Offset
		want   []image.Rectangle
	}{
		{
			name:   "exact pages",
			bounds: image.Rect(0, 0, 200, 800),
			want: []image.Rectangle{
				image.Rect(0, 0, 200, 400),
				image.Rect(0, 400, 200, 800),
			},
		},
		{
			name:   "last page clamped to bottom",
			bounds: image.Rect(0, 0, 200, 1000),
			want: []image.Rectangle{
				image.Rect(0, 0, 200, 400),
				image.Rect(0, 400, 200, 800),
				image.Rect(0, 600, 200, 1000),
			},
		},
		{
			name:   "vertical step in CSS pixels",
			bounds: image.Rect(0, 0, 200, 600),
			offset: ports.Offset{Y: 50},
			want: []image.Rectangle{
				image.Rect(0, 0, 200, 400),
				image.Rect(0, 100, 200, 500),
				image.Rect(0, 200, 200, 600),
			},
		},
		{
			name:   "shorter than one frame",
			bounds: image.Rect(0, 0, 200, 300),
			want:   []image.Rectangle{image.Rect(0, 0, 200, 300)},
		},
		{
			name:   "horizontal inset",
			bounds: image.Rect(0, 0, 300, 400),
			offset: ports.Offset{X: 10},
			want:   []image.Rectangle{image.Rect(20, 0, 220, 400)},
		},
		{
			name:   "empty",
			bounds: image.Rectangle{},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Windows(tt.bounds, device, tt.offset)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d windows, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("window %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestCropper_Crop(t *testing.T) {
	r := ggrenderer.New()

	page := image.NewRGBA(image.Rect(0, 0, 375, 1334))
	for y := 0; y < 1334; y++ {
		for x := 0; x < 375; x++ {
			page.Set(x, y, color.RGBA{G: uint8(y % 256), A: 255})
		}
	}
	data, err := r.EncodeImage(page, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	device := ports.DeviceProfile{ID: "iphone-se", Width: 375, Height: 667, DeviceScaleFactor: 1}
	c := New(r, ports.FormatPNG, 0)

	frames, err := c.Crop(context.Background(), datauri.Encode("image/png", data), device, ports.Offset{})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}

	for i, frame := range frames {
		mimeType, payload, err := datauri.Decode(frame)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if mimeType != "image/png" {
			t.Errorf("frame %d: expected image/png, got %s", i, mimeType)
		}
		img, err := r.DecodeImage(payload, ports.FormatPNG)
		if err != nil {
			t.Fatalf("frame %d: decode: %v", i, err)
		}
		if img.Bounds().Dx() != 375 || img.Bounds().Dy() != 667 {
			t.Errorf("frame %d: expected 375x667, got %v", i, img.Bounds())
		}
	}
}

func TestCropper_Crop_InvalidInput(t *testing.T) {
	c := New(ggrenderer.New(), ports.FormatPNG, 0)
	device := ports.DeviceProfile{ID: "x", Width: 10, Height: 10, DeviceScaleFactor: 1}

	if _, err := c.Crop(context.Background(), "data:image/png;base64,AAAA", device, ports.Offset{}); err == nil {
		t.Error("expected error for undecodable image")
	}
}
