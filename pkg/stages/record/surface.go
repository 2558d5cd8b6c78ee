package record

import (
	"image"
	"sync"

	"golang.org/x/image/draw"

	"github.com/user/devshot/pkg/ports"
)

// surface is the drawing surface shared by the animator (writer) and the
// stream capture (reader).
type surface struct {
	mu     sync.RWMutex
	canvas ports.Canvas
}

func newSurface(canvas ports.Canvas) *surface {
	return &surface{canvas: canvas}
}

// paint replaces the surface contents with img. A nil img leaves the
// previous contents in place.
func (s *surface) paint(img image.Image) {
	if img == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Clear()
	s.canvas.DrawImage(img, 0, 0)
}

// snapshot copies the current contents.
func (s *surface) snapshot() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.canvas.ToImage()
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst
}

func (s *surface) size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canvas.Size()
}
