package ports

import "fmt"

// DeviceProfile describes a virtual device the viewport is emulated as.
type DeviceProfile struct {
	ID                string  `yaml:"id" json:"id"`
	Width             int     `yaml:"width" json:"width"`   // CSS pixels
	Height            int     `yaml:"height" json:"height"` // CSS pixels
	DeviceScaleFactor float64 `yaml:"device_scale_factor" json:"deviceScaleFactor"`
	Mobile            bool    `yaml:"mobile" json:"mobile"`
}

// PixelSize returns the device dimensions in device pixels.
func (d DeviceProfile) PixelSize() (width, height int) {
	scale := d.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}
	return int(float64(d.Width) * scale), int(float64(d.Height) * scale)
}

// WithScale returns a copy of the profile using the given scale factor.
func (d DeviceProfile) WithScale(scale float64) DeviceProfile {
	d.DeviceScaleFactor = scale
	return d
}

func (d DeviceProfile) String() string {
	return fmt.Sprintf("%s (%dx%d @%gx)", d.ID, d.Width, d.Height, d.DeviceScaleFactor)
}

// Offset positions crop windows inside a full-page screenshot, in CSS pixels.
// X is a horizontal inset applied to every window; Y is the vertical step
// between consecutive windows (0 steps by one device height).
type Offset struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Viewport is the layout viewport size reported by the page.
type Viewport struct {
	ClientWidth  int `json:"clientWidth"`
	ClientHeight int `json:"clientHeight"`
}

// DownloadRequest asks the download dispatcher to save the object behind URL.
type DownloadRequest struct {
	Filename string
	URL      string
}
