package ports

import (
	"image"
)

// VideoEncoder is a streaming encoder: frames are pushed as they are sampled
// and the container bytes are only available once End returns.
type VideoEncoder interface {
	// Begin initializes the encoder with the specified dimensions and frame rate.
	Begin(width, height int, fps float64, opts EncoderOptions) error

	// EncodeFrame encodes a single frame sampled at timestampMs.
	EncodeFrame(img image.Image, timestampMs int) error

	// End finalizes encoding and returns the video data.
	End() ([]byte, error)

	// Format describes the container produced by End.
	Format() VideoFormat
}

// EncoderOptions configures video encoding parameters.
type EncoderOptions struct {
	Bitrate int // Target bitrate in kbps (0 = encoder default)
	Quality int // CRF value: 0-63 (lower is higher quality)
}

// VideoFormat identifies an encoded container.
type VideoFormat struct {
	MIMEType  string
	Extension string // including the leading dot
}

var (
	FormatWebM = VideoFormat{MIMEType: "video/webm", Extension: ".webm"}
	FormatMP4  = VideoFormat{MIMEType: "video/mp4", Extension: ".mp4"}
)
