package record

import "errors"

var (
	// ErrNoFrames is returned when a recording has nothing to play.
	ErrNoFrames = errors.New("record: no frames")

	// ErrInvalidFPS is returned for a non-positive frame rate.
	ErrInvalidFPS = errors.New("record: invalid frame rate")

	// ErrInvalidSurface is returned when the device yields an empty drawing surface.
	ErrInvalidSurface = errors.New("record: invalid surface size")

	// ErrDecode is returned when a frame image cannot be decoded. It aborts
	// the whole session.
	ErrDecode = errors.New("record: frame decode failed")

	// ErrEncoder is returned when the video encoder fails to start, accept a
	// frame or finalize.
	ErrEncoder = errors.New("record: encoder failed")
)
