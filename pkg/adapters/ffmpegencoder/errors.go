package ffmpegencoder

import "errors"

var (
	// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
	ErrFFmpegNotFound = errors.New("ffmpegencoder: ffmpeg not found")

	// ErrNotInitialized is returned when EncodeFrame or End is called before Begin.
	ErrNotInitialized = errors.New("ffmpegencoder: encoder not initialized")

	// ErrNoFrames is returned by End when no frame was encoded.
	ErrNoFrames = errors.New("ffmpegencoder: no frames encoded")

	// ErrUnknownContainer is returned by New for an unsupported container name.
	ErrUnknownContainer = errors.New("ffmpegencoder: unknown container")
)
