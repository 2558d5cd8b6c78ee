// Package ffmpegencoder encodes sampled RGBA frames into WebM or MP4 by
// piping raw video into an ffmpeg child process.
package ffmpegencoder

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/user/devshot/pkg/ports"
)

var (
	pathMu           sync.RWMutex
	customFFmpegPath string
)

// SetFFmpegPath overrides ffmpeg discovery. An empty path restores the default search.
func SetFFmpegPath(path string) {
	pathMu.Lock()
	defer pathMu.Unlock()
	customFFmpegPath = path
}

// IsFFmpegAvailable checks if ffmpeg is available on the system.
func IsFFmpegAvailable() bool {
	_, err := FindFFmpeg()
	return err == nil
}

// FindFFmpeg searches for ffmpeg.
// Priority: 1) SetFFmpegPath, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func FindFFmpeg() (string, error) {
	pathMu.RLock()
	custom := customFFmpegPath
	pathMu.RUnlock()

	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrFFmpegNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, p := range commonPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrFFmpegNotFound
}

func commonPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		return []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
}

// rawInputArgs describes the rawvideo RGBA stream written to stdin.
func rawInputArgs(width, height int, fps float64) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%.3f", fps),
		"-i", "pipe:0",
	}
}

// process is a running ffmpeg that reads frames on stdin and writes the
// encoded stream to stdout.
type process struct {
	width  int
	height int

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout bytes.Buffer
	stderr bytes.Buffer
	frame  *image.RGBA
}

func startProcess(width, height int, args []string) (*process, error) {
	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return nil, err
	}

	p := &process{
		width:  width,
		height: height,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	p.cmd = exec.Command(ffmpegPath, args...)
	p.cmd.Stdout = &p.stdout
	p.cmd.Stderr = &p.stderr

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	p.stdin = stdin

	if err := p.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	return p, nil
}

// write sends one frame, scaled to the process frame size by clipping.
func (p *process) write(img image.Image) error {
	draw.Draw(p.frame, p.frame.Bounds(), img, img.Bounds().Min, draw.Src)
	if _, err := p.stdin.Write(p.frame.Pix); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// finish closes stdin, waits for ffmpeg to exit and returns its stdout.
func (p *process) finish() ([]byte, error) {
	p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg encoding failed: %w%s", err, p.stderrSuffix())
	}
	return p.stdout.Bytes(), nil
}

// kill stops ffmpeg without waiting for output.
func (p *process) kill() {
	p.stdin.Close()
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.cmd.Wait()
}

func (p *process) stderrSuffix() string {
	msg := strings.TrimSpace(p.stderr.String())
	if msg == "" {
		return ""
	}
	return "\nstderr: " + msg
}

// crf maps the 0-63 quality scale onto an encoder CRF range [0,max].
func crf(opts ports.EncoderOptions, max, def int) int {
	if opts.Quality <= 0 || opts.Quality > 63 {
		return def
	}
	v := opts.Quality * max / 63
	if v > max {
		v = max
	}
	return v
}

// New returns the encoder for a container name ("webm" or "mp4").
func New(container string) (ports.VideoEncoder, error) {
	switch strings.ToLower(container) {
	case "", "webm":
		return NewWebM(), nil
	case "mp4":
		return NewMP4(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownContainer, container)
}
