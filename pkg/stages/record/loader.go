package record

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/user/devshot/pkg/datauri"
	"github.com/user/devshot/pkg/ports"
)

// ReadyPolicy decides when loading hands over to playback.
type ReadyPolicy int

const (
	// ReadyAll waits until every frame is decoded.
	ReadyAll ReadyPolicy = iota
	// ReadyAllButOne starts playback once all frames but one are decoded.
	// The last frame is drawn as soon as it arrives; a decode failure on it
	// still aborts the session.
	ReadyAllButOne
)

// ParseReadyPolicy maps a config value to a ReadyPolicy.
func ParseReadyPolicy(s string) (ReadyPolicy, error) {
	switch s {
	case "", "all":
		return ReadyAll, nil
	case "all-but-one", "legacy":
		return ReadyAllButOne, nil
	}
	return ReadyAll, fmt.Errorf("unknown ready policy %q", s)
}

func (p ReadyPolicy) threshold(frameCount int) int {
	if p == ReadyAllButOne && frameCount > 1 {
		return frameCount - 1
	}
	return frameCount
}

// frameSet holds decoded frames. A slot is nil until its frame is ready and
// never changes afterwards.
type frameSet struct {
	images []atomic.Pointer[image.Image]

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// get returns frame i, or nil if it is still decoding.
func (f *frameSet) get(i int) image.Image {
	if i < 0 || i >= len(f.images) {
		return nil
	}
	if p := f.images[i].Load(); p != nil {
		return *p
	}
	return nil
}

// release stops outstanding decodes and drops the decoded images.
func (f *frameSet) release() {
	f.cancel()
	f.wg.Wait()
	for i := range f.images {
		f.images[i].Store(nil)
	}
}

type loadResult struct {
	index int
	err   error
}

// loader decodes frame URIs with a bounded worker pool.
type loader struct {
	renderer ports.Renderer
	workers  int
	logger   ports.Logger
}

// load decodes uris until policy's threshold of frames is ready. Frames
// still decoding after that keep loading in the background; if one of them
// fails, fail is called with the decode error.
func (l *loader) load(ctx context.Context, uris []string, policy ReadyPolicy, fail func(error)) (*frameSet, error) {
	loadCtx, cancel := context.WithCancel(ctx)
	fs := &frameSet{
		images: make([]atomic.Pointer[image.Image], len(uris)),
		cancel: cancel,
	}

	jobs := make(chan int, len(uris))
	results := make(chan loadResult, len(uris))
	for i := range uris {
		jobs <- i
	}
	close(jobs)

	workers := l.workers
	if workers <= 0 || workers > len(uris) {
		workers = len(uris)
	}
	for w := 0; w < workers; w++ {
		fs.wg.Add(1)
		go l.worker(loadCtx, &fs.wg, uris, fs, jobs, results)
	}

	threshold := policy.threshold(len(uris))
	received := 0
	for ready := 0; ready < threshold; {
		select {
		case <-ctx.Done():
			fs.release()
			return nil, ctx.Err()
		case r := <-results:
			received++
			if r.err != nil {
				fs.release()
				return nil, r.err
			}
			ready++
		}
	}
	l.logger.Debug("Loaded %d/%d frames", threshold, len(uris))

	if remaining := len(uris) - received; remaining > 0 {
		fs.wg.Add(1)
		go func() {
			defer fs.wg.Done()
			for i := 0; i < remaining; i++ {
				select {
				case <-loadCtx.Done():
					return
				case r := <-results:
					if r.err != nil {
						fail(r.err)
						return
					}
				}
			}
		}()
	}

	return fs, nil
}

func (l *loader) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	uris []string,
	fs *frameSet,
	jobs <-chan int,
	results chan<- loadResult,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		img, err := l.decode(uris[idx])
		if err != nil {
			results <- loadResult{index: idx, err: fmt.Errorf("%w: frame %d: %w", ErrDecode, idx, err)}
			continue
		}
		fs.images[idx].Store(&img)
		results <- loadResult{index: idx}
	}
}

func (l *loader) decode(uri string) (image.Image, error) {
	_, data, err := datauri.Decode(uri)
	if err != nil {
		return nil, err
	}
	return l.renderer.DecodeImage(data, ports.FormatAuto)
}
