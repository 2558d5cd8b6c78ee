package record

import (
	"context"

	"github.com/user/devshot/pkg/pacer"
	"github.com/user/devshot/pkg/ports"
)

// animator plays a session onto the surface: each tick clears and draws the
// current frame, waits one interval, then advances.
type animator struct {
	surface *surface
	frames  *frameSet
	logger  ports.Logger

	// onTick is called after each frame is drawn.
	onTick func(Session)
}

// run plays until the session stops or ctx is done and returns the last
// session state.
func (a *animator) run(ctx context.Context, s Session) Session {
	p := pacer.NewDelayed(s.Interval)
	state := s.State()
	a.logger.Debug("Recorder state: %s", state)

	for {
		a.surface.paint(a.frames.get(s.Current))
		if a.onTick != nil {
			a.onTick(s)
		}

		if err := p.Wait(ctx); err != nil {
			return s
		}

		s = s.Advance()
		if s.Stopped {
			return s
		}
		if next := s.State(); next != state {
			state = next
			a.logger.Debug("Recorder state: %s", state)
		}
	}
}
