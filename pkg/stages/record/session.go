package record

import (
	"fmt"
	"time"

	"github.com/user/devshot/pkg/pacer"
)

// State is the lifecycle position of a recording.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlayingForward
	StatePlayingBackward
	StateFinalizing
	StateDone
)

var stateNames = [...]string{"idle", "loading", "playing(forward)", "playing(backward)", "finalizing", "done"}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session is the playback state of one recording. It is a value: Advance
// returns the next session and never modifies the receiver.
//
// Invariant: 0 <= Current <= End, End = FrameCount()-1.
type Session struct {
	uris []string

	Current  int
	End      int
	Forward  bool
	Loop     bool
	PingPong bool
	Interval time.Duration
	Stopped  bool
}

// NewSession creates a session positioned on frame 0, playing forward.
func NewSession(uris []string, fps float64, loop, pingPong bool) (Session, error) {
	if len(uris) == 0 {
		return Session{}, ErrNoFrames
	}
	if fps <= 0 {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidFPS, fps)
	}
	return Session{
		uris:     uris,
		Current:  0,
		End:      len(uris) - 1,
		Forward:  true,
		Loop:     loop,
		PingPong: pingPong,
		Interval: pacer.FrameInterval(fps),
	}, nil
}

// URIs returns the frame URIs in playback order.
func (s Session) URIs() []string {
	out := make([]string, len(s.uris))
	copy(out, s.uris)
	return out
}

// FrameCount returns the number of frames.
func (s Session) FrameCount() int {
	return len(s.uris)
}

// StopAfter is the capture length of one full forward pass.
func (s Session) StopAfter() time.Duration {
	return time.Duration(s.FrameCount()) * s.Interval
}

// State reports the playback state the session is in.
func (s Session) State() State {
	switch {
	case s.Stopped:
		return StateFinalizing
	case s.Forward:
		return StatePlayingForward
	default:
		return StatePlayingBackward
	}
}

// Advance moves the cursor one tick. End-of-sequence handling runs first:
// on the last frame a non-looping session stops, a ping-pong session turns
// backward, and any other session wraps to frame 0. On frame 0 a ping-pong
// session turns forward again. A single-frame session never moves.
func (s Session) Advance() Session {
	if s.Stopped {
		return s
	}
	if s.Current == s.End && !s.Loop {
		s.Stopped = true
		return s
	}
	if s.End == 0 {
		return s
	}

	switch s.Current {
	case s.End:
		if !s.PingPong {
			s.Current = 0
			return s
		}
		s.Forward = false
	case 0:
		if s.PingPong {
			s.Forward = true
		}
	}

	if s.Forward {
		s.Current++
	} else {
		s.Current--
	}
	return s
}
