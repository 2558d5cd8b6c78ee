// Package pipeline provides the stage abstraction and the values passed between
// the capture orchestrator and its stages.
package pipeline

import (
	"context"
)

// Stage is one step of a device turn: the capture stage turns a device into
// frames, the record stage turns frames into a video.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function serve as a Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
