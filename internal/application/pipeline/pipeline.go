// Package pipeline runs a command as an ordered sequence of stages.
//
// Stages run one after another; the first failing stage stops the pipeline
// and its error is returned unchanged. A cancelled or expired context stops
// the pipeline before the next stage starts.
package pipeline

import (
	"context"

	"github.com/finsuite/backend/internal/infrastructure/telemetry"
)

// Stage is one step of a command
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run executes stages in order
func Run(ctx context.Context, stages ...Stage) error {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		stageCtx, span := telemetry.StartSpan(ctx, "stage."+stage.Name)
		err := stage.Run(stageCtx)
		if err != nil {
			telemetry.RecordError(span, err)
		}
		span.End()

		if err != nil {
			return err
		}
	}
	return nil
}
