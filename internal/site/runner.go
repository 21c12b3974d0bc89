package site

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/folio/internal/logfields"
)

// RunStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage. Consecutive independent stages run as a
// batch: concurrently when parallel is set, and always to completion, so one
// failing generator never prevents its siblings from writing their output.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef, parallel bool) error {
	for i := 0; i < len(stages); {
		if !stages[i].Independent {
			if se := runStage(ctx, bs, stages[i]); se != nil && se.Kind != StageErrorWarning {
				return se
			}
			i++
			continue
		}

		j := i
		for j < len(stages) && stages[j].Independent {
			j++
		}
		if err := runBatch(ctx, bs, stages[i:j], parallel); err != nil {
			return err
		}
		i = j
	}
	return nil
}

func runBatch(ctx context.Context, bs *BuildState, batch []StageDef, parallel bool) error {
	results := make([]*StageError, len(batch))
	if parallel && len(batch) > 1 {
		var wg sync.WaitGroup
		for i, st := range batch {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = runStage(ctx, bs, st)
			}()
		}
		wg.Wait()
	} else {
		for i, st := range batch {
			results[i] = runStage(ctx, bs, st)
		}
	}

	var errs []error
	for _, se := range results {
		if se != nil && se.Kind != StageErrorWarning {
			errs = append(errs, se)
		}
	}
	return errors.Join(errs...)
}

func runStage(ctx context.Context, bs *BuildState, st StageDef) *StageError {
	if err := ctx.Err(); err != nil {
		se := NewCanceledStageError(st.Name, err)
		bs.Report.RecordStage(st.Name, 0, se, bs.Recorder)
		return se
	}

	t0 := time.Now()
	err := st.Fn(ctx, bs)
	dur := time.Since(t0)

	se := classifyStageError(st.Name, err)
	bs.Report.RecordStage(st.Name, dur, se, bs.Recorder)

	switch {
	case se == nil:
		slog.Debug("Stage complete", logfields.Stage(string(st.Name)), logfields.Duration(dur))
	case se.Kind == StageErrorWarning:
		slog.Warn("Stage completed with warnings", logfields.Stage(string(st.Name)), logfields.Error(se.Err))
	default:
		slog.Error("Stage failed", logfields.Stage(string(st.Name)), logfields.Duration(dur), logfields.Error(se.Err))
	}
	return se
}
