package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	docerr "github.com/soasis/docgen/internal/errors"
	"github.com/soasis/docgen/internal/logfields"
)

// StageDef binds a stage name to its function.
type StageDef struct {
	Name StageName
	Fn   func(ctx context.Context, bs *BuildState) error
}

// RunStages executes stages in order, recording timing and stopping on the
// first fatal error. A stage error carrying docerr.SeverityWarning degrades
// the build outcome but does not stop it.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			bs.Report.StageResults[st.Name] = StageResultCanceled
			bs.Observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			bs.Report.Finish()
			bs.Observer.OnBuildComplete(bs.Report)
			return ctx.Err()
		default:
		}

		bs.Observer.OnStageStart(st.Name)

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[st.Name] = dur

		result := classify(err)
		bs.Report.StageResults[st.Name] = result
		bs.Observer.OnStageComplete(st.Name, dur, result)

		switch result {
		case StageResultWarning:
			bs.Report.AddWarning(err.Error())
			slog.Warn("Stage completed with warning",
				logfields.Stage(string(st.Name)), logfields.Error(err),
				logfields.DurationMS(float64(dur.Milliseconds())))
		case StageResultFatal, StageResultCanceled:
			slog.Error("Stage failed",
				logfields.Stage(string(st.Name)), logfields.Error(err))
			bs.Report.Finish()
			bs.Observer.OnBuildComplete(bs.Report)
			return err
		default:
			slog.Debug("Stage completed",
				logfields.Stage(string(st.Name)),
				logfields.DurationMS(float64(dur.Milliseconds())))
		}
	}

	bs.Report.Finish()
	bs.Observer.OnBuildComplete(bs.Report)
	return nil
}

func classify(err error) StageResult {
	if err == nil {
		return StageResultSuccess
	}
	var derr *docerr.DocgenError
	if errors.As(err, &derr) && derr.Severity == docerr.SeverityWarning {
		return StageResultWarning
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return StageResultCanceled
	}
	return StageResultFatal
}
