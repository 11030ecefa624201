package pipeline

import (
	"time"

	"github.com/soasis/docgen/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
// It intentionally abstracts away the metrics.Recorder so future observers
// (logging, tracing, notifications) can hook in without changing stage code.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName)                              {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(*BuildReport)                        {}

// RecorderObserver adapts metrics.Recorder into a BuildObserver.
type RecorderObserver struct {
	Rec metrics.Recorder
}

func (r RecorderObserver) OnStageStart(StageName) {}

func (r RecorderObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	if r.Rec == nil {
		return
	}
	r.Rec.ObserveStageDuration(string(stage), d)
	r.Rec.IncStageResult(string(stage), metrics.ResultLabel(result))
}

func (r RecorderObserver) OnBuildComplete(report *BuildReport) {
	if r.Rec == nil {
		return
	}
	r.Rec.ObserveBuildDuration(report.Duration())
	r.Rec.IncBuildOutcome(report.Outcome)
}
