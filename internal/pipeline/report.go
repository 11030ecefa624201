package pipeline

import (
	"time"
)

// StageName identifies a pipeline stage.
type StageName string

const (
	StagePrepareOutput  StageName = "prepare_output"
	StageResolveRelease StageName = "resolve_release"
	StageBuilderInited  StageName = "builder_inited"
	StageRenderPages    StageName = "render_pages"
	StageCopyAssets     StageName = "copy_assets"
	StageWriteSnapshot  StageName = "write_snapshot"
	StageVerifyLinks    StageName = "verify_links"
)

// StageResult categorizes how a stage ended.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultWarning  StageResult = "warning"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// Outcome labels for the whole build.
const (
	OutcomeSuccess  = "success"
	OutcomeWarning  = "warning"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// BuildReport accumulates timing and results across stages.
type BuildReport struct {
	BuildID         string
	Release         string
	ReferenceXMLDir string
	Start           time.Time
	End             time.Time
	StageDurations  map[StageName]time.Duration
	StageResults    map[StageName]StageResult
	Warnings        []string
	Outcome         string
}

// NewBuildReport creates an empty report with the clock started.
func NewBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		BuildID:        buildID,
		Start:          time.Now(),
		StageDurations: map[StageName]time.Duration{},
		StageResults:   map[StageName]StageResult{},
	}
}

// AddWarning records a human-readable warning message.
func (r *BuildReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Finish stops the clock and derives the final outcome from stage results.
func (r *BuildReport) Finish() {
	r.End = time.Now()
	outcome := OutcomeSuccess
	for _, res := range r.StageResults {
		switch res {
		case StageResultCanceled:
			r.Outcome = OutcomeCanceled
			return
		case StageResultFatal:
			outcome = OutcomeFailed
		case StageResultWarning:
			if outcome == OutcomeSuccess {
				outcome = OutcomeWarning
			}
		}
	}
	if len(r.Warnings) > 0 && outcome == OutcomeSuccess {
		outcome = OutcomeWarning
	}
	r.Outcome = outcome
}

// Duration returns the total wall-clock build time.
func (r *BuildReport) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}
