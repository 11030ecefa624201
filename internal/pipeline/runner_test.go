package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docerr "github.com/soasis/docgen/internal/errors"
)

type spyObserver struct {
	started   []StageName
	completed []StageName
	results   []StageResult
	finished  bool
}

func (s *spyObserver) OnStageStart(stage StageName) { s.started = append(s.started, stage) }

func (s *spyObserver) OnStageComplete(stage StageName, _ time.Duration, result StageResult) {
	s.completed = append(s.completed, stage)
	s.results = append(s.results, result)
}

func (s *spyObserver) OnBuildComplete(*BuildReport) { s.finished = true }

func testState(obs BuildObserver) *BuildState {
	if obs == nil {
		obs = NoopObserver{}
	}
	return &BuildState{
		BuildID:  "test",
		Observer: obs,
		Report:   NewBuildReport("test"),
	}
}

func TestRunStagesWarningContinues(t *testing.T) {
	obs := &spyObserver{}
	bs := testState(obs)

	var ran []string
	stages := []StageDef{
		{Name: "first", Fn: func(context.Context, *BuildState) error {
			ran = append(ran, "first")
			return docerr.New(docerr.CategoryValidation, docerr.SeverityWarning, "soft failure")
		}},
		{Name: "second", Fn: func(context.Context, *BuildState) error {
			ran = append(ran, "second")
			return nil
		}},
	}

	require.NoError(t, RunStages(context.Background(), bs, stages))
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.Equal(t, OutcomeWarning, bs.Report.Outcome)
	assert.Len(t, bs.Report.Warnings, 1)
	assert.True(t, obs.finished)
}

func TestRunStagesFatalAborts(t *testing.T) {
	obs := &spyObserver{}
	bs := testState(obs)

	boom := errors.New("boom")
	var secondRan bool
	stages := []StageDef{
		{Name: "first", Fn: func(context.Context, *BuildState) error { return boom }},
		{Name: "second", Fn: func(context.Context, *BuildState) error {
			secondRan = true
			return nil
		}},
	}

	err := RunStages(context.Background(), bs, stages)
	require.ErrorIs(t, err, boom)
	assert.False(t, secondRan)
	assert.Equal(t, OutcomeFailed, bs.Report.Outcome)
	assert.Equal(t, StageResultFatal, bs.Report.StageResults["first"])
	assert.True(t, obs.finished)
}

func TestRunStagesCanceledBeforeStage(t *testing.T) {
	bs := testState(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stages := []StageDef{
		{Name: "never", Fn: func(context.Context, *BuildState) error {
			t.Fatal("stage must not run after cancellation")
			return nil
		}},
	}

	err := RunStages(ctx, bs, stages)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeCanceled, bs.Report.Outcome)
}

func TestRunStagesErrorSeverityIsFatal(t *testing.T) {
	bs := testState(nil)

	stages := []StageDef{
		{Name: "first", Fn: func(context.Context, *BuildState) error {
			return docerr.New(docerr.CategoryBuild, docerr.SeverityError, "hard failure")
		}},
	}

	err := RunStages(context.Background(), bs, stages)
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, bs.Report.Outcome)
}

func TestRunStagesRecordsDurations(t *testing.T) {
	bs := testState(nil)

	stages := []StageDef{
		{Name: "slow", Fn: func(context.Context, *BuildState) error {
			time.Sleep(5 * time.Millisecond)
			return nil
		}},
	}

	require.NoError(t, RunStages(context.Background(), bs, stages))
	assert.GreaterOrEqual(t, bs.Report.StageDurations["slow"], 5*time.Millisecond)
}
