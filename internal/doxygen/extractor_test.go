package doxygen

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soasis/docgen/internal/config"
)

// recordingRunner captures every invocation and replays scripted errors.
type recordingRunner struct {
	calls []recordedCall
	errs  []error
}

type recordedCall struct {
	dir  string
	name string
	args []string
}

func (r *recordingRunner) Run(_ context.Context, dir, name string, args ...string) error {
	r.calls = append(r.calls, recordedCall{dir: dir, name: name, args: args})
	if len(r.errs) == 0 {
		return nil
	}
	err := r.errs[0]
	r.errs = r.errs[1:]
	return err
}

// realExitError produces a genuine *exec.ExitError with a non-zero code.
func realExitError(t *testing.T) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit 3").Run()
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	return err
}

func newTestExtractor(t *testing.T, hostedCI bool) (*Extractor, string) {
	t.Helper()
	workDir := t.TempDir()
	ref := &config.ReferenceConfig{
		HostedCI:  hostedCI,
		BuildDir:  config.DefaultReferenceBuildDir,
		SourceDir: config.DefaultReferenceSourceDir,
		ConfigureArgs: []string{
			"-DZTD_TEXT_DOCUMENTATION:BOOL=TRUE",
			"-DZTD_TEXT_DOCUMENTATION_NO_SPHINX:BOOL=TRUE",
		},
	}
	e, err := New(ref, workDir)
	require.NoError(t, err)
	return e, workDir
}

func TestDisabledExtractionIsInert(t *testing.T) {
	runner := &recordingRunner{}
	e, workDir := newTestExtractor(t, false)
	e.WithRunner(runner)

	xmlDir, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, xmlDir)
	assert.Empty(t, runner.calls, "no external invocations when disabled")

	_, statErr := os.Stat(filepath.Join(workDir, "_build"))
	assert.True(t, os.IsNotExist(statErr), "no directories created when disabled")
}

func TestEnabledExtractionCreatesDirsAndRunsToolchain(t *testing.T) {
	runner := &recordingRunner{}
	e, workDir := newTestExtractor(t, true)
	e.WithRunner(runner)

	xmlDir, err := e.Run(context.Background())
	require.NoError(t, err)

	wantXML := filepath.Join(workDir, "_build/cmake-build/documentation/doxygen/xml")
	assert.Equal(t, wantXML, xmlDir)

	info, statErr := os.Stat(wantXML)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())

	require.Len(t, runner.calls, 2)
	buildDir := filepath.Join(workDir, "_build/cmake-build")

	configure := runner.calls[0]
	assert.Equal(t, buildDir, configure.dir)
	assert.Equal(t, "cmake", configure.name)
	assert.Equal(t, []string{
		"-DZTD_TEXT_DOCUMENTATION:BOOL=TRUE",
		"-DZTD_TEXT_DOCUMENTATION_NO_SPHINX:BOOL=TRUE",
		"../../../..",
	}, configure.args)

	build := runner.calls[1]
	assert.Equal(t, buildDir, build.dir)
	assert.Equal(t, "cmake", build.name)
	assert.Equal(t, []string{"--build", "."}, build.args)
}

func TestExtractionTolerantOfExistingDirs(t *testing.T) {
	runner := &recordingRunner{}
	e, workDir := newTestExtractor(t, true)
	e.WithRunner(runner)

	pre := filepath.Join(workDir, "_build/cmake-build/documentation/doxygen/xml")
	require.NoError(t, os.MkdirAll(pre, 0o750))

	xmlDir, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pre, xmlDir)
}

func TestNonZeroExitStillReportsXMLDir(t *testing.T) {
	exitErr := realExitError(t)
	runner := &recordingRunner{errs: []error{exitErr, exitErr}}
	e, _ := newTestExtractor(t, true)
	e.WithRunner(runner)

	xmlDir, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, xmlDir, "non-zero exit codes do not suppress the output path")
	assert.Len(t, runner.calls, 2, "build step still attempted after configure exits non-zero")
}

func TestLaunchFailureIsToleratedAndLeavesNoPath(t *testing.T) {
	launchErr := &exec.Error{Name: "cmake", Err: exec.ErrNotFound}

	t.Run("configure step", func(t *testing.T) {
		runner := &recordingRunner{errs: []error{launchErr}}
		e, _ := newTestExtractor(t, true)
		e.WithRunner(runner)

		xmlDir, err := e.Run(context.Background())
		require.NoError(t, err, "launch failure must not surface as an error")
		assert.Empty(t, xmlDir)
		assert.Len(t, runner.calls, 1, "build step skipped after configure launch failure")
	})

	t.Run("build step", func(t *testing.T) {
		runner := &recordingRunner{errs: []error{nil, launchErr}}
		e, _ := newTestExtractor(t, true)
		e.WithRunner(runner)

		xmlDir, err := e.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, xmlDir)
		assert.Len(t, runner.calls, 2)
	})
}

func TestXMLDirComputation(t *testing.T) {
	e, workDir := newTestExtractor(t, true)
	assert.Equal(t,
		filepath.Join(workDir, "_build/cmake-build", "documentation/doxygen/xml"),
		e.XMLDir())
}
