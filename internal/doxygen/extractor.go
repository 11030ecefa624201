// Package doxygen triggers the external reference-extraction toolchain.
//
// Extraction is expensive and requires a native build environment, so it only
// runs when the caller explicitly asks for it (hosted CI documentation
// builds). Local narrative-only builds skip it entirely: no directories are
// created and no processes are spawned.
package doxygen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/logfields"
)

const configureTool = "cmake"

// Extractor runs the configure and build steps that produce the reference
// XML. It never mutates shared state; the computed XML directory is returned
// to the caller for recording into the configuration surface.
type Extractor struct {
	enabled       bool
	workDir       string
	buildDir      string
	sourceDir     string
	configureArgs []string
	runner        Runner
}

// New creates an extractor from the reference configuration. workDir is the
// documentation working directory; empty means the process working directory.
func New(ref *config.ReferenceConfig, workDir string) (*Extractor, error) {
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		workDir = cwd
	}
	return &Extractor{
		enabled:       ref.HostedCI,
		workDir:       workDir,
		buildDir:      ref.BuildDir,
		sourceDir:     ref.SourceDir,
		configureArgs: ref.ConfigureArgs,
		runner:        ExecRunner{},
	}, nil
}

// WithRunner injects a custom command runner (for testing).
func (e *Extractor) WithRunner(r Runner) *Extractor {
	if r != nil {
		e.runner = r
	}
	return e
}

// Enabled reports whether extraction will run.
func (e *Extractor) Enabled() bool { return e.enabled }

// XMLDir returns the directory the toolchain writes reference XML into.
func (e *Extractor) XMLDir() string {
	return filepath.Join(e.workDir, e.buildDir, config.ReferenceXMLSubdir)
}

// Run performs the extraction and returns the XML output directory.
//
// Disabled extraction returns ("", nil) without touching the filesystem.
// A failure to launch either toolchain invocation is tolerated: a diagnostic
// is logged and ("", nil) is returned so the surrounding build continues with
// whatever reference data it already has. A non-zero exit code is logged as a
// warning but does not prevent the XML directory from being reported; the
// toolchain frequently exits non-zero for partial-documentation warnings
// while still producing usable XML.
func (e *Extractor) Run(ctx context.Context) (string, error) {
	if !e.enabled {
		return "", nil
	}

	buildDir := filepath.Join(e.workDir, e.buildDir)
	xmlDir := e.XMLDir()
	if err := os.MkdirAll(buildDir, 0o750); err != nil {
		return "", fmt.Errorf("create build directory: %w", err)
	}
	if err := os.MkdirAll(xmlDir, 0o750); err != nil {
		return "", fmt.Errorf("create xml directory: %w", err)
	}
	slog.Info("Reference extraction directories ready",
		logfields.Dir(buildDir), slog.String("xml_dir", xmlDir))

	args := append(append([]string{}, e.configureArgs...), e.sourceDir)
	if err := e.runner.Run(ctx, buildDir, configureTool, args...); err != nil {
		if exitCode, ok := exitStatus(err); ok {
			slog.Warn("Configure step exited non-zero; continuing",
				slog.Int("exit_code", exitCode), logfields.Dir(buildDir))
		} else {
			slog.Error("Configure step could not be launched; skipping reference extraction",
				logfields.Error(err), logfields.Dir(buildDir))
			return "", nil
		}
	}

	if err := e.runner.Run(ctx, buildDir, configureTool, "--build", "."); err != nil {
		if exitCode, ok := exitStatus(err); ok {
			slog.Warn("Build step exited non-zero; continuing",
				slog.Int("exit_code", exitCode), logfields.Dir(buildDir))
		} else {
			slog.Error("Build step could not be launched; skipping reference extraction",
				logfields.Error(err), logfields.Dir(buildDir))
			return "", nil
		}
	}

	return xmlDir, nil
}

// exitStatus reports whether err represents a process that ran to completion
// with a non-zero exit code, as opposed to one that could not be started.
func exitStatus(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
