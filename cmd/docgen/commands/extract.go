package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/soasis/docgen/internal/config"
	"github.com/soasis/docgen/internal/doxygen"
)

// ExtractCmd implements the 'extract' command: it runs the reference
// toolchain on its own, without rendering the site. Useful for debugging
// hosted-CI extraction locally.
type ExtractCmd struct{}

func (e *ExtractCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configureLogging(cfg, root.Verbose)

	// Standalone extraction is always explicit; the gate only applies to
	// full builds.
	cfg.Reference.HostedCI = true

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	extractor, err := doxygen.New(&cfg.Reference, workingDir(root.Config))
	if err != nil {
		return err
	}

	xmlDir, err := extractor.Run(ctx)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if xmlDir == "" {
		fmt.Println("Extraction produced no reference XML")
		return nil
	}
	fmt.Printf("Reference XML written to %s\n", xmlDir)
	return nil
}
