package main

import (
	"github.com/alecthomas/kong"

	"github.com/soasis/docgen/cmd/docgen/commands"
	"github.com/soasis/docgen/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("docgen"),
		kong.Description("Documentation site builder with hosted-CI reference extraction"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{}, &cli)
	ctx.FatalIfErrorf(err)
}
