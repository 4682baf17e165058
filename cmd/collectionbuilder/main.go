package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/collectionbuilder/cmd/collectionbuilder/commands"
	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("collectionbuilder"),
		kong.Description("Build typed JSON content collections from MDX files."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
