package root

import (
	"github.com/artuross/nifi2go/internal/commands/analyze"
	"github.com/artuross/nifi2go/internal/commands/configure"
	"github.com/artuross/nifi2go/internal/commands/convert"
	"github.com/artuross/nifi2go/internal/commands/snapshot"
	"github.com/artuross/nifi2go/internal/commands/transpile"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.App {
	return &cli.App{
		Name:  "nifi2go",
		Usage: "Translates Apache NiFi flows and Expression Language to Go.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log at debug level.",
			},
		},
		// --eval values may contain commas
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			configure.NewCommand(),
			transpile.NewCommand(),
			convert.NewCommand(),
			analyze.NewCommand(),
			snapshot.NewCommand(),
		},
	}
}
