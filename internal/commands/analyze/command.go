package analyze

import (
	"fmt"
	"os"
	"slices"

	"github.com/artuross/nifi2go/internal/commandinit"
	"github.com/artuross/nifi2go/internal/converter"
	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/internal/nifitemplate"
	"github.com/artuross/nifi2go/internal/report"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Summarizes the processors and expressions of a NiFi template.",
		ArgsUsage: "TEMPLATE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "Destination path for the analysis, written as JSON for .json and YAML otherwise. Defaults to stdout.",
			},
		},
		Action: run,
	}
}

type Output struct {
	flow.Analysis `yaml:",inline"`

	// Unconverted lists processor types that are generated as stubs.
	Unconverted []string `json:"unconverted" yaml:"unconverted"`
}

func run(cliCtx *cli.Context) error {
	if cliCtx.NArg() != 1 {
		return fmt.Errorf("exactly one template argument is required, got %d", cliCtx.NArg())
	}

	logger := commandinit.NewLogger("analyze", cliCtx.Bool("verbose"))

	f, err := nifitemplate.ParseFile(cliCtx.Args().First())
	if err != nil {
		logger.Error().Err(err).Msg("parse template")
		return commandinit.ErrCommandFailed
	}

	analysis := Output{
		Analysis:    f.Analyze(),
		Unconverted: make([]string, 0),
	}

	registry := converter.NewRegistry()
	for _, processor := range f.Processors {
		if !registry.Supports(processor) && !slices.Contains(analysis.Unconverted, processor.ShortType()) {
			analysis.Unconverted = append(analysis.Unconverted, processor.ShortType())
		}
	}

	slices.Sort(analysis.Unconverted)

	if output := cliCtx.String("output"); output != "" {
		err = report.Write(output, analysis)
	} else {
		err = report.Encode(os.Stdout, report.FormatYAML, analysis)
	}

	if err != nil {
		logger.Error().Err(err).Msg("write analysis")
		return commandinit.ErrCommandFailed
	}

	return nil
}
