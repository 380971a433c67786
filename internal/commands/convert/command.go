package convert

import (
	"context"
	"fmt"
	"os"

	"github.com/artuross/nifi2go/internal/commandinit"
	"github.com/artuross/nifi2go/internal/commands/convert/config"
	"github.com/artuross/nifi2go/internal/converter"
	"github.com/artuross/nifi2go/internal/flow"
	"github.com/artuross/nifi2go/internal/generator"
	"github.com/artuross/nifi2go/internal/nifitemplate"
	"github.com/artuross/nifi2go/internal/report"
	cli "github.com/urfave/cli/v2"
)

// OutputFlag, PackageFlag and ReportFlag are shared with the snapshot command.
func OutputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "output",
		Usage:    "Destination path for the generated Go file.",
		Required: true,
	}
}

func PackageFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "package",
		Usage: "Package name of the generated Go file.",
		Value: generator.DefaultPackage,
	}
}

func ReportFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "report",
		Usage: "Destination path for the conversion report, written as JSON for .json and YAML otherwise.",
	}
}

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Converts a NiFi template to a Go file.",
		Flags: []cli.Flag{
			// required
			&cli.StringFlag{
				Name:     "template",
				Usage:    "Path of the NiFi template XML.",
				Required: true,
			},
			OutputFlag(),

			// optional
			PackageFlag(),
			ReportFlag(),
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	cfg, err := config.Read(cliCtx)
	if err != nil {
		return err
	}

	logger := commandinit.NewLogger("convert", cfg.Verbose)
	ctx := logger.WithContext(cliCtx.Context)

	f, err := nifitemplate.ParseFile(cfg.TemplateFilePath)
	if err != nil {
		logger.Error().Err(err).Msg("parse template")
		return commandinit.ErrCommandFailed
	}

	summary, err := Generate(ctx, f, cfg.OutputFilePath, cfg.Package)
	if err != nil {
		logger.Error().Err(err).Msg("generate code")
		return commandinit.ErrCommandFailed
	}

	if cfg.ReportFilePath != "" {
		if err := report.Write(cfg.ReportFilePath, summary); err != nil {
			logger.Error().Err(err).Msg("write report")
			return commandinit.ErrCommandFailed
		}
	}

	logger.Info().
		Str("output", cfg.OutputFilePath).
		Int("processors", summary.Processors).
		Int("stubs", summary.Stubs).
		Float64("coverage", summary.Coverage).
		Msg("flow converted")

	return nil
}

// Generate converts the processors of f and writes the Go file to path.
func Generate(ctx context.Context, f *flow.Flow, path, pkg string) (*generator.Report, error) {
	f.Sort()

	results := converter.NewRegistry().ConvertAll(ctx, f)

	source, err := generator.New(generator.WithPackage(pkg)).Generate(f, results)
	if err != nil {
		return nil, fmt.Errorf("convert.Generate: %w", err)
	}

	if err := os.WriteFile(path, source, 0o644); err != nil {
		return nil, fmt.Errorf("convert.Generate write %s: %w", path, err)
	}

	summary := generator.NewReport(f, results)

	return &summary, nil
}
