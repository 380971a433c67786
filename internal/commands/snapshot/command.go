package snapshot

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/artuross/nifi2go/internal/commandinit"
	"github.com/artuross/nifi2go/internal/commands/convert"
	"github.com/artuross/nifi2go/internal/commands/snapshot/config"
	"github.com/artuross/nifi2go/internal/generator"
	"github.com/artuross/nifi2go/internal/nificonfig"
	"github.com/artuross/nifi2go/internal/provenance"
	"github.com/artuross/nifi2go/internal/report"
	"github.com/artuross/nifi2go/internal/snapshot"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Converts a live flow to Go and validates it against recent provenance.",
		Flags: []cli.Flag{
			// required
			convert.OutputFlag(),

			// optional
			&cli.StringFlag{
				Name:  "config-file",
				Usage: "Path of the connection profile written by configure.",
				Value: "./.config/nifi.json",
			},
			&cli.StringFlag{
				Name:  "group",
				Usage: "ID of the process group to snapshot. Defaults to the root group.",
			},
			&cli.IntFlag{
				Name:  "samples",
				Usage: "Number of provenance events to read per processor. 0 skips validation.",
				Value: 10,
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Number of processors whose provenance is read at once.",
				Value: 4,
			},
			convert.PackageFlag(),
			convert.ReportFlag(),
		},
		Action: run,
	}
}

// Report is written to --report.
type Report struct {
	Conversion generator.Report  `json:"conversion" yaml:"conversion"`
	Validation provenance.Report `json:"validation" yaml:"validation"`
	Failures   map[string]string `json:"failures,omitempty" yaml:"failures,omitempty"`
}

func run(cliCtx *cli.Context) error {
	cfg, err := config.Read(cliCtx, os.Getenv, nificonfig.ReadConfigFile)
	if err != nil {
		return err
	}

	config.Print(cfg)

	logger := commandinit.NewLogger("snapshot", cfg.Verbose)

	ctx, cancel := context.WithCancelCause(cliCtx.Context)
	defer cancel(nil)

	errInterrupted := errors.New("interrupted")

	go func() {
		stopChan := make(chan os.Signal, 1)
		signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stopChan)

		select {
		case <-stopChan:
			logger.Info().Msg("received cancel signal")
			cancel(errInterrupted)

		case <-ctx.Done():
		}
	}()

	ctx = logger.WithContext(ctx)

	tracerProvider, tpShutdown, err := commandinit.NewOpenTelemetry(ctx, commandinit.Telemetry{
		Command: "snapshot",
		NiFiURL: cfg.Profile.APIURL(),
	})
	if err != nil {
		logger.Error().Err(err).Msg("init OTEL provider")
		return commandinit.ErrCommandFailed
	}
	defer tpShutdown(context.WithoutCancel(ctx))

	client := commandinit.NewNiFiClient(ctx, commandinit.NiFiConfig{
		APIURL:   cfg.Profile.APIURL(),
		Username: cfg.Profile.Username,
		Password: cfg.Password,
		Insecure: cfg.Profile.Insecure,
	}, tracerProvider)

	validator := provenance.NewValidator()

	collector := snapshot.NewCollector(
		client,
		snapshot.WithConcurrency(cfg.Concurrency),
		snapshot.WithSamples(cfg.Samples),
		snapshot.WithFilter(validator.Supports),
		snapshot.WithTracerProvider(tracerProvider),
	)

	snap, err := collector.Collect(ctx, cfg.GroupID)
	if err != nil {
		logger.Error().Err(err).Msg("collect snapshot")
		return commandinit.ErrCommandFailed
	}

	conversion, err := convert.Generate(ctx, snap.Flow, cfg.OutputFilePath, cfg.Package)
	if err != nil {
		logger.Error().Err(err).Msg("generate code")
		return commandinit.ErrCommandFailed
	}

	validation := snap.Validate(ctx, validator)

	if cfg.ReportFilePath != "" {
		summary := Report{
			Conversion: *conversion,
			Validation: validation,
			Failures:   snap.Failures,
		}

		if err := report.Write(cfg.ReportFilePath, summary); err != nil {
			logger.Error().Err(err).Msg("write report")
			return commandinit.ErrCommandFailed
		}
	}

	level := zerolog.InfoLevel
	if !validation.OK() {
		level = zerolog.WarnLevel
	}

	logger.WithLevel(level).
		Str("output", cfg.OutputFilePath).
		Int("processors", conversion.Processors).
		Float64("coverage", conversion.Coverage).
		Int("passed", validation.Passed).
		Int("failed", validation.Failed).
		Int("skipped", validation.Skipped).
		Msg("snapshot converted")

	return nil
}
