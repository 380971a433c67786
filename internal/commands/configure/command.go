package configure

import (
	"os"

	"github.com/artuross/nifi2go/internal/commandinit"
	"github.com/artuross/nifi2go/internal/commands/configure/config"
	"github.com/artuross/nifi2go/internal/nificonfig"
	"github.com/artuross/nifi2go/internal/repository/nifiapi"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "configure",
		Usage: "Verifies access to a NiFi instance and saves the connection profile.",
		Flags: []cli.Flag{
			// required
			&cli.StringFlag{
				Name:  "url",
				Usage: "URL of the NiFi instance, e.g. https://localhost:8443/nifi. Falls back to NIFI_URL.",
			},

			// optional
			&cli.StringFlag{
				Name:  "username",
				Usage: "User to log in as. The password is read from NIFI_PASSWORD.",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Skip TLS certificate verification.",
			},
			&cli.StringFlag{
				Name:     "config-file",
				Usage:    "Destination path for the connection profile.",
				Value:    "./.config/nifi.json",
				Required: false,
			},
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	cfg, err := config.Read(cliCtx, os.Getenv)
	if err != nil {
		return err
	}

	config.Print(cfg)

	logger := commandinit.NewLogger("configure", cfg.Verbose)
	ctx := logger.WithContext(cliCtx.Context)

	tracerProvider, tpShutdown, err := commandinit.NewOpenTelemetry(ctx, commandinit.Telemetry{
		Command: "configure",
		NiFiURL: cfg.APIURL,
	})
	if err != nil {
		logger.Error().Err(err).Msg("init OTEL provider")
		return commandinit.ErrCommandFailed
	}
	defer tpShutdown(ctx)

	client := commandinit.NewNiFiClient(ctx, commandinit.NiFiConfig{
		APIURL:   cfg.APIURL,
		Username: cfg.Username,
		Password: cfg.Password,
		Insecure: cfg.Insecure,
	}, tracerProvider)

	user, err := client.CurrentUser(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("read current user")
		return commandinit.ErrCommandFailed
	}

	root, err := client.ProcessGroup(ctx, nifiapi.RootGroupID)
	if err != nil {
		logger.Error().Err(err).Msg("read root process group")
		return commandinit.ErrCommandFailed
	}

	profile := nificonfig.Config{
		URL:         cfg.APIURL,
		Username:    cfg.Username,
		Insecure:    cfg.Insecure,
		Identity:    user.Identity,
		RootGroupID: root.ID,
	}

	if err := nificonfig.SaveConfigFile(cfg.ConfigFilePath, &profile); err != nil {
		logger.Error().Err(err).Msg("save config file")
		return commandinit.ErrCommandFailed
	}

	logger.Info().
		Str("identity", user.Identity).
		Bool("anonymous", user.Anonymous).
		Str("root_group_id", root.ID).
		Msg("connection profile saved")

	return nil
}
