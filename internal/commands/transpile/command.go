package transpile

import (
	"fmt"
	"os"

	"github.com/artuross/nifi2go/internal/commandinit"
	"github.com/artuross/nifi2go/internal/commands/transpile/config"
	"github.com/artuross/nifi2go/internal/el/evaluate"
	"github.com/artuross/nifi2go/internal/el/funcs"
	eltranspile "github.com/artuross/nifi2go/internal/el/transpile"
	"github.com/artuross/nifi2go/internal/report"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "transpile",
		Usage:     "Translates a single Expression Language expression to Go.",
		ArgsUsage: "EXPRESSION",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "How the argument is read: expression, embedded (text with expressions) or boolean.",
				Value: config.ModeEmbedded,
			},
			&cli.StringFlag{
				Name:  "attributes-var",
				Usage: "Name of the flowrt.Attributes variable in the emitted code.",
				Value: eltranspile.DefaultAttributesVar,
			},
			&cli.StringSliceFlag{
				Name:  "eval",
				Usage: "Evaluate the expression with the attribute name=value. Repeatable.",
			},
		},
		Action: run,
	}
}

// Output is printed as YAML.
type Output struct {
	Code        string   `yaml:"code"`
	Kind        string   `yaml:"kind"`
	Imports     []string `yaml:"imports,omitempty"`
	Unsupported []string `yaml:"unsupported,omitempty"`
	Value       *string  `yaml:"value,omitempty"`
}

func run(cliCtx *cli.Context) error {
	cfg, err := config.Read(cliCtx, cliCtx.Args().Slice())
	if err != nil {
		return err
	}

	logger := commandinit.NewLogger("transpile", cfg.Verbose)

	transpiler := eltranspile.New(eltranspile.WithAttributesVar(cfg.AttributesVar))

	var fragment funcs.Fragment
	switch cfg.Mode {
	case config.ModeExpression:
		fragment, err = transpiler.Transpile(cfg.Expression)

	case config.ModeBoolean:
		fragment, err = transpiler.TranspileBoolean(cfg.Expression)

	default:
		fragment, err = transpiler.TranspileEmbedded(cfg.Expression)
	}

	if err != nil {
		logger.Error().Err(err).Msg("transpile expression")
		return commandinit.ErrCommandFailed
	}

	output := Output{
		Code:        fragment.Code(),
		Kind:        string(fragment.Kind()),
		Imports:     fragment.Imports(),
		Unsupported: fragment.Unsupported(),
	}

	if cfg.Attributes != nil {
		value, err := evaluateExpression(cfg)
		if err != nil {
			logger.Error().Err(err).Msg("evaluate expression")
			return commandinit.ErrCommandFailed
		}

		output.Value = &value
	}

	if err := report.Encode(os.Stdout, report.FormatYAML, output); err != nil {
		logger.Error().Err(err).Msg("print output")
		return commandinit.ErrCommandFailed
	}

	return nil
}

func evaluateExpression(cfg *config.Config) (string, error) {
	evaluator := evaluate.New()
	env := funcs.NewEnv(cfg.Attributes)

	switch cfg.Mode {
	case config.ModeExpression:
		value, err := evaluator.Evaluate(cfg.Expression, env)
		if err != nil {
			return "", err
		}

		return value.Text(), nil

	case config.ModeBoolean:
		truth, err := evaluator.EvaluateBoolean(cfg.Expression, env)
		if err != nil {
			return "", err
		}

		return fmt.Sprint(truth), nil

	default:
		return evaluator.EvaluateText(cfg.Expression, env)
	}
}
