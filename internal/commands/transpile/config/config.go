package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/artuross/nifi2go/internal/el/transpile"
	"github.com/artuross/nifi2go/pkg/flowrt"
)

const (
	ModeExpression = "expression"
	ModeEmbedded   = "embedded"
	ModeBoolean    = "boolean"
)

var modes = []string{ModeExpression, ModeEmbedded, ModeBoolean}

type Flagger interface {
	String(name string) string
	StringSlice(name string) []string
	IsSet(name string) bool
	Bool(name string) bool
}

type Config struct {
	Expression    string
	Mode          string
	AttributesVar string

	// Attributes is nil unless the expression should be evaluated.
	Attributes flowrt.Attributes
	Verbose    bool
}

func Read(flags Flagger, args []string) (*Config, error) {
	// args - required
	if len(args) != 1 {
		return nil, fmt.Errorf("exactly one expression argument is required, got %d", len(args))
	}

	// flags - optional
	mode := flags.String("mode")
	if !slices.Contains(modes, mode) {
		return nil, fmt.Errorf("flag --mode must be one of %s", strings.Join(modes, ", "))
	}

	attributesVar := flags.String("attributes-var")
	if attributesVar == "" {
		attributesVar = transpile.DefaultAttributesVar
	}

	var attributes flowrt.Attributes
	if flags.IsSet("eval") {
		attributes = flowrt.Attributes{}
		for _, pair := range flags.StringSlice("eval") {
			name, value, ok := strings.Cut(pair, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("flag --eval must be name=value, got %q", pair)
			}

			attributes[name] = value
		}
	}

	cfg := Config{
		Expression:    args[0],
		Mode:          mode,
		AttributesVar: attributesVar,
		Attributes:    attributes,
		Verbose:       flags.Bool("verbose"),
	}

	return &cfg, nil
}
