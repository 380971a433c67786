package config

import (
	"fmt"
	"go/token"

	"github.com/artuross/nifi2go/internal/generator"
)

type Flagger interface {
	String(name string) string
	Bool(name string) bool
}

type Config struct {
	TemplateFilePath string
	OutputFilePath   string
	Package          string
	ReportFilePath   string
	Verbose          bool
}

func Read(flags Flagger) (*Config, error) {
	// flags - required
	templateFile := flags.String("template")
	if templateFile == "" {
		return nil, fmt.Errorf("flag --template is required")
	}

	outputFile := flags.String("output")
	if outputFile == "" {
		return nil, fmt.Errorf("flag --output is required")
	}

	// flags - optional
	pkg, err := ReadPackage(flags)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		TemplateFilePath: templateFile,
		OutputFilePath:   outputFile,
		Package:          pkg,
		ReportFilePath:   flags.String("report"),
		Verbose:          flags.Bool("verbose"),
	}

	return &cfg, nil
}

// ReadPackage returns the --package flag, which must be a Go identifier.
func ReadPackage(flags Flagger) (string, error) {
	pkg := flags.String("package")
	if pkg == "" {
		return generator.DefaultPackage, nil
	}

	if !token.IsIdentifier(pkg) {
		return "", fmt.Errorf("flag --package must be a Go identifier, got %q", pkg)
	}

	return pkg, nil
}
