package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from the file extension. Anything that is not
// .json is written as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("report.Encode json: %w", err)
		}

	default:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("report.Encode yaml: %w", err)
		}

		if err := encoder.Close(); err != nil {
			return fmt.Errorf("report.Encode close yaml: %w", err)
		}
	}

	return nil
}

// Write encodes v to path in the format given by its extension.
func Write(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report.Write create file: %w", err)
	}

	if err := Encode(file, FormatOf(path), v); err != nil {
		_ = file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("report.Write close file: %w", err)
	}

	return nil
}
