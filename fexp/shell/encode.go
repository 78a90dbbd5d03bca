package shell

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/fast-explorer/fexp/query"
	"github.com/ZanzyTHEbar/fast-explorer/fexp/trees"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how one-shot commands print their result.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a user supplied format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputTable, OutputJSON, OutputYAML:
		return f, nil
	case "":
		return OutputTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// SearchOutput is the machine-readable form of one query.
type SearchOutput struct {
	Query    string               `json:"query" yaml:"query"`
	Count    int                  `json:"count" yaml:"count"`
	Results  []trees.SearchResult `json:"results" yaml:"results"`
	Warnings []query.Warning      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Encode writes v to w as JSON or YAML.
func Encode(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return fmt.Errorf("format %q is not an encoding", format)
	}
	return nil
}
