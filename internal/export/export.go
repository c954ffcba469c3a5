package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Rana718/seedling/internal/types"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Formats lists the supported export formats.
var Formats = []string{FormatYAML, FormatJSON}

func IsSupported(format string) bool {
	return slices.Contains(Formats, format)
}

// WriteRecords writes records to <dir>/<table>.<format> and returns the path.
// The file is replaced atomically, so readers never see a partial export.
func WriteRecords(dir, table, format string, records []types.Record) (string, error) {
	data, err := Marshal(format, records)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filePath := filepath.Join(dir, fmt.Sprintf("%s.%s", table, format))
	if err := writeFileAtomic(filePath, data); err != nil {
		return "", err
	}
	return filePath, nil
}

// Marshal renders records as pretty-printed JSON (2-space indent) or YAML.
func Marshal(format string, records []types.Record) ([]byte, error) {
	if records == nil {
		records = []types.Record{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal records: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(yamlValue(records))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal records: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// yamlValue copies v with json.Number values replaced by plain scalar nodes,
// so integers beyond int64 keep every digit.
func yamlValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: t.String()}
	case []types.Record:
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = yamlValue(r)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = yamlValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = yamlValue(val)
		}
		return out
	default:
		return v
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
