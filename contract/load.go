package contract

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a contract from YAML. Unknown keys are rejected.
func LoadYAML(data []byte) (*Contract, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var c Contract
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("contract: invalid YAML: %w", err)
	}
	c.Fields = normalizeDefaults(c.Fields)
	return &c, nil
}

// LoadJSON decodes a contract from JSON. Unknown keys are rejected.
func LoadJSON(data []byte) (*Contract, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	var c Contract
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("contract: invalid JSON: %w", err)
	}
	return &c, nil
}

// LoadFile reads a contract, choosing the decoder by file extension.
func LoadFile(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("contract: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".json":
		return LoadJSON(data)
	}
	return nil, fmt.Errorf("contract: unsupported file extension %q", filepath.Ext(path))
}

// normalizeDefaults converts YAML-decoded defaults (which may contain
// map[any]any) into JSON-like values.
func normalizeDefaults(fs []Field) []Field {
	for i := range fs {
		fs[i].Default = yamlNormalizeValue(fs[i].Default)
	}
	return fs
}

func yamlNormalizeValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalizeValue(vv)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalizeValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = yamlNormalizeValue(vv)
		}
		return out
	}
	return v
}
