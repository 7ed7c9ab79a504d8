package twconfig

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes d as a YAML document. Extractors are written by name.
func MarshalYAML(d Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalDescriptor decodes a YAML document produced by MarshalYAML or
// written by hand. The result is not validated.
func UnmarshalDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("decode descriptor: %w", err)
	}
	if d.Theme == nil {
		d.Theme = map[string]any{}
	}
	return d, nil
}

// LoadDescriptor reads, decodes and validates the descriptor at path.
func LoadDescriptor(path string) (Descriptor, error) {
	// #nosec G304 - path comes from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read descriptor: %w", err)
	}

	d, err := UnmarshalDescriptor(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// UnmarshalYAML accepts the mapping form written by MarshalYAML as well as
// the shorthand forms "media" and ["class", "<selector>", ...].
func (d *DarkMode) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	dm, err := DarkModeFromValue(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = dm
	return nil
}

// DarkModeFromValue builds a DarkMode from a generically decoded config
// value: a strategy string, a sequence whose head is the strategy and whose
// tail is the selector list, or a mapping with strategy and selectors keys.
func DarkModeFromValue(v any) (DarkMode, error) {
	switch t := v.(type) {
	case nil:
		return DarkMode{}, fmt.Errorf("dark-mode is empty")
	case string:
		return DarkMode{Strategy: DarkStrategy(t)}, nil
	case []string:
		return darkModeFromList(t)
	case []any:
		items, err := toStrings(t)
		if err != nil {
			return DarkMode{}, fmt.Errorf("dark-mode: %w", err)
		}
		return darkModeFromList(items)
	case map[string]any:
		strategy, ok := t["strategy"].(string)
		if !ok {
			return DarkMode{}, fmt.Errorf("dark-mode: strategy must be a string")
		}
		dm := DarkMode{Strategy: DarkStrategy(strategy)}
		switch sel := t["selectors"].(type) {
		case nil:
		case []any:
			items, err := toStrings(sel)
			if err != nil {
				return DarkMode{}, fmt.Errorf("dark-mode selectors: %w", err)
			}
			dm.Selectors = items
		case []string:
			dm.Selectors = append([]string(nil), sel...)
		default:
			return DarkMode{}, fmt.Errorf("dark-mode selectors must be a list, got %T", sel)
		}
		return dm, nil
	default:
		return DarkMode{}, fmt.Errorf("dark-mode: unsupported value of type %T", v)
	}
}

func darkModeFromList(items []string) (DarkMode, error) {
	if len(items) == 0 {
		return DarkMode{}, fmt.Errorf("dark-mode list is empty")
	}
	dm := DarkMode{Strategy: DarkStrategy(items[0])}
	if len(items) > 1 {
		dm.Selectors = append([]string(nil), items[1:]...)
	}
	return dm, nil
}

func toStrings(items []any) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("item %d: expected string, got %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}
