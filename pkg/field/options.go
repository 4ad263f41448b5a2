package field

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Option is one selectable choice.
type Option struct {
	Value    string `json:"value" yaml:"value"`
	Label    string `json:"label" yaml:"label"`
	Parent   string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Options is an ordered mapping of option value to Option. Values are unique
// and iteration order is insertion order; setting an existing value replaces
// it in place.
//
// Options decode from either a list of options or a value -> label mapping in
// JSON and YAML, keeping document order in both cases.
type Options []Option

// NewOptions builds an ordered option list from opts, applying Set semantics.
func NewOptions(opts ...Option) Options {
	var out Options
	for _, opt := range opts {
		out.Set(opt)
	}
	return out
}

// Set inserts opt, replacing an existing entry with the same value without
// changing its position.
func (o *Options) Set(opt Option) {
	for i := range *o {
		if (*o)[i].Value == opt.Value {
			(*o)[i] = opt
			return
		}
	}
	*o = append(*o, opt)
}

// Get looks up the option registered for value.
func (o Options) Get(value string) (Option, bool) {
	for _, opt := range o {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Keys returns option values in order.
func (o Options) Keys() []string {
	if len(o) == 0 {
		return nil
	}
	keys := make([]string, len(o))
	for i, opt := range o {
		keys[i] = opt.Value
	}
	return keys
}

// Hierarchical reports whether any option declares a parent.
func (o Options) Hierarchical() bool {
	for _, opt := range o {
		if opt.Parent != "" {
			return true
		}
	}
	return false
}

// Depth returns how many ancestors value has. Cycles and dangling parents
// stop the walk.
func (o Options) Depth(value string) int {
	depth := 0
	seen := map[string]struct{}{value: {}}
	current, ok := o.Get(value)
	for ok && current.Parent != "" {
		if _, loop := seen[current.Parent]; loop {
			break
		}
		seen[current.Parent] = struct{}{}
		current, ok = o.Get(current.Parent)
		if !ok {
			break
		}
		depth++
	}
	return depth
}

// Clone returns an independent copy.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	return append(Options(nil), o...)
}

// UnmarshalJSON accepts `[{"value":..,"label":..}]`, `["a","b"]` or
// `{"a":"A","b":{"label":"B"}}`.
func (o *Options) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}

	var out Options
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("field: decode options: %w", err)
		}
		for _, raw := range items {
			opt, err := optionFromJSON("", raw)
			if err != nil {
				return err
			}
			out.Set(opt)
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		if _, err := dec.Token(); err != nil {
			return fmt.Errorf("field: decode options: %w", err)
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("field: decode options: %w", err)
			}
			key, _ := tok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return fmt.Errorf("field: decode option %q: %w", key, err)
			}
			opt, err := optionFromJSON(key, raw)
			if err != nil {
				return err
			}
			out.Set(opt)
		}
	default:
		return fmt.Errorf("field: options must be a list or an object")
	}
	*o = out
	return nil
}

func optionFromJSON(key string, raw json.RawMessage) (Option, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var label string
		if err := json.Unmarshal(raw, &label); err != nil {
			return Option{}, fmt.Errorf("field: decode option %q: %w", key, err)
		}
		if key == "" {
			key = label
		}
		return Option{Value: key, Label: label}, nil
	}
	var opt Option
	if err := json.Unmarshal(raw, &opt); err != nil {
		return Option{}, fmt.Errorf("field: decode option %q: %w", key, err)
	}
	return completeOption(key, opt), nil
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (o *Options) UnmarshalYAML(node *yaml.Node) error {
	var out Options
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			opt, err := optionFromYAML("", item)
			if err != nil {
				return err
			}
			out.Set(opt)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			opt, err := optionFromYAML(node.Content[i].Value, node.Content[i+1])
			if err != nil {
				return err
			}
			out.Set(opt)
		}
	case yaml.ScalarNode:
		if node.Tag == "!!null" || strings.TrimSpace(node.Value) == "" {
			*o = nil
			return nil
		}
		return fmt.Errorf("field: options must be a list or a mapping (line %d)", node.Line)
	default:
		return fmt.Errorf("field: options must be a list or a mapping (line %d)", node.Line)
	}
	*o = out
	return nil
}

func optionFromYAML(key string, node *yaml.Node) (Option, error) {
	if node.Kind == yaml.ScalarNode {
		if key == "" {
			key = node.Value
		}
		return Option{Value: key, Label: node.Value}, nil
	}
	var opt Option
	if err := node.Decode(&opt); err != nil {
		return Option{}, fmt.Errorf("field: decode option %q (line %d): %w", key, node.Line, err)
	}
	return completeOption(key, opt), nil
}

func completeOption(key string, opt Option) Option {
	if opt.Value == "" {
		opt.Value = key
	}
	if opt.Label == "" {
		opt.Label = opt.Value
	}
	return opt
}
