package field

import "context"

// Control kinds a choice field can be rendered as.
const (
	ControlSelect         = "select"
	ControlSelectAdvanced = "select_advanced"
	ControlCheckboxList   = "checkbox_list"
	ControlRadioList      = "radio_list"
)

// Field describes one configurable input. Registries normalize a copy; the
// caller keeps ownership of the value it passed in.
type Field struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Type        string            `json:"type" yaml:"type"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     Options           `json:"options,omitempty" yaml:"options,omitempty"`
	Multiple    bool              `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	FieldType   string            `json:"field_type,omitempty" yaml:"field_type,omitempty"`
	Flatten     bool              `json:"flatten,omitempty" yaml:"flatten,omitempty"`
	Std         any               `json:"std,omitempty" yaml:"std,omitempty"`
	Required    bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone returns a copy that shares no mutable state with f.
func (f Field) Clone() Field {
	out := f
	out.Options = f.Options.Clone()
	out.Attributes = cloneStrings(f.Attributes)
	out.Metadata = cloneStrings(f.Metadata)
	return out
}

// InputName strips the multiple-value suffix from Name.
func (f Field) InputName() string {
	if len(f.Name) > 2 && f.Name[len(f.Name)-2:] == "[]" {
		return f.Name[:len(f.Name)-2]
	}
	return f.Name
}

// Type is one registered field implementation.
type Type interface {
	// Normalize returns a fully defaulted copy of f. It never fails: missing
	// external data yields empty options.
	Normalize(ctx context.Context, f Field) Field
	// OptionLabel returns the human readable label or preview for value.
	OptionLabel(ctx context.Context, f Field, value string) string
}

// Querier is implemented by field types whose options come from an external
// source.
type Querier interface {
	Query(ctx context.Context, f Field) Options
}

func cloneStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
