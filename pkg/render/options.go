package render

import (
	"context"
	"fmt"

	"github.com/goliatone/go-metabox/pkg/field"
)

// OptionLabeler resolves the label or preview for a selected option.
// *field.Registry satisfies it.
type OptionLabeler interface {
	OptionLabel(ctx context.Context, f field.Field, value string) (string, error)
}

// RenderOptions carries per-request data renderers use without mutating the
// box.
type RenderOptions struct {
	// Values pre-populates controls keyed by field id. Multiple-value fields
	// accept []string or []any.
	Values map[string]any
	// Hidden inputs emitted with the box, such as the box nonce.
	Hidden map[string]string
	// Labeler renders previews for selected options. Nil disables previews.
	Labeler OptionLabeler
}

// Selected returns the selected values for f from Values, falling back to the
// field's Std default.
func (o RenderOptions) Selected(f field.Field) []string {
	if v, ok := o.Values[f.ID]; ok {
		return toStrings(v)
	}
	return toStrings(f.Std)
}

// toStrings flattens a value or list of values. Scalars such as YAML
// `std: 1` are formatted with fmt.Sprint; nil and empty entries are skipped.
func toStrings(v any) []string {
	switch value := v.(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), value...)
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := scalarString(item); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		if s, ok := scalarString(value); ok {
			return []string{s}
		}
		return nil
	}
}

func scalarString(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		return value, value != ""
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(value), true
	default:
		return "", false
	}
}
