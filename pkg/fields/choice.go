package fields

import (
	"context"

	"github.com/goliatone/go-metabox/pkg/field"
)

// Choice is a static choice field: options come from the field definition
// itself. Control pins the rendered control kind when set.
type Choice struct {
	Control string
}

var _ field.Type = Choice{}

// Normalize applies the pinned control and the choice defaults.
func (c Choice) Normalize(_ context.Context, f field.Field) field.Field {
	if c.Control != "" {
		f.FieldType = c.Control
	}
	return field.NormalizeChoice(f)
}

// OptionLabel returns the label declared for value, or "" when unknown.
func (c Choice) OptionLabel(_ context.Context, f field.Field, value string) string {
	opt, ok := f.Options.Get(value)
	if !ok {
		return ""
	}
	return opt.Label
}
