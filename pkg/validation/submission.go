// Package validation checks posted meta box values against normalized
// field definitions.
package validation

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/metabox"
)

// Issue is a rejected or missing value.
type Issue struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Result holds the accepted values keyed by field id and every issue found,
// in field order.
type Result struct {
	Valid  bool           `json:"valid"`
	Values map[string]any `json:"values"`
	Issues []Issue        `json:"issues,omitempty"`
}

// Submission validates form against box, which must already be normalized.
// Values are looked up by input name with and without the "[]" suffix.
// Choice fields keep only enabled option values; multiple fields yield
// []string, every other field a string.
func Submission(box metabox.Box, form url.Values) Result {
	result := Result{Values: make(map[string]any, len(box.Fields))}
	for _, f := range box.Fields {
		raw := submitted(form, f.InputName())
		if f.FieldType == "" {
			result.Values[f.ID] = validateText(f, raw, &result)
			continue
		}
		accepted := validateChoice(f, raw, &result)
		if f.Multiple {
			result.Values[f.ID] = accepted
			continue
		}
		value := ""
		if len(accepted) > 0 {
			value = accepted[0]
		}
		result.Values[f.ID] = value
	}
	result.Valid = len(result.Issues) == 0
	return result
}

func submitted(form url.Values, name string) []string {
	var out []string
	for _, key := range []string{name, name + "[]"} {
		for _, v := range form[key] {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func validateText(f field.Field, raw []string, result *Result) string {
	if len(raw) == 0 {
		if f.Required {
			result.Issues = append(result.Issues, Issue{Field: f.ID, Message: "required"})
		}
		return ""
	}
	return raw[0]
}

func validateChoice(f field.Field, raw []string, result *Result) []string {
	accepted := []string{}
	seen := make(map[string]bool, len(raw))
	for _, value := range raw {
		if seen[value] {
			continue
		}
		seen[value] = true

		opt, ok := f.Options.Get(value)
		switch {
		case !ok:
			result.Issues = append(result.Issues, Issue{Field: f.ID, Value: value, Message: "not one of the options"})
		case opt.Disabled:
			result.Issues = append(result.Issues, Issue{Field: f.ID, Value: value, Message: "option is disabled"})
		default:
			accepted = append(accepted, value)
		}
	}

	if !f.Multiple && len(accepted) > 1 {
		result.Issues = append(result.Issues, Issue{Field: f.ID, Message: "expects a single value"})
		accepted = accepted[:1]
	}
	if f.Required && len(accepted) == 0 {
		result.Issues = append(result.Issues, Issue{Field: f.ID, Message: "required"})
	}
	return accepted
}
