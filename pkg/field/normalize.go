package field

import "strings"

// NormalizeBase fills the attributes every field carries: id and name default
// to each other and the label defaults to the humanized id.
func NormalizeBase(f Field) Field {
	f = f.Clone()
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.TrimSpace(f.Type)

	if f.ID == "" {
		f.ID = f.InputName()
	}
	if f.Name == "" {
		f.Name = f.ID
	}
	if f.Label == "" {
		f.Label = Humanize(f.ID)
	}
	return f
}

// NormalizeChoice finishes shaping a choice field once its options are set.
// Concrete choice types call it after producing their options. Duplicate
// option values collapse with Set semantics.
func NormalizeChoice(f Field) Field {
	f = NormalizeBase(f)

	f.FieldType = strings.TrimSpace(f.FieldType)
	switch f.FieldType {
	case ControlSelect, ControlSelectAdvanced:
	case ControlCheckboxList:
		f.Multiple = true
	case ControlRadioList:
		f.Multiple = false
	default:
		f.FieldType = ControlSelect
	}

	f.Options = NewOptions(f.Options...)

	if f.Multiple && !strings.HasSuffix(f.Name, "[]") {
		f.Name += "[]"
	}
	f.Flatten = !f.Options.Hierarchical()
	return f
}
