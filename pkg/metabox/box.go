// Package metabox groups fields into meta boxes: titled panels attached to
// one or more content types. Boxes are declared in YAML or JSON files and
// normalized through a field.Registry before rendering.
package metabox

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/goliatone/go-metabox/pkg/field"
)

// Placement defaults.
const (
	DefaultContext  = "normal"
	DefaultPriority = "high"
	DefaultPostType = "post"
)

// Box is a titled group of fields.
type Box struct {
	ID        string        `json:"id" yaml:"id"`
	Title     string        `json:"title" yaml:"title"`
	Context   string        `json:"context,omitempty" yaml:"context,omitempty"`
	Priority  string        `json:"priority,omitempty" yaml:"priority,omitempty"`
	PostTypes []string      `json:"post_types,omitempty" yaml:"post_types,omitempty"`
	Fields    []field.Field `json:"fields" yaml:"fields"`
}

// Clone returns a deep copy of b.
func (b Box) Clone() Box {
	out := b
	out.PostTypes = append([]string(nil), b.PostTypes...)
	if b.Fields != nil {
		out.Fields = make([]field.Field, len(b.Fields))
		for i, f := range b.Fields {
			out.Fields[i] = f.Clone()
		}
	}
	return out
}

// WithDefaults fills the placement attributes. The id falls back to a slug of
// the title.
func (b Box) WithDefaults() Box {
	b = b.Clone()
	b.ID = strings.TrimSpace(b.ID)
	b.Title = strings.TrimSpace(b.Title)
	if b.ID == "" && b.Title != "" {
		b.ID = slug.Make(b.Title)
	}
	if b.Context == "" {
		b.Context = DefaultContext
	}
	if b.Priority == "" {
		b.Priority = DefaultPriority
	}
	if len(b.PostTypes) == 0 {
		b.PostTypes = []string{DefaultPostType}
	}
	return b
}

// Normalize applies box defaults and normalizes every field through reg.
// Unknown field types fail with the box and field ids in the message.
func Normalize(ctx context.Context, reg *field.Registry, b Box) (Box, error) {
	if reg == nil {
		return Box{}, fmt.Errorf("metabox: registry is required")
	}
	b = b.WithDefaults()
	for i, f := range b.Fields {
		normalized, err := reg.Normalize(ctx, f)
		if err != nil {
			return Box{}, fmt.Errorf("metabox: box %q field %q: %w", b.ID, fieldRef(f, i), err)
		}
		b.Fields[i] = normalized
	}
	return b, nil
}

// Field returns the field with id.
func (b Box) Field(id string) (field.Field, bool) {
	for _, f := range b.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return field.Field{}, false
}

func fieldRef(f field.Field, index int) string {
	if id := strings.TrimSpace(f.ID); id != "" {
		return id
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", index)
}
