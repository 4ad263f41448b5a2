package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/metabox"
)

// Transformer mutates a Box before its fields are normalized. Implementations
// can relabel fields, inject metadata, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, box *metabox.Box) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, box *metabox.Box) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, box *metabox.Box) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, box)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// The document shape supports box-level settings and per-field patches keyed
// by field id:
//
//	{
//	  "title": "Layout options",
//	  "context": "side",
//	  "fields": {
//	    "widget_area": {"label": "Widget area", "metadata": {"help": "shown below posts"}}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title    string                    `json:"title"`
	Context  string                    `json:"context"`
	Priority string                    `json:"priority"`
	Fields   map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Placeholder string            `json:"placeholder"`
	FieldType   string            `json:"field_type"`
	Required    *bool             `json:"required"`
	Rename      string            `json:"rename"`
	Metadata    map[string]string `json:"metadata"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied box.
func (t *JSONPresetTransformer) Transform(ctx context.Context, box *metabox.Box) error {
	if box == nil {
		return errors.New("json preset transformer: box is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		box.Title = t.document.Title
	}
	if t.document.Context != "" {
		box.Context = t.document.Context
	}
	if t.document.Priority != "" {
		box.Priority = t.document.Priority
	}

	for id, patch := range t.document.Fields {
		target := findField(box.Fields, id)
		if target == nil {
			return fmt.Errorf("json preset transformer: field %q not found", id)
		}
		applyFieldPatch(target, patch)
	}
	return nil
}

func applyFieldPatch(f *field.Field, patch jsonFieldPatch) {
	if patch.Label != "" {
		f.Label = patch.Label
	}
	if patch.Description != "" {
		f.Description = patch.Description
	}
	if patch.Placeholder != "" {
		f.Placeholder = patch.Placeholder
	}
	if patch.FieldType != "" {
		f.FieldType = patch.FieldType
	}
	if patch.Required != nil {
		f.Required = *patch.Required
	}
	if len(patch.Metadata) > 0 {
		f.Metadata = mergeStringMap(f.Metadata, patch.Metadata)
	}
	if name := strings.TrimSpace(patch.Rename); name != "" {
		f.Name = name
	}
}

// findField matches on id, falling back to the input name for fields that
// have not been normalized yet.
func findField(fields []field.Field, id string) *field.Field {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	for i := range fields {
		if fields[i].ID == id {
			return &fields[i]
		}
	}
	for i := range fields {
		if fields[i].ID == "" && fields[i].InputName() == id {
			return &fields[i]
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
