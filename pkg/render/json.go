package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-metabox/pkg/metabox"
)

// JSON renders the normalized box itself, indented.
type JSON struct{}

var _ Renderer = JSON{}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }

// Render encodes box. Option previews are included under "previews" when a
// labeler is configured and values are selected.
func (JSON) Render(ctx context.Context, box metabox.Box, options RenderOptions) ([]byte, error) {
	payload := struct {
		metabox.Box
		Values   map[string]any               `json:"values,omitempty"`
		Previews map[string]map[string]string `json:"previews,omitempty"`
	}{Box: box, Values: options.Values}

	if options.Labeler != nil {
		for _, f := range box.Fields {
			for _, value := range options.Selected(f) {
				label, err := options.Labeler.OptionLabel(ctx, f, value)
				if err != nil {
					return nil, fmt.Errorf("render: json: preview %s: %w", f.ID, err)
				}
				if label == "" {
					continue
				}
				if payload.Previews == nil {
					payload.Previews = make(map[string]map[string]string)
				}
				if payload.Previews[f.ID] == nil {
					payload.Previews[f.ID] = make(map[string]string)
				}
				payload.Previews[f.ID][value] = label
			}
		}
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json: %w", err)
	}
	return out, nil
}
