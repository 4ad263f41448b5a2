// Package render defines the renderer contract for normalized meta boxes and a
// named registry of renderers.
package render

import (
	"context"

	"github.com/goliatone/go-metabox/pkg/metabox"
)

// Renderer converts a normalized box into bytes (HTML, JSON, prompt answers).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, box metabox.Box, options RenderOptions) ([]byte, error)
}
