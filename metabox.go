// Package metabox is the top-level entry point: it re-exports the pieces most
// callers need to normalize meta box fields and render them.
package metabox

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/fields"
	pkgmetabox "github.com/goliatone/go-metabox/pkg/metabox"
	"github.com/goliatone/go-metabox/pkg/orchestrator"
	"github.com/goliatone/go-metabox/pkg/render"
	"github.com/goliatone/go-metabox/pkg/sidebars"
)

// Field aliases field.Field for callers that only import the root package.
type Field = field.Field

// Box aliases the meta box definition.
type Box = pkgmetabox.Box

// RenderOptions describes per-request values, hidden inputs and the preview
// labeler handed to renderers.
type RenderOptions = render.RenderOptions

// Config carries the dependencies of the built-in field types.
type Config = fields.Config

// NewRegistry returns a field registry with every built-in type registered.
func NewRegistry(cfg Config, options ...field.RegistryOption) (*field.Registry, error) {
	return fields.NewRegistry(cfg, options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NormalizeField normalizes a single field against the built-in types and
// the given sidebar source.
func NormalizeField(ctx context.Context, src sidebars.Source, f Field) (Field, error) {
	reg, err := fields.NewRegistry(fields.Config{Sidebars: src})
	if err != nil {
		return Field{}, err
	}
	return reg.Normalize(ctx, f)
}

// GenerateHTML loads boxes and sidebars from the given filesystems and renders
// the box with id using the named renderer. Either filesystem may be nil.
func GenerateHTML(ctx context.Context, boxes, sidebarDefs fs.FS, boxID, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	store, err := pkgmetabox.LoadFS(boxes)
	if err != nil {
		return nil, err
	}
	defs, err := sidebars.LoadFS(sidebarDefs)
	if err != nil {
		return nil, err
	}
	reg, err := sidebars.New()
	if err != nil {
		return nil, err
	}
	reg.RegisterAll(defs)

	base := []orchestrator.Option{
		orchestrator.WithStore(store),
		orchestrator.WithSidebars(reg.Source()),
	}
	gen := orchestrator.New(append(base, options...)...)
	return gen.Generate(ctx, orchestrator.Request{
		BoxID:    boxID,
		Renderer: rendererName,
	})
}
