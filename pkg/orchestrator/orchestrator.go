package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/fields"
	"github.com/goliatone/go-metabox/pkg/logger"
	"github.com/goliatone/go-metabox/pkg/metabox"
	"github.com/goliatone/go-metabox/pkg/render"
	"github.com/goliatone/go-metabox/pkg/renderers/vanilla"
	"github.com/goliatone/go-metabox/pkg/sidebars"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore supplies the boxes requests can refer to by id.
func WithStore(store *metabox.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithFieldRegistry injects a prepared field type registry. When omitted the
// built-in types are registered against the configured sidebar source.
func WithFieldRegistry(reg *field.Registry) Option {
	return func(o *Orchestrator) {
		o.fields = reg
	}
}

// WithSidebars sets the sidebar source used by the default field registry.
func WithSidebars(src sidebars.Source) Option {
	return func(o *Orchestrator) {
		o.sidebars = src
	}
}

// WithTranslator sets the translator and locale used by the default field
// registry.
func WithTranslator(t field.Translator, locale string) Option {
	return func(o *Orchestrator) {
		o.translator = t
		o.locale = locale
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can patch a box before its
// fields are normalized.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLogger routes pipeline diagnostics to l.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// Orchestrator coordinates the pipeline from box definition to rendered
// output. It applies sensible defaults (built-in field types, vanilla
// renderer) while remaining open to dependency injection.
type Orchestrator struct {
	store           *metabox.Store
	fields          *field.Registry
	sidebars        sidebars.Source
	translator      field.Translator
	locale          string
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	logger          logger.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a box.
type Request struct {
	// BoxID selects a box from the configured store. Optional when Box is
	// supplied.
	BoxID string

	// Box allows callers to bypass the store.
	Box *metabox.Box

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries prefilled values and hidden inputs. A nil Labeler
	// is replaced by the field registry so previews resolve out of the box.
	RenderOptions render.RenderOptions
}

// Fields exposes the field registry in use.
func (o *Orchestrator) Fields() *field.Registry {
	return o.fields
}

// Normalize resolves the requested box, applies the transformer and
// normalizes every field.
func (o *Orchestrator) Normalize(ctx context.Context, req Request) (metabox.Box, error) {
	if ctx == nil {
		return metabox.Box{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return metabox.Box{}, err
	}
	if err := o.initialiseErr; err != nil {
		return metabox.Box{}, err
	}

	box, err := o.resolveBox(req)
	if err != nil {
		return metabox.Box{}, err
	}
	if err := o.applyTransformer(ctx, &box); err != nil {
		return metabox.Box{}, err
	}

	normalized, err := metabox.Normalize(ctx, o.fields, box.WithDefaults())
	if err != nil {
		return metabox.Box{}, fmt.Errorf("orchestrator: %w", err)
	}
	o.logger.Debug("box normalized", "box", normalized.ID, "fields", len(normalized.Fields))
	return normalized, nil
}

// Generate normalizes the requested box and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	box, err := o.Normalize(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Labeler == nil {
		options.Labeler = o.fields
	}
	output, err := renderer.Render(ctx, box, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) resolveBox(req Request) (metabox.Box, error) {
	if req.Box != nil {
		return req.Box.Clone(), nil
	}
	if req.BoxID == "" {
		return metabox.Box{}, errors.New("orchestrator: box id or box is required")
	}
	if o.store == nil {
		return metabox.Box{}, errors.New("orchestrator: box store is nil")
	}
	box, ok := o.store.Box(req.BoxID)
	if !ok {
		return metabox.Box{}, fmt.Errorf("orchestrator: box %q not found", req.BoxID)
	}
	return box, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, box *metabox.Box) error {
	if o.transformer == nil || box == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, box); err != nil {
		return fmt.Errorf("orchestrator: transform box: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	o.logger = logger.OrDiscard(o.logger)

	if o.fields == nil {
		reg, err := fields.NewRegistry(fields.Config{
			Sidebars:   o.sidebars,
			Translator: o.translator,
			Locale:     o.locale,
			Logger:     o.logger,
		})
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: field registry: %w", err)
		}
		o.fields = reg
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		o.registry.MustRegister(render.JSON{})
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}
