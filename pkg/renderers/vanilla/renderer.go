package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/metabox"
	"github.com/goliatone/go-metabox/pkg/render"
	rendertemplate "github.com/goliatone/go-metabox/pkg/render/template"
	gotemplate "github.com/goliatone/go-metabox/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithPolicy replaces the sanitizer applied to option previews.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

var (
	previewPolicyOnce sync.Once
	previewPolicy     *bluemonday.Policy
)

// PreviewPolicy is the default sanitizer for option previews: user generated
// content plus class attributes, which widget wrappers rely on.
func PreviewPolicy() *bluemonday.Policy {
	previewPolicyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Globally()
		previewPolicy = p
	})
	return previewPolicy
}

// Renderer renders a normalized meta box as HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	policy    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = PreviewPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, policy: cfg.policy}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, box metabox.Box, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	fields := make([]string, 0, len(box.Fields))
	for _, f := range box.Fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view, err := r.fieldView(ctx, f, options)
		if err != nil {
			return nil, err
		}
		html, err := r.templates.RenderTemplate(templateFor(f), map[string]any{"field": view})
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: render field %q: %w", f.ID, err)
		}
		fields = append(fields, html)
	}

	result, err := r.templates.RenderTemplate("templates/box", map[string]any{
		"box":    box,
		"hidden": hiddenViews(options.Hidden),
		"fields": fields,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// indentUnit is two non-breaking spaces per hierarchy level.
const indentUnit = "\u00a0\u00a0"

type fieldView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Control     string        `json:"control"`
	Input       string        `json:"input"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Placeholder string        `json:"placeholder"`
	Multiple    bool          `json:"multiple"`
	Required    bool          `json:"required"`
	Value       string        `json:"value"`
	Options     []optionView  `json:"options"`
	Previews    []previewView `json:"previews"`
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Indent   string `json:"indent"`
	Selected bool   `json:"selected"`
	Disabled bool   `json:"disabled"`
}

type previewView struct {
	Value string `json:"value"`
	HTML  string `json:"html"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *Renderer) fieldView(ctx context.Context, f field.Field, options render.RenderOptions) (fieldView, error) {
	selected := options.Selected(f)
	view := fieldView{
		ID:          f.ID,
		Name:        f.Name,
		Type:        f.Type,
		Control:     f.FieldType,
		Label:       f.Label,
		Description: f.Description,
		Placeholder: f.Placeholder,
		Multiple:    f.Multiple,
		Required:    f.Required,
	}
	if len(selected) > 0 {
		view.Value = selected[0]
	}
	switch f.FieldType {
	case field.ControlCheckboxList:
		view.Input = "checkbox"
	case field.ControlRadioList:
		view.Input = "radio"
	}

	isSelected := make(map[string]bool, len(selected))
	for _, value := range selected {
		isSelected[value] = true
	}
	for _, opt := range f.Options {
		ov := optionView{
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: isSelected[opt.Value],
			Disabled: opt.Disabled,
		}
		if !f.Flatten {
			ov.Indent = strings.Repeat(indentUnit, f.Options.Depth(opt.Value))
		}
		view.Options = append(view.Options, ov)
	}

	if options.Labeler == nil || f.FieldType == "" {
		return view, nil
	}
	for _, value := range selected {
		label, err := options.Labeler.OptionLabel(ctx, f, value)
		if err != nil {
			return fieldView{}, fmt.Errorf("vanilla renderer: preview %q: %w", f.ID, err)
		}
		// Plain option labels are already shown by the control itself.
		if opt, ok := f.Options.Get(value); ok && opt.Label == label {
			continue
		}
		html := strings.TrimSpace(r.policy.Sanitize(label))
		if html == "" {
			continue
		}
		view.Previews = append(view.Previews, previewView{Value: value, HTML: html})
	}
	return view, nil
}

func templateFor(f field.Field) string {
	switch f.FieldType {
	case field.ControlCheckboxList, field.ControlRadioList:
		return "templates/fields/list"
	case field.ControlSelect, field.ControlSelectAdvanced:
		return "templates/fields/select"
	default:
		return "templates/fields/input"
	}
}

func hiddenViews(hidden map[string]string) []hiddenView {
	sorted := render.SortedHiddenFields(hidden)
	out := make([]hiddenView, 0, len(sorted))
	for _, h := range sorted {
		out = append(out, hiddenView{Name: h.Name, Value: h.Value})
	}
	return out
}
