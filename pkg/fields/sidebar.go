package fields

import (
	"context"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/logger"
	"github.com/goliatone/go-metabox/pkg/sidebars"
)

// SidebarPlaceholder is the untranslated default placeholder.
const SidebarPlaceholder = "Select a sidebar"

// Sidebar is a choice field listing the registered sidebars. Options are
// re-queried from the source on every call; nothing is cached.
type Sidebar struct {
	source     sidebars.Source
	translator field.Translator
	locale     string
	logger     logger.Logger
}

var (
	_ field.Type    = (*Sidebar)(nil)
	_ field.Querier = (*Sidebar)(nil)
)

// NewSidebar builds the sidebar field type over src. A nil src behaves like
// a source with no sidebars.
func NewSidebar(src sidebars.Source, cfg Config) *Sidebar {
	return &Sidebar{
		source:     src,
		translator: cfg.Translator,
		locale:     cfg.Locale,
		logger:     logger.OrDiscard(cfg.Logger).With("field", TypeSidebar),
	}
}

// Normalize sets the default placeholder, replaces the options with the
// current sidebars and finishes with the choice normalizer.
func (s *Sidebar) Normalize(ctx context.Context, f field.Field) field.Field {
	if f.Placeholder == "" {
		f.Placeholder = field.Translate(s.translator, s.locale, SidebarPlaceholder, SidebarPlaceholder)
	}
	f.Options = s.Query(ctx, f)
	return field.NormalizeChoice(f)
}

// Query projects the registered sidebars into options, value = id and
// label = name, in registration order.
func (s *Sidebar) Query(_ context.Context, _ field.Field) field.Options {
	out := field.Options{}
	if s.source == nil {
		return out
	}
	for _, sb := range s.source.Sidebars() {
		out.Set(field.Option{Value: sb.ID, Label: sb.Name})
	}
	return out
}

// OptionLabel returns the rendered content of the sidebar named by value, or
// an empty string when it is not active. Render failures are logged and
// reported as an empty label.
func (s *Sidebar) OptionLabel(ctx context.Context, _ field.Field, value string) string {
	if s.source == nil || !s.source.IsActive(value) {
		return ""
	}
	out, err := s.source.RenderSidebar(ctx, value)
	if err != nil {
		s.logger.Debug("render sidebar preview", "sidebar", value, "error", err)
		return ""
	}
	return out
}
