package sidebars

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/goliatone/go-metabox/pkg/logger"
	"github.com/goliatone/go-metabox/pkg/render/template"
	"github.com/goliatone/go-metabox/pkg/render/template/gotemplate"
)

// ErrNotFound is returned when printing a sidebar that was never registered.
var ErrNotFound = errors.New("sidebars: sidebar not found")

// Default wrappers applied when a sidebar leaves them empty.
const (
	DefaultBeforeWidget = `<li id="%1$s" class="widget %2$s">`
	DefaultAfterWidget  = "</li>\n"
	DefaultBeforeTitle  = `<h2 class="widgettitle">`
	DefaultAfterTitle   = "</h2>\n"
)

// Option configures a Registry.
type Option func(*Registry)

// WithTemplates renders widget content through t instead of a fresh pongo2
// engine.
func WithTemplates(t template.TemplateRenderer) Option {
	return func(r *Registry) {
		if t != nil {
			r.templates = t
		}
	}
}

// WithLogger routes registry diagnostics to l.
func WithLogger(l logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry is an in-memory, ordered sidebar store. It implements Lister and
// Printer; Source wraps it for field types.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	sidebars map[string]Sidebar

	templates template.TemplateRenderer
	logger    logger.Logger
}

// New creates an empty registry.
func New(options ...Option) (*Registry, error) {
	r := &Registry{
		sidebars: make(map[string]Sidebar),
		logger:   logger.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.templates == nil {
		engine, err := gotemplate.New()
		if err != nil {
			return nil, fmt.Errorf("sidebars: configure template engine: %w", err)
		}
		r.templates = engine
	}
	return r, nil
}

// Register adds s and returns its id. Missing ids become "sidebar-N" and
// missing names "Sidebar N", N being the registration position. Registering
// an existing id replaces the sidebar without changing its position.
func (r *Registry) Register(s Sidebar) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	s = s.clone()
	s.ID = strings.TrimSpace(s.ID)
	position := len(r.order) + 1
	if i := r.index(s.ID); i >= 0 {
		position = i + 1
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("sidebar-%d", position)
		for r.has(s.ID) {
			position++
			s.ID = fmt.Sprintf("sidebar-%d", position)
		}
	}
	if strings.TrimSpace(s.Name) == "" {
		s.Name = fmt.Sprintf("Sidebar %d", position)
	}
	applyWrapperDefaults(&s)
	for i := range s.Widgets {
		if strings.TrimSpace(s.Widgets[i].ID) == "" {
			s.Widgets[i].ID = fmt.Sprintf("%s-widget-%d", s.ID, i+1)
		}
	}

	if !r.has(s.ID) {
		r.order = append(r.order, s.ID)
	}
	r.sidebars[s.ID] = s
	r.logger.Debug("sidebar registered", "id", s.ID, "widgets", len(s.Widgets))
	return s.ID
}

// Unregister removes id. Unknown ids are ignored.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.has(id) {
		return
	}
	delete(r.sidebars, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns a copy of the sidebar registered under id.
func (r *Registry) Get(id string) (Sidebar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sidebars[id]
	if !ok {
		return Sidebar{}, false
	}
	return s.clone(), true
}

// Sidebars returns a snapshot in registration order.
func (r *Registry) Sidebars() []Sidebar {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sidebar, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sidebars[id].clone())
	}
	return out
}

// IsActive reports whether id is registered and holds at least one widget.
func (r *Registry) IsActive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sidebars[id]
	return ok && len(s.Widgets) > 0
}

// PrintSidebar writes every widget of id to w, each wrapped with the
// sidebar's before/after markup. An empty sidebar writes nothing.
func (r *Registry) PrintSidebar(ctx context.Context, id string, w io.Writer) error {
	s, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	for _, widget := range s.Widgets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.printWidget(s, widget, w); err != nil {
			return fmt.Errorf("sidebars: print %s/%s: %w", s.ID, widget.ID, err)
		}
	}
	return nil
}

// Source exposes the registry as a read-only Source whose rendering is
// captured from PrintSidebar.
func (r *Registry) Source() Source {
	return NewSource(r, r)
}

func (r *Registry) printWidget(s Sidebar, widget Widget, w io.Writer) error {
	body, err := r.templates.RenderString(widget.Content, widgetData(s, widget))
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(expandWrapper(s.BeforeWidget, widget))
	if title := strings.TrimSpace(widget.Title); title != "" {
		b.WriteString(s.BeforeTitle)
		b.WriteString(html.EscapeString(title))
		b.WriteString(s.AfterTitle)
	}
	b.WriteString(body)
	b.WriteString(s.AfterWidget)

	_, err = io.WriteString(w, b.String())
	return err
}

func (r *Registry) index(id string) int {
	for i, existing := range r.order {
		if existing == id {
			return i
		}
	}
	return -1
}

func (r *Registry) has(id string) bool {
	_, ok := r.sidebars[id]
	return ok
}

func widgetData(s Sidebar, widget Widget) map[string]any {
	data := make(map[string]any, len(widget.Data)+2)
	for k, v := range widget.Data {
		data[k] = v
	}
	data["widget"] = map[string]any{
		"id":    widget.ID,
		"type":  widget.Type,
		"title": widget.Title,
	}
	data["sidebar"] = map[string]any{
		"id":   s.ID,
		"name": s.Name,
	}
	return data
}

func expandWrapper(wrapper string, widget Widget) string {
	class := "widget"
	if t := strings.TrimSpace(widget.Type); t != "" {
		class = "widget_" + t
	}
	return strings.NewReplacer("%1$s", widget.ID, "%2$s", class).Replace(wrapper)
}

func applyWrapperDefaults(s *Sidebar) {
	if s.BeforeWidget == "" {
		s.BeforeWidget = DefaultBeforeWidget
	}
	if s.AfterWidget == "" {
		s.AfterWidget = DefaultAfterWidget
	}
	if s.BeforeTitle == "" {
		s.BeforeTitle = DefaultBeforeTitle
	}
	if s.AfterTitle == "" {
		s.AfterTitle = DefaultAfterTitle
	}
}
