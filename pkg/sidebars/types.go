package sidebars

import (
	"context"
	"io"
)

// Sidebar is one registered display region. The Before/After wrappers follow
// the register_sidebar arguments: %1$s in BeforeWidget expands to the widget
// id and %2$s to its class list.
type Sidebar struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Class        string   `json:"class,omitempty" yaml:"class,omitempty"`
	BeforeWidget string   `json:"before_widget,omitempty" yaml:"before_widget,omitempty"`
	AfterWidget  string   `json:"after_widget,omitempty" yaml:"after_widget,omitempty"`
	BeforeTitle  string   `json:"before_title,omitempty" yaml:"before_title,omitempty"`
	AfterTitle   string   `json:"after_title,omitempty" yaml:"after_title,omitempty"`
	Widgets      []Widget `json:"widgets,omitempty" yaml:"widgets,omitempty"`
}

// Widget is a titled block placed in a sidebar. Content is a pongo2 template
// rendered with the widget's Data plus "widget" and "sidebar" entries.
type Widget struct {
	ID      string         `json:"id" yaml:"id"`
	Type    string         `json:"type,omitempty" yaml:"type,omitempty"`
	Title   string         `json:"title,omitempty" yaml:"title,omitempty"`
	Content string         `json:"content,omitempty" yaml:"content,omitempty"`
	Data    map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

func (s Sidebar) clone() Sidebar {
	out := s
	if s.Widgets != nil {
		out.Widgets = make([]Widget, len(s.Widgets))
		for i, w := range s.Widgets {
			out.Widgets[i] = w
			if w.Data != nil {
				data := make(map[string]any, len(w.Data))
				for k, v := range w.Data {
					data[k] = v
				}
				out.Widgets[i].Data = data
			}
		}
	}
	return out
}

// Lister enumerates registered sidebars.
type Lister interface {
	// Sidebars returns a snapshot in registration order.
	Sidebars() []Sidebar
	// IsActive reports whether id is registered and holds content.
	IsActive(id string) bool
}

// Printer writes a sidebar's content to w.
type Printer interface {
	PrintSidebar(ctx context.Context, id string, w io.Writer) error
}

// PrinterFunc adapts a function into a Printer.
type PrinterFunc func(ctx context.Context, id string, w io.Writer) error

// PrintSidebar calls fn.
func (fn PrinterFunc) PrintSidebar(ctx context.Context, id string, w io.Writer) error {
	return fn(ctx, id, w)
}

// Renderer returns a sidebar's content as a value.
type Renderer interface {
	RenderSidebar(ctx context.Context, id string) (string, error)
}

// Source is the read-only view field types consume.
type Source interface {
	Lister
	Renderer
}

type source struct {
	Lister
	Renderer
}

// NewSource combines a Lister with a Printer, capturing the printer output.
func NewSource(l Lister, p Printer) Source {
	return source{Lister: l, Renderer: Capture(p)}
}
