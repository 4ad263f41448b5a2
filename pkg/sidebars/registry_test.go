package sidebars

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := New()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}

func TestRegistry_KeepsRegistrationOrder(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{ID: "footer", Name: "Footer"})
	reg.Register(Sidebar{ID: "header", Name: "Header"})
	reg.Register(Sidebar{ID: "aside", Name: "Aside"})
	reg.Register(Sidebar{ID: "footer", Name: "Footer Area"})

	var ids, names []string
	for _, s := range reg.Sidebars() {
		ids = append(ids, s.ID)
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"footer", "header", "aside"}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if names[0] != "Footer Area" {
		t.Fatalf("expected replacement to keep position, got %v", names)
	}
}

func TestRegistry_DefaultsMissingIDAndName(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{ID: "sidebar-2"})
	id := reg.Register(Sidebar{})

	if id != "sidebar-3" {
		t.Fatalf("expected generated id to skip taken ids, got %q", id)
	}
	s, ok := reg.Get(id)
	if !ok {
		t.Fatalf("expected sidebar %q", id)
	}
	if s.Name != "Sidebar 3" {
		t.Fatalf("unexpected default name %q", s.Name)
	}
	if s.BeforeWidget != DefaultBeforeWidget || s.AfterTitle != DefaultAfterTitle {
		t.Fatalf("expected wrapper defaults, got %+v", s)
	}
}

func TestRegistry_IsActive(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{ID: "empty", Name: "Empty"})
	reg.Register(Sidebar{ID: "full", Name: "Full", Widgets: []Widget{{Content: "hi"}}})

	if reg.IsActive("empty") {
		t.Fatalf("expected sidebar without widgets to be inactive")
	}
	if !reg.IsActive("full") {
		t.Fatalf("expected sidebar with widgets to be active")
	}
	if reg.IsActive("missing") {
		t.Fatalf("expected unknown sidebar to be inactive")
	}
}

func TestRegistry_PrintSidebar(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{
		ID:           "footer",
		Name:         "Footer",
		BeforeWidget: `<section id="%1$s" class="%2$s">`,
		AfterWidget:  `</section>`,
		BeforeTitle:  `<h3>`,
		AfterTitle:   `</h3>`,
		Widgets: []Widget{
			{ID: "text-1", Type: "text", Title: "About <us>", Content: "<p>{{ tagline }}</p>", Data: map[string]any{"tagline": "Hello"}},
			{ID: "text-2", Content: "in {{ sidebar.name }}"},
		},
	})

	var b strings.Builder
	if err := reg.PrintSidebar(context.Background(), "footer", &b); err != nil {
		t.Fatalf("print: %v", err)
	}

	want := `<section id="text-1" class="widget_text"><h3>About &lt;us&gt;</h3><p>Hello</p></section>` +
		`<section id="text-2" class="widget">in Footer</section>`
	if b.String() != want {
		t.Fatalf("unexpected output\nwant: %q\n got: %q", want, b.String())
	}
}

func TestRegistry_PrintUnknownSidebar(t *testing.T) {
	reg := newRegistry(t)
	err := reg.PrintSidebar(context.Background(), "nope", &strings.Builder{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_PrintHonoursCancelledContext(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{ID: "a", Widgets: []Widget{{Content: "x"}}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := reg.PrintSidebar(ctx, "a", &strings.Builder{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRegistry_SnapshotsAreIndependent(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{ID: "a", Widgets: []Widget{{ID: "w", Data: map[string]any{"k": "v"}}}})

	snapshot := reg.Sidebars()
	snapshot[0].Widgets[0].Data["k"] = "changed"
	snapshot[0].Name = "changed"

	again, _ := reg.Get("a")
	if again.Widgets[0].Data["k"] != "v" || again.Name == "changed" {
		t.Fatalf("expected registry state to be isolated from snapshots")
	}
}

func TestRegistry_Unregister(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{ID: "a"})
	reg.Register(Sidebar{ID: "b"})
	reg.Unregister("a")
	reg.Unregister("missing")

	list := reg.Sidebars()
	if len(list) != 1 || list[0].ID != "b" {
		t.Fatalf("unexpected sidebars after unregister: %+v", list)
	}
}

func TestRegistry_ReplacementKeepsPositionalName(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{ID: "footer"})
	reg.Register(Sidebar{ID: "header"})
	reg.Register(Sidebar{ID: "aside"})
	reg.Register(Sidebar{ID: "footer", Widgets: []Widget{{Title: "About"}}})

	s, ok := reg.Get("footer")
	if !ok {
		t.Fatalf("expected footer sidebar")
	}
	if s.Name != "Sidebar 1" {
		t.Fatalf("expected the default name to follow the kept position, got %q", s.Name)
	}
}
