package metabox

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/fields"
	"github.com/goliatone/go-metabox/pkg/sidebars"
)

func newRegistry(t *testing.T) *field.Registry {
	t.Helper()
	sb, err := sidebars.New()
	if err != nil {
		t.Fatalf("new sidebars: %v", err)
	}
	sb.Register(sidebars.Sidebar{ID: "sidebar-1", Name: "Footer"})
	sb.Register(sidebars.Sidebar{ID: "sidebar-2", Name: "Header"})

	reg, err := fields.NewRegistry(fields.Config{Sidebars: sb.Source()})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}

func TestBox_WithDefaults(t *testing.T) {
	got := Box{Title: "Page Layout Options"}.WithDefaults()
	want := Box{
		ID:        "page-layout-options",
		Title:     "Page Layout Options",
		Context:   DefaultContext,
		Priority:  DefaultPriority,
		PostTypes: []string{DefaultPostType},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_NormalizesEveryField(t *testing.T) {
	reg := newRegistry(t)
	in := Box{
		ID:    "layout",
		Title: "Layout",
		Fields: []field.Field{
			{ID: "area", Type: "sidebar"},
			{ID: "size", Type: "radio", Options: field.NewOptions(field.Option{Value: "s", Label: "Small"})},
		},
	}

	got, err := Normalize(context.Background(), reg, in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	area, ok := got.Field("area")
	if !ok {
		t.Fatalf("expected area field")
	}
	if diff := cmp.Diff([]string{"sidebar-1", "sidebar-2"}, area.Options.Keys()); diff != "" {
		t.Fatalf("sidebar options mismatch (-want +got):\n%s", diff)
	}
	size, _ := got.Field("size")
	if size.FieldType != field.ControlRadioList {
		t.Fatalf("unexpected control %q", size.FieldType)
	}
	if in.Fields[0].Options != nil {
		t.Fatalf("expected input box to stay untouched")
	}

	again, err := Normalize(context.Background(), reg, got)
	if err != nil {
		t.Fatalf("normalize again: %v", err)
	}
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("box normalization not idempotent (-once +twice):\n%s", diff)
	}
}

func TestNormalize_UnknownFieldType(t *testing.T) {
	reg := newRegistry(t)
	_, err := Normalize(context.Background(), reg, Box{ID: "b", Fields: []field.Field{{Type: "map"}}})
	if !errors.Is(err, field.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if !strings.Contains(err.Error(), `box "b" field "#0"`) {
		t.Fatalf("expected error to locate the field, got %q", err.Error())
	}
}

func TestNormalize_RequiresRegistry(t *testing.T) {
	if _, err := Normalize(context.Background(), nil, Box{}); err == nil {
		t.Fatalf("expected error without registry")
	}
}
