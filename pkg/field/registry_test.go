package field

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubType struct {
	options Options
	labels  map[string]string
}

func (s stubType) Normalize(_ context.Context, f Field) Field {
	if f.Placeholder == "" {
		f.Placeholder = "Pick one"
	}
	f.Options = s.options.Clone()
	return NormalizeChoice(f)
}

func (s stubType) OptionLabel(_ context.Context, _ Field, value string) string {
	return s.labels[value]
}

func TestRegistry_RegisterAndList(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("select", stubType{})
	reg.MustRegister(" Sidebar ", stubType{})

	if !reg.Has("sidebar") || !reg.Has("SELECT") {
		t.Fatalf("expected case-insensitive lookups to succeed")
	}
	if got := strings.Join(reg.List(), ","); got != "select,sidebar" {
		t.Fatalf("unexpected list: %q", got)
	}
}

func TestRegistry_RegisterRejectsInvalid(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("", stubType{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("select", nil); err == nil {
		t.Fatalf("expected error for nil type")
	}
	reg.MustRegister("select", stubType{})
	if err := reg.Register("select", stubType{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("select", stubType{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	reg.MustRegister("select", stubType{})
}

func TestRegistry_NormalizeUnknownType(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Normalize(context.Background(), Field{ID: "x", Type: "missing"})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if _, err := reg.OptionLabel(context.Background(), Field{Type: "missing"}, "a"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType from OptionLabel, got %v", err)
	}
}

func TestRegistry_NormalizeDelegatesAndCopies(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("stub", stubType{options: NewOptions(Option{Value: "a", Label: "A"})})

	in := Field{ID: "pick", Type: "stub", Options: NewOptions(Option{Value: "caller", Label: "Caller"})}
	out, err := reg.Normalize(context.Background(), in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Placeholder != "Pick one" {
		t.Fatalf("expected placeholder default, got %q", out.Placeholder)
	}
	if keys := out.Options.Keys(); len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("expected source options to overwrite caller options, got %v", keys)
	}
	if in.Options[0].Value != "caller" {
		t.Fatalf("expected caller field to stay untouched")
	}
}

func TestRegistry_NormalizeAllReportsIndex(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("stub", stubType{})

	_, err := reg.NormalizeAll(context.Background(), []Field{
		{ID: "ok", Type: "stub"},
		{ID: "bad", Type: "nope"},
	})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if !strings.Contains(err.Error(), "field 1 (bad)") {
		t.Fatalf("expected error to reference field position, got %q", err.Error())
	}
}

func TestRegistry_OptionLabel(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("stub", stubType{labels: map[string]string{"a": "Alpha"}})

	got, err := reg.OptionLabel(context.Background(), Field{Type: "stub"}, "a")
	if err != nil || got != "Alpha" {
		t.Fatalf("unexpected label %q (err %v)", got, err)
	}
}
