package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/fields"
	"github.com/goliatone/go-metabox/pkg/metabox"
	"github.com/goliatone/go-metabox/pkg/render"
	"github.com/goliatone/go-metabox/pkg/sidebars"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	infoMessages []string
	selectCfgs   []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newFieldRegistry(t *testing.T) *field.Registry {
	t.Helper()
	sidebarReg, err := sidebars.New()
	if err != nil {
		t.Fatalf("sidebars.New: %v", err)
	}
	sidebarReg.Register(sidebars.Sidebar{
		ID:   "footer",
		Name: "Footer",
		Widgets: []sidebars.Widget{{
			Type:    "text",
			Title:   "About",
			Content: "<p>Hello <b>there</b></p>",
		}},
	})
	sidebarReg.Register(sidebars.Sidebar{ID: "header", Name: "Header"})

	reg, err := fields.NewRegistry(fields.Config{Sidebars: sidebarReg.Source()})
	if err != nil {
		t.Fatalf("fields.NewRegistry: %v", err)
	}
	return reg
}

func testBox(t *testing.T, reg *field.Registry) metabox.Box {
	t.Helper()
	box, err := metabox.Normalize(context.Background(), reg, metabox.Box{
		ID:    "layout",
		Title: "Layout",
		Fields: []field.Field{
			{ID: "area", Type: fields.TypeSidebar},
			{
				ID:      "tags",
				Type:    fields.TypeCheckboxList,
				Options: field.NewOptions(field.Option{Value: "a", Label: "Alpha"}, field.Option{Value: "b", Label: "Beta"}),
			},
		},
	})
	if err != nil {
		t.Fatalf("metabox.Normalize: %v", err)
	}
	return box
}

func TestRenderer_CollectsChoices(t *testing.T) {
	reg := newFieldRegistry(t)
	driver := &stubDriver{
		selectIdx: []int{1},        // placeholder is index 0
		multiIdx:  [][]int{{0, 1}}, // both tags
	}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := renderer.Render(context.Background(), testBox(t, reg), render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	want := map[string]any{"area": "footer", "tags": []any{"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	wantOptions := []string{"Select a sidebar", "Footer", "Header"}
	if diff := cmp.Diff(wantOptions, driver.selectCfgs[0].Options); diff != "" {
		t.Errorf("sidebar prompt options mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_PrintsSidebarPreviewAsText(t *testing.T) {
	reg := newFieldRegistry(t)
	driver := &stubDriver{
		selectIdx: []int{1},
		multiIdx:  [][]int{{0}},
	}
	renderer, err := New(WithPromptDriver(driver), WithTheme(Theme{PreviewPrefix: "> "}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := renderer.Render(context.Background(), testBox(t, reg), render.RenderOptions{Labeler: reg}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	var previews []string
	for _, msg := range driver.infoMessages {
		if strings.HasPrefix(msg, "> ") {
			previews = append(previews, msg)
		}
	}
	if diff := cmp.Diff([]string{"> About Hello there"}, previews); diff != "" {
		t.Errorf("previews mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_DefaultsFromValues(t *testing.T) {
	reg := newFieldRegistry(t)
	driver := &stubDriver{
		selectIdx: []int{2},
		multiIdx:  [][]int{{1}},
	}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = renderer.Render(context.Background(), testBox(t, reg), render.RenderOptions{
		Values: map[string]any{"area": "header", "tags": []string{"b"}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := driver.selectCfgs[0].DefaultIndex; got != 2 {
		t.Errorf("sidebar default index = %d, want 2", got)
	}
	if diff := cmp.Diff([]int{1}, driver.selectCfgs[1].Defaults); diff != "" {
		t.Errorf("tag defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_RequiredChoiceRetries(t *testing.T) {
	reg := newFieldRegistry(t)
	box, err := metabox.Normalize(context.Background(), reg, metabox.Box{
		ID:    "req",
		Title: "Required",
		Fields: []field.Field{{
			ID:       "tags",
			Type:     fields.TypeCheckboxList,
			Required: true,
			Options:  field.NewOptions(field.Option{Value: "a", Label: "Alpha"}),
		}},
	})
	if err != nil {
		t.Fatalf("metabox.Normalize: %v", err)
	}

	driver := &stubDriver{multiIdx: [][]int{{}, {0}}}
	renderer, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := renderer.Render(context.Background(), box, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got, want := string(out), "tags%5B%5D=a"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if driver.multiPos != 2 {
		t.Errorf("expected a retry, prompts = %d", driver.multiPos)
	}
}

func TestRenderer_EmptyOptionsAreSkipped(t *testing.T) {
	reg, err := fields.NewRegistry(fields.Config{})
	if err != nil {
		t.Fatalf("fields.NewRegistry: %v", err)
	}
	box, err := metabox.Normalize(context.Background(), reg, metabox.Box{
		ID:     "none",
		Title:  "None",
		Fields: []field.Field{{ID: "area", Type: fields.TypeSidebar}},
	})
	if err != nil {
		t.Fatalf("metabox.Normalize: %v", err)
	}

	driver := &stubDriver{}
	renderer, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := renderer.Render(context.Background(), box, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected no values, got %q", out)
	}
	if len(driver.selectCfgs) != 0 {
		t.Errorf("prompted for a field without options")
	}
}

func TestRenderer_PropagatesAbort(t *testing.T) {
	reg := newFieldRegistry(t)
	renderer, err := New(WithPromptDriver(abortDriver{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = renderer.Render(context.Background(), testBox(t, reg), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortDriver struct{}

func (abortDriver) Input(context.Context, InputConfig) (string, error) { return "", ErrAborted }
func (abortDriver) Select(context.Context, SelectConfig) (int, error)  { return 0, ErrAborted }
func (abortDriver) MultiSelect(context.Context, SelectConfig) ([]int, error) {
	return nil, ErrAborted
}
func (abortDriver) Info(context.Context, string) error { return nil }

func TestRenderer_TextFieldUsesInput(t *testing.T) {
	reg := field.NewRegistry()
	reg.MustRegister("text", textType{})
	box, err := metabox.Normalize(context.Background(), reg, metabox.Box{
		ID:     "t",
		Title:  "T",
		Fields: []field.Field{{ID: "subtitle", Type: "text", Required: true}},
	})
	if err != nil {
		t.Fatalf("metabox.Normalize: %v", err)
	}

	driver := &stubDriver{inputs: []string{"Hello"}}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := renderer.Render(context.Background(), box, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got, want := string(out), `{"subtitle":"Hello"}`; got != want {
		t.Errorf("output = %s, want %s", got, want)
	}
}

type textType struct{}

func (textType) Normalize(_ context.Context, f field.Field) field.Field {
	return field.NormalizeBase(f)
}

func (textType) OptionLabel(context.Context, field.Field, string) string { return "" }
