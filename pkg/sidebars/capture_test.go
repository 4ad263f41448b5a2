package sidebars

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestCapture_ReturnsPrintedOutput(t *testing.T) {
	printer := PrinterFunc(func(_ context.Context, id string, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<aside>%s</aside>", id)
		return err
	})

	got, err := Capture(printer).RenderSidebar(context.Background(), "sidebar-1")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "<aside>sidebar-1</aside>" {
		t.Fatalf("unexpected capture %q", got)
	}
}

func TestCapture_DiscardsPartialOutputOnError(t *testing.T) {
	boom := errors.New("boom")
	printer := PrinterFunc(func(_ context.Context, _ string, w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})

	got, err := Capture(printer).RenderSidebar(context.Background(), "x")
	if !errors.Is(err, boom) {
		t.Fatalf("expected printer error, got %v", err)
	}
	if got != "" {
		t.Fatalf("expected no output on error, got %q", got)
	}
}

func TestCapture_NilPrinter(t *testing.T) {
	if _, err := Capture(nil).RenderSidebar(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for nil printer")
	}
}

func TestRegistry_SourceCapturesPrintSidebar(t *testing.T) {
	reg := newRegistry(t)
	reg.Register(Sidebar{
		ID:           "footer",
		Name:         "Footer",
		BeforeWidget: "[",
		AfterWidget:  "]",
		Widgets:      []Widget{{Content: "a"}, {Content: "b"}},
	})

	src := reg.Source()
	got, err := src.RenderSidebar(context.Background(), "footer")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[a][b]" {
		t.Fatalf("unexpected capture %q", got)
	}
	if len(src.Sidebars()) != 1 || !src.IsActive("footer") {
		t.Fatalf("expected source to expose the registry listing")
	}
}
