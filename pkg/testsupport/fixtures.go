package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metabox/pkg/metabox"
	"github.com/goliatone/go-metabox/pkg/sidebars"
)

// MustLoadBox loads a JSON fixture into a Box.
func MustLoadBox(t *testing.T, path string) metabox.Box {
	t.Helper()

	box, err := LoadBox(path)
	if err != nil {
		t.Fatalf("load box: %v", err)
	}
	return box
}

// LoadBox reads a JSON fixture into a Box, returning an error for callers
// managing setup outside of *testing.T.
func LoadBox(path string) (metabox.Box, error) {
	if path == "" {
		return metabox.Box{}, errors.New("testsupport: box path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return metabox.Box{}, fmt.Errorf("testsupport: read box: %w", err)
	}
	var out metabox.Box
	if err := json.Unmarshal(data, &out); err != nil {
		return metabox.Box{}, fmt.Errorf("testsupport: unmarshal box: %w", err)
	}
	return out, nil
}

// SidebarRegistry returns a registry holding a "footer" sidebar with one text
// widget and an empty "header" sidebar, registered in that order.
func SidebarRegistry(t *testing.T) *sidebars.Registry {
	t.Helper()

	reg, err := sidebars.New()
	if err != nil {
		t.Fatalf("new sidebars: %v", err)
	}
	reg.Register(sidebars.Sidebar{
		ID:   "footer",
		Name: "Footer",
		Widgets: []sidebars.Widget{{
			ID:      "about",
			Type:    "text",
			Title:   "About",
			Content: "<p>{{ text }}</p>",
			Data:    map[string]any{"text": "Hello"},
		}},
	})
	reg.Register(sidebars.Sidebar{ID: "header", Name: "Header"})
	return reg
}

// BoxesFS wraps raw definition documents into an in-memory filesystem keyed
// by file name.
func BoxesFS(files map[string]string) fstest.MapFS {
	out := make(fstest.MapFS, len(files))
	for name, content := range files {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CapturePrintOutput runs a print-style function against a buffer and returns
// what it wrote.
func CapturePrintOutput(t *testing.T, print func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := print(&buf); err != nil {
		t.Fatalf("print: %v", err)
	}
	return buf.String()
}
