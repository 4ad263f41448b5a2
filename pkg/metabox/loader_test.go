package metabox

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metabox/pkg/field"
)

func TestLoadFS_ParsesBoxes(t *testing.T) {
	files := fstest.MapFS{
		"boxes/layout.yaml": {Data: []byte(`
meta_boxes:
  - title: Layout
    post_types: [page]
    fields:
      - id: area
        type: sidebar
      - id: size
        type: select
        options:
          s: Small
          l: Large
`)},
		"boxes/seo.json": {Data: []byte(`{"meta_boxes":[{"id":"seo","title":"SEO","fields":[{"id":"robots","type":"checkbox_list","options":[{"value":"noindex","label":"No index"}]}]}]}`)},
	}

	store, err := LoadFS(files)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"layout", "seo"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	layout, ok := store.Box("layout")
	if !ok {
		t.Fatalf("expected layout box")
	}
	size, _ := layout.Field("size")
	want := field.Options{{Value: "s", Label: "Small"}, {Value: "l", Label: "Large"}}
	if diff := cmp.Diff(want, size.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if got := store.ForPostType("page"); len(got) != 1 || got[0].ID != "layout" {
		t.Fatalf("unexpected boxes for page: %+v", got)
	}
	if got := store.ForPostType("post"); len(got) != 1 || got[0].ID != "seo" {
		t.Fatalf("expected seo box to default to post, got %+v", got)
	}
}

func TestLoadFS_RejectsDuplicatesAndMissingIDs(t *testing.T) {
	dup := fstest.MapFS{
		"a.yaml": {Data: []byte("meta_boxes:\n  - id: x\n")},
		"b.yaml": {Data: []byte("meta_boxes:\n  - title: X\n")},
	}
	if _, err := LoadFS(dup); err == nil || !strings.Contains(err.Error(), `duplicate box "x"`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	missing := fstest.MapFS{"a.yaml": {Data: []byte("meta_boxes:\n  - context: side\n")}}
	if _, err := LoadFS(missing); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestStore_BoxReturnsCopy(t *testing.T) {
	store, err := LoadFS(fstest.MapFS{"a.yaml": {Data: []byte("meta_boxes:\n  - id: x\n    fields:\n      - id: f\n        type: select\n")}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, _ := store.Box("x")
	b.Fields[0].ID = "changed"
	again, _ := store.Box("x")
	if again.Fields[0].ID != "f" {
		t.Fatalf("expected store to hand out copies")
	}
}
