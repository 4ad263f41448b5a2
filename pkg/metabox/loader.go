package metabox

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds boxes loaded from definition files, keyed by id.
type Store struct {
	boxes map[string]Box
	order []string
}

type documentFile struct {
	Boxes []Box `json:"meta_boxes" yaml:"meta_boxes"`
}

// LoadFS reads every .yaml, .yml and .json file under fsys. Each file lists
// boxes under "meta_boxes". Box defaults are applied on load; duplicate ids
// are rejected.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{boxes: make(map[string]Box)}
	if fsys == nil {
		return store, nil
	}
	sources := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("metabox: read %s: %w", p, err)
		}
		doc, err := parseDocument(data, p)
		if err != nil {
			return err
		}
		for i, raw := range doc.Boxes {
			box := raw.WithDefaults()
			if box.ID == "" {
				return fmt.Errorf("metabox: %s: box %d needs an id or a title", p, i)
			}
			if previous, dup := sources[box.ID]; dup {
				return fmt.Errorf("metabox: duplicate box %q (%s and %s)", box.ID, previous, p)
			}
			sources[box.ID] = p
			store.boxes[box.ID] = box
			store.order = append(store.order, box.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Box returns a copy of the box with id.
func (s *Store) Box(id string) (Box, bool) {
	if s == nil {
		return Box{}, false
	}
	b, ok := s.boxes[id]
	if !ok {
		return Box{}, false
	}
	return b.Clone(), true
}

// Boxes returns every box in load order.
func (s *Store) Boxes() []Box {
	if s == nil {
		return nil
	}
	out := make([]Box, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.boxes[id].Clone())
	}
	return out
}

// IDs returns box ids sorted alphabetically.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := append([]string(nil), s.order...)
	sort.Strings(ids)
	return ids
}

// ForPostType returns boxes attached to postType, in load order.
func (s *Store) ForPostType(postType string) []Box {
	var out []Box
	for _, b := range s.Boxes() {
		for _, pt := range b.PostTypes {
			if pt == postType {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// ParseBoxes decodes the boxes declared in one definition document without
// applying defaults. source selects JSON or YAML by extension.
func ParseBoxes(data []byte, source string) ([]Box, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	return doc.Boxes, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if strings.TrimSpace(string(data)) == "" {
		return doc, fmt.Errorf("metabox: file %s is empty", source)
	}
	if strings.EqualFold(path.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("metabox: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("metabox: parse %s: %w", source, err)
	}
	return doc, nil
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
