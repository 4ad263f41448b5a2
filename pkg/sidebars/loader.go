package sidebars

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Sidebars []Sidebar `json:"sidebars" yaml:"sidebars"`
}

// LoadFS reads every .yaml, .yml and .json file under fsys and returns the
// sidebars they declare, files in lexical order and entries in document order.
// Duplicate ids are rejected. A nil fsys yields no sidebars.
func LoadFS(fsys fs.FS) ([]Sidebar, error) {
	if fsys == nil {
		return nil, nil
	}

	var out []Sidebar
	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("sidebars: read %s: %w", p, err)
		}
		doc, err := parseDocument(data, p)
		if err != nil {
			return err
		}
		for i, s := range doc.Sidebars {
			id := strings.TrimSpace(s.ID)
			if id == "" {
				return fmt.Errorf("sidebars: %s: sidebar %d has no id", p, i)
			}
			if previous, dup := seen[id]; dup {
				return fmt.Errorf("sidebars: duplicate sidebar %q (%s and %s)", id, previous, p)
			}
			seen[id] = p
			s.ID = id
			out = append(out, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterAll registers sidebars in order.
func (r *Registry) RegisterAll(list []Sidebar) {
	for _, s := range list {
		r.Register(s)
	}
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if strings.TrimSpace(string(data)) == "" {
		return doc, fmt.Errorf("sidebars: file %s is empty", source)
	}
	if strings.EqualFold(path.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("sidebars: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("sidebars: parse %s: %w", source, err)
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
