package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/fields"
	"github.com/goliatone/go-metabox/pkg/metabox"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint meta box definition files for unknown types and inconsistent choices.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"examples/boxes"}
	}

	reg, err := fields.NewRegistry(fields.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "field registry: %v\n", err)
		os.Exit(1)
	}

	files, err := expandPaths(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var violations []violation
	for _, path := range files {
		linted, err := lintFile(reg, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sortViolations(violations)
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

// expandPaths replaces directories with the definition files below them.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, entry os.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !entry.IsDir() && isDefinitionFile(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	return out, nil
}

func lintFile(reg *field.Registry, path string) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	boxes, err := metabox.ParseBoxes(raw, path)
	if err != nil {
		return nil, err
	}

	var result []violation
	for i, box := range boxes {
		result = append(result, lintBox(reg, path, i, box)...)
	}
	return result, nil
}

func lintBox(reg *field.Registry, file string, index int, box metabox.Box) []violation {
	box = box.WithDefaults()
	base := []string{"box", box.ID}
	if box.ID == "" {
		base = []string{"box", fmt.Sprintf("#%d", index)}
	}

	var result []violation
	add := func(path []string, format string, args ...any) {
		result = append(result, violation{
			file:     file,
			location: formatLocation(path),
			message:  fmt.Sprintf(format, args...),
		})
	}

	if box.ID == "" {
		add(base, "box needs an id or a title")
	}

	seen := make(map[string]bool, len(box.Fields))
	for i, f := range box.Fields {
		ref := field.NormalizeBase(f).ID
		if ref == "" {
			ref = fmt.Sprintf("#%d", i)
		}
		path := appendPath(base, "field "+ref)

		if seen[ref] {
			add(path, "duplicate field id %q", ref)
		}
		seen[ref] = true

		if strings.TrimSpace(f.Type) == "" {
			add(path, "field type is required")
			continue
		}
		if !reg.Has(f.Type) {
			add(path, "unknown field type %q (supported: %s)", f.Type, strings.Join(reg.List(), ", "))
			continue
		}
		result = append(result, lintChoice(file, path, f)...)
	}
	return result
}

func lintChoice(file string, path []string, f field.Field) []violation {
	var result []violation
	add := func(format string, args ...any) {
		result = append(result, violation{
			file:     file,
			location: formatLocation(path),
			message:  fmt.Sprintf(format, args...),
		})
	}

	switch strings.TrimSpace(f.FieldType) {
	case "", field.ControlSelect, field.ControlSelectAdvanced, field.ControlCheckboxList, field.ControlRadioList:
	default:
		add("unsupported field_type %q", f.FieldType)
	}

	if strings.EqualFold(strings.TrimSpace(f.Type), fields.TypeSidebar) {
		if len(f.Options) > 0 {
			add("options are replaced by the registered sidebars")
		}
		return result
	}

	if len(f.Options) == 0 {
		add("choice field declares no options")
		return result
	}
	for _, opt := range f.Options {
		if opt.Parent == "" {
			continue
		}
		if _, ok := f.Options.Get(opt.Parent); !ok {
			add("option %q has unknown parent %q", opt.Value, opt.Parent)
		}
	}
	for _, value := range stdValues(f.Std) {
		if _, ok := f.Options.Get(value); !ok {
			add("default %q is not one of the options", value)
		}
	}
	return result
}

func stdValues(std any) []string {
	switch v := std.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func sortViolations(violations []violation) {
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	next = append(next, segment)
	return next
}

func formatLocation(path []string) string {
	return strings.Join(path, " > ")
}
