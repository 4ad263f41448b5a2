package fields

import (
	"fmt"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/logger"
	"github.com/goliatone/go-metabox/pkg/sidebars"
)

// Built-in field type identifiers.
const (
	TypeSidebar        = "sidebar"
	TypeSelect         = "select"
	TypeSelectAdvanced = "select_advanced"
	TypeCheckboxList   = "checkbox_list"
	TypeRadio          = "radio"
)

// Config carries the dependencies built-in types are constructed with.
type Config struct {
	Sidebars   sidebars.Source
	Translator field.Translator
	Locale     string
	Logger     logger.Logger
}

type constructor func(Config) field.Type

var builtins = []struct {
	name  string
	build constructor
}{
	{TypeSelect, func(Config) field.Type { return Choice{Control: field.ControlSelect} }},
	{TypeSelectAdvanced, func(Config) field.Type { return Choice{Control: field.ControlSelectAdvanced} }},
	{TypeCheckboxList, func(Config) field.Type { return Choice{Control: field.ControlCheckboxList} }},
	{TypeRadio, func(Config) field.Type { return Choice{Control: field.ControlRadioList} }},
	{TypeSidebar, func(cfg Config) field.Type { return NewSidebar(cfg.Sidebars, cfg) }},
}

// Names lists the built-in type identifiers in registration order.
func Names() []string {
	out := make([]string, len(builtins))
	for i, b := range builtins {
		out[i] = b.name
	}
	return out
}

// Register constructs every built-in type from cfg and adds it to reg.
func Register(reg *field.Registry, cfg Config) error {
	if reg == nil {
		return fmt.Errorf("fields: registry is required")
	}
	for _, b := range builtins {
		if err := reg.Register(b.name, b.build(cfg)); err != nil {
			return fmt.Errorf("fields: register %s: %w", b.name, err)
		}
	}
	return nil
}

// NewRegistry returns a registry with every built-in type registered.
func NewRegistry(cfg Config, options ...field.RegistryOption) (*field.Registry, error) {
	if cfg.Logger != nil {
		options = append([]field.RegistryOption{field.WithLogger(cfg.Logger)}, options...)
	}
	reg := field.NewRegistry(options...)
	if err := Register(reg, cfg); err != nil {
		return nil, err
	}
	return reg, nil
}
