package field

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-metabox/pkg/logger"
)

// ErrUnknownType is returned when a field references a type that was never
// registered.
var ErrUnknownType = errors.New("field: unknown field type")

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger routes registry diagnostics to l.
func WithLogger(l logger.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry maps field type identifiers to implementations. It is built
// explicitly at startup and safe for concurrent use afterwards.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]Type
	logger logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		types:  make(map[string]Type),
		logger: logger.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register adds a field type under name. Duplicate names return an error.
func (r *Registry) Register(name string, t Type) error {
	name = normalizeTypeName(name)
	if name == "" {
		return fmt.Errorf("field: type name is required")
	}
	if t == nil {
		return fmt.Errorf("field: type %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return fmt.Errorf("field: type %q already registered", name)
	}
	r.types[name] = t
	r.logger.Debug("field type registered", "type", name)
	return nil
}

// MustRegister panics when Register fails. Useful for startup wiring.
func (r *Registry) MustRegister(name string, t Type) {
	if err := r.Register(name, t); err != nil {
		panic(err)
	}
}

// Get returns the type registered under name.
func (r *Registry) Get(name string) (Type, error) {
	key := normalizeTypeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
	}
	return t, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[normalizeTypeName(name)]
	return ok
}

// List returns registered type names sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize resolves f.Type and returns the normalized copy. Only an unknown
// type fails; the type's own normalization is total.
func (r *Registry) Normalize(ctx context.Context, f Field) (Field, error) {
	t, err := r.Get(f.Type)
	if err != nil {
		return Field{}, err
	}
	out := t.Normalize(ctx, f.Clone())
	r.logger.Debug("field normalized", "id", out.ID, "type", out.Type, "options", len(out.Options))
	return out, nil
}

// NormalizeAll normalizes fields in order, stopping at the first unknown type.
func (r *Registry) NormalizeAll(ctx context.Context, fields []Field) ([]Field, error) {
	if fields == nil {
		return nil, nil
	}
	out := make([]Field, 0, len(fields))
	for i, f := range fields {
		normalized, err := r.Normalize(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, f.ID, err)
		}
		out = append(out, normalized)
	}
	return out, nil
}

// OptionLabel delegates to the field's type.
func (r *Registry) OptionLabel(ctx context.Context, f Field, value string) (string, error) {
	t, err := r.Get(f.Type)
	if err != nil {
		return "", err
	}
	return t.OptionLabel(ctx, f, value), nil
}

func normalizeTypeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
