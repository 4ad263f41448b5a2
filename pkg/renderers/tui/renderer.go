package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-metabox/pkg/field"
	"github.com/goliatone/go-metabox/pkg/metabox"
	"github.com/goliatone/go-metabox/pkg/render"
)

// Renderer implements render.Renderer for terminal-driven sessions. It asks
// for a value per field and serializes the answers.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	text              *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
		text:         bluemonday.StrictPolicy(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field of box in order and returns the collected
// values keyed by field id.
func (r *Renderer) Render(ctx context.Context, box metabox.Box, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	state := NewState(opts.Values)
	if box.Title != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+box.Title); err != nil {
			return nil, err
		}
	}
	for _, f := range box.Fields {
		if err := r.promptField(ctx, f, state, opts); err != nil {
			return nil, err
		}
	}

	values := state.Values()
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, f field.Field, state *State, opts render.RenderOptions) error {
	if f.FieldType == "" {
		return r.promptString(ctx, f, state)
	}
	if len(f.Options) == 0 {
		return r.driver.Info(ctx, fmt.Sprintf("%s%s: no options available", r.theme.InfoPrefix, displayLabel(f)))
	}
	if f.Multiple {
		return r.promptMulti(ctx, f, state, opts)
	}
	return r.promptSingle(ctx, f, state, opts)
}

func (r *Renderer) promptString(ctx context.Context, f field.Field, state *State) error {
	defaultVal := ""
	if current := state.Strings(f.ID); len(current) > 0 {
		defaultVal = current[0]
	} else if std := (render.RenderOptions{}).Selected(f); len(std) > 0 {
		defaultVal = std[0]
	}

	var validator func(string) error
	if f.Required {
		validator = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("required")
			}
			return nil
		}
	}
	value, err := r.driver.Input(ctx, InputConfig{
		Message:   displayLabel(f),
		Default:   defaultVal,
		Help:      f.Description,
		Validator: validator,
	})
	if err != nil {
		return err
	}
	state.Set(f.ID, value)
	return nil
}

func (r *Renderer) promptSingle(ctx context.Context, f field.Field, state *State, opts render.RenderOptions) error {
	labels, values := choiceLabels(f)
	// The placeholder doubles as the "no selection" entry.
	if f.Placeholder != "" && !f.Required {
		labels = append([]string{f.Placeholder}, labels...)
		values = append([]string{""}, values...)
	}

	defaultIdx := -1
	if current := currentValues(f, state); len(current) > 0 {
		defaultIdx = indexOf(values, current[0])
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(f),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         f.Description,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(values) {
			_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s selection", r.theme.InfoPrefix, f.ID))
			continue
		}
		selected := values[idx]
		if f.Required && selected == "" {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%s is required", r.theme.InfoPrefix, displayLabel(f)))
			continue
		}
		state.Set(f.ID, selected)
		return r.preview(ctx, f, []string{selected}, opts)
	}
}

func (r *Renderer) promptMulti(ctx context.Context, f field.Field, state *State, opts render.RenderOptions) error {
	labels, values := choiceLabels(f)
	defaults := indicesOf(values, currentValues(f, state))

	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  displayLabel(f),
			Options:  labels,
			Defaults: defaults,
			Help:     f.Description,
		})
		if err != nil {
			return err
		}
		selected := valuesFromIndices(values, indices)
		if f.Required && len(selected) == 0 {
			_ = r.driver.Info(ctx, fmt.Sprintf("%s%s is required", r.theme.InfoPrefix, displayLabel(f)))
			continue
		}
		state.Set(f.ID, toAnySlice(selected))
		return r.preview(ctx, f, selected, opts)
	}
}

// preview prints the option label of each selected value when it carries
// more than the option's own label, such as a rendered sidebar.
func (r *Renderer) preview(ctx context.Context, f field.Field, selected []string, opts render.RenderOptions) error {
	if opts.Labeler == nil {
		return nil
	}
	for _, value := range selected {
		if value == "" {
			continue
		}
		label, err := opts.Labeler.OptionLabel(ctx, f, value)
		if err != nil {
			return fmt.Errorf("tui: preview %s: %w", f.ID, err)
		}
		if opt, ok := f.Options.Get(value); ok && opt.Label == label {
			continue
		}
		text := collapseSpace(r.text.Sanitize(label))
		if text == "" {
			continue
		}
		if err := r.driver.Info(ctx, r.theme.PreviewPrefix+text); err != nil {
			return err
		}
	}
	return nil
}

func currentValues(f field.Field, state *State) []string {
	if current := state.Strings(f.ID); len(current) > 0 {
		return current
	}
	return render.RenderOptions{}.Selected(f)
}

func choiceLabels(f field.Field) (labels, values []string) {
	labels = make([]string, 0, len(f.Options))
	values = make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		if opt.Disabled {
			continue
		}
		label := opt.Label
		if !f.Flatten {
			label = strings.Repeat("  ", f.Options.Depth(opt.Value)) + label
		}
		labels = append(labels, label)
		values = append(values, opt.Value)
	}
	return labels, values
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(f field.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

func valuesFromIndices(options []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	for key, val := range values {
		switch v := val.(type) {
		case []any:
			for _, item := range v {
				flattened.Add(key+"[]", fmt.Sprint(item))
			}
		case []string:
			for _, item := range v {
				flattened.Add(key+"[]", item)
			}
		default:
			flattened.Set(key, fmt.Sprint(v))
		}
	}
	return flattened.Encode()
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		switch v := values[key].(type) {
		case []any:
			for idx, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%v\n", key, idx, item)
			}
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
