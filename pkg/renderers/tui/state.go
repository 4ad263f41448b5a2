package tui

// State tracks collected values keyed by field id.
type State struct {
	values map[string]any
}

// NewState seeds the state with prefilled values.
func NewState(prefill map[string]any) *State {
	return &State{values: cloneValues(prefill)}
}

// Values returns the current value map (mutable).
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// Strings returns the string values stored for id. Single values become a
// one element slice.
func (s *State) Strings(id string) []string {
	if s == nil {
		return nil
	}
	switch v := s.values[id].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// Set stores value for id.
func (s *State) Set(id string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[id] = value
}

func cloneValues(src map[string]any) map[string]any {
	if len(src) == 0 {
		return make(map[string]any)
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
