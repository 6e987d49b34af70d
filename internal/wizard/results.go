package wizard

// Results is the append-only, ordered record of completed steps. Steps receive
// a snapshot and cannot observe results recorded after they run.
type Results struct {
	names  []string
	values map[string]any
}

func (r *Results) record(name string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.names = append(r.names, name)
	r.values[name] = value
}

func (r Results) snapshot() Results {
	values := make(map[string]any, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return Results{names: append([]string(nil), r.names...), values: values}
}

// Get returns the result of a completed step.
func (r Results) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the completed step names in completion order. The slice is
// never nil.
func (r Results) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Value returns the named result converted to T. It reports false when the step
// has not run or produced a value of another type.
func Value[T any](r Results, name string) (T, bool) {
	v, ok := r.Get(name)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
