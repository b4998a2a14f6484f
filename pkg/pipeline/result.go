package pipeline

import "github.com/askiada/conduit/pkg/table"

// Result is the output of a step or a pipeline run: either a single value or several.
type Result struct {
	data     []table.Tabular
	multiple bool
}

// Single wraps one value.
func Single(data table.Tabular) Result {
	return Result{data: []table.Tabular{data}}
}

// Multiple wraps any number of values, even one, and keeps them as a sequence.
func Multiple(data ...table.Tabular) Result {
	cp := make([]table.Tabular, len(data))
	copy(cp, data)

	return Result{data: cp, multiple: true}
}

// IsMultiple reports whether the result was built with Multiple.
func (r Result) IsMultiple() bool {
	return r.multiple
}

// Len returns the number of values.
func (r Result) Len() int {
	return len(r.data)
}

// Data returns the first value, nil if the result is empty.
func (r Result) Data() table.Tabular {
	if len(r.data) == 0 {
		return nil
	}

	return r.data[0]
}

// Frame returns the first value as a frame.
func (r Result) Frame() (*table.Frame, bool) {
	f, ok := r.Data().(*table.Frame)

	return f, ok
}

// All returns every value.
func (r Result) All() []table.Tabular {
	cp := make([]table.Tabular, len(r.data))
	copy(cp, r.data)

	return cp
}

func resultOf(data []table.Tabular) Result {
	if len(data) == 1 {
		return Single(data[0])
	}

	return Multiple(data...)
}
