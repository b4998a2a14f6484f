// Package table provides the tabular values carried between pipeline steps.
//
// A Frame is an ordered set of equally sized named columns, a Series is a single named column.
// Both implement Tabular, the capability the pipeline requires from every data argument:
// they can be copied before a run and report their number of rows.
package table

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrLengthMismatch = errors.New("column length mismatch")
	ErrDuplicateName  = errors.New("duplicate column name")
)

// Tabular is implemented by values that can flow through a pipeline.
type Tabular interface {
	// Copy returns a deep copy that shares no mutable state with the receiver.
	Copy() Tabular
	// Len returns the number of rows.
	Len() int
}

// Series is a named column of values.
type Series struct {
	Name   string
	Values []any
}

// NewSeries creates a series holding values.
func NewSeries(name string, values ...any) *Series {
	vals := make([]any, len(values))
	copy(vals, values)

	return &Series{Name: name, Values: vals}
}

// Len returns the number of values in the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// At returns the value at position i.
func (s *Series) At(i int) any {
	return s.Values[i]
}

// Map returns a new series with fn applied to every value.
func (s *Series) Map(fn func(v any) any) *Series {
	out := &Series{Name: s.Name, Values: make([]any, len(s.Values))}
	for i, v := range s.Values {
		out.Values[i] = fn(v)
	}

	return out
}

// Clone returns a copy of the series.
func (s *Series) Clone() *Series {
	return NewSeries(s.Name, s.Values...)
}

// Copy implements Tabular.
func (s *Series) Copy() Tabular {
	return s.Clone()
}

// Frame is an ordered collection of columns sharing the same length.
type Frame struct {
	names   []string
	columns map[string]*Series
}

// NewFrame creates a frame from the given columns, in order.
func NewFrame(columns ...*Series) (*Frame, error) {
	f := &Frame{columns: make(map[string]*Series, len(columns))}
	for _, col := range columns {
		if _, ok := f.columns[col.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateName, col.Name)
		}

		err := f.SetColumn(col)
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.names) == 0 {
		return 0
	}

	return f.columns[f.names[0]].Len()
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)

	return names
}

// HasColumn reports whether the frame has a column called name.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.columns[name]

	return ok
}

// Column returns the column called name. The returned series is shared with the frame.
func (f *Frame) Column(name string) (*Series, error) {
	col, ok := f.columns[name]
	if !ok {
		return nil, errors.Wrap(ErrColumnNotFound, name)
	}

	return col, nil
}

// SetColumn adds col to the frame, replacing any column with the same name.
func (f *Frame) SetColumn(col *Series) error {
	_, replacing := f.columns[col.Name]
	onlyColumn := replacing && len(f.names) == 1

	if len(f.names) > 0 && !onlyColumn && col.Len() != f.Len() {
		return errors.Wrapf(ErrLengthMismatch, "column %s has %d rows, frame has %d", col.Name, col.Len(), f.Len())
	}

	if f.columns == nil {
		f.columns = make(map[string]*Series)
	}

	if !replacing {
		f.names = append(f.names, col.Name)
	}

	f.columns[col.Name] = col

	return nil
}

// RenameColumns renames the columns listed in mapping. Names missing from the frame are ignored.
func (f *Frame) RenameColumns(mapping map[string]string) error {
	renamed := make(map[string]*Series, len(f.columns))
	names := make([]string, len(f.names))

	for i, name := range f.names {
		col := f.columns[name]
		if to, ok := mapping[name]; ok {
			name = to
			col = &Series{Name: to, Values: col.Values}
		}

		if _, ok := renamed[name]; ok {
			return errors.Wrap(ErrDuplicateName, name)
		}

		renamed[name] = col
		names[i] = name
	}

	f.names = names
	f.columns = renamed

	return nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		names:   make([]string, len(f.names)),
		columns: make(map[string]*Series, len(f.columns)),
	}
	copy(out.names, f.names)

	for name, col := range f.columns {
		out.columns[name] = col.Clone()
	}

	return out
}

// Copy implements Tabular.
func (f *Frame) Copy() Tabular {
	return f.Clone()
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame%v[%d rows]", f.names, f.Len())
}

var (
	_ Tabular = (*Frame)(nil)
	_ Tabular = (*Series)(nil)
)
