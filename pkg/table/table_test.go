package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/conduit/pkg/table"
)

func newTestFrame(t *testing.T) *table.Frame {
	t.Helper()

	frame, err := table.NewFrame(
		table.NewSeries("A", 10, 20, 30),
		table.NewSeries("B", -1.0, -0.8, -0.6),
	)
	require.NoError(t, err)

	return frame
}

func TestNewFrame(t *testing.T) {
	t.Parallel()

	frame := newTestFrame(t)
	assert.Equal(t, []string{"A", "B"}, frame.Columns())
	assert.Equal(t, 3, frame.Len())

	col, err := frame.Column("A")
	require.NoError(t, err)
	assert.Equal(t, 20, col.At(1))
}

func TestNewFrameErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		columns []*table.Series
		err     error
	}{
		"duplicate": {
			columns: []*table.Series{table.NewSeries("A", 1), table.NewSeries("A", 2)},
			err:     table.ErrDuplicateName,
		},
		"length mismatch": {
			columns: []*table.Series{table.NewSeries("A", 1), table.NewSeries("B", 1, 2)},
			err:     table.ErrLengthMismatch,
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := table.NewFrame(tc.columns...)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestFrameColumnNotFound(t *testing.T) {
	t.Parallel()

	_, err := newTestFrame(t).Column("missing")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

func TestFrameSetColumn(t *testing.T) {
	t.Parallel()

	frame := newTestFrame(t)
	require.NoError(t, frame.SetColumn(table.NewSeries("C", "x", "y", "z")))
	require.NoError(t, frame.SetColumn(table.NewSeries("A", 1, 2, 3)))

	assert.Equal(t, []string{"A", "B", "C"}, frame.Columns())
	col, err := frame.Column("A")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, col.Values)

	err = frame.SetColumn(table.NewSeries("D", 1))
	assert.ErrorIs(t, err, table.ErrLengthMismatch)
}

func TestFrameCopyIsDeep(t *testing.T) {
	t.Parallel()

	frame := newTestFrame(t)
	cp, ok := frame.Copy().(*table.Frame)
	require.True(t, ok)

	col, err := cp.Column("A")
	require.NoError(t, err)
	col.Values[0] = 1000
	require.NoError(t, cp.SetColumn(table.NewSeries("C", 1, 2, 3)))

	orig, err := frame.Column("A")
	require.NoError(t, err)
	assert.Equal(t, 10, orig.At(0))
	assert.False(t, frame.HasColumn("C"))
}

func TestFrameRenameColumns(t *testing.T) {
	t.Parallel()

	frame := newTestFrame(t)
	require.NoError(t, frame.RenameColumns(map[string]string{"A": "a", "missing": "x"}))
	assert.Equal(t, []string{"a", "B"}, frame.Columns())

	col, err := frame.Column("a")
	require.NoError(t, err)
	assert.Equal(t, "a", col.Name)

	err = frame.RenameColumns(map[string]string{"a": "B"})
	assert.ErrorIs(t, err, table.ErrDuplicateName)
}

func TestSeriesMap(t *testing.T) {
	t.Parallel()

	s := table.NewSeries("A", 1, 2, 3)
	doubled := s.Map(func(v any) any { return v.(int) * 2 })

	assert.Equal(t, []any{2, 4, 6}, doubled.Values)
	assert.Equal(t, []any{1, 2, 3}, s.Values)
}
