package pipeline_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/askiada/conduit/pkg/pipeline"
	"github.com/askiada/conduit/pkg/table"
)

var errNotAFrame = errors.New("expected a frame")

func createInputFrame(t *testing.T) *table.Frame {
	t.Helper()

	a := make([]any, 0, 9)
	b := make([]any, 0, 9)

	for i := 0; i < 9; i++ {
		a = append(a, 10*(i+1))
		b = append(b, -1+0.2*float64(i))
	}

	frame, err := table.NewFrame(table.NewSeries("A", a...), table.NewSeries("B", b...))
	require.NoError(t, err)

	return frame
}

func outputFrame(t *testing.T, res pipeline.Result) *table.Frame {
	t.Helper()

	frame, ok := res.Frame()
	require.True(t, ok, "result is not a frame")

	return frame
}

func columnValues(t *testing.T, frame *table.Frame, name string) []any {
	t.Helper()

	col, err := frame.Column(name)
	require.NoError(t, err)

	return col.Values
}

func firstFrame(data []table.Tabular) (*table.Frame, error) {
	if len(data) == 0 {
		return nil, errNotAFrame
	}

	frame, ok := data[0].(*table.Frame)
	if !ok {
		return nil, errNotAFrame
	}

	return frame, nil
}

// setColumn returns a step writing value in every row of the column name.
func setColumn(name string, value any) pipeline.StepFunc {
	return func(_ context.Context, _ *pipeline.Call, data ...table.Tabular) (pipeline.Result, error) {
		frame, err := firstFrame(data)
		if err != nil {
			return pipeline.Result{}, err
		}

		values := make([]any, frame.Len())
		for i := range values {
			values[i] = value
		}

		err = frame.SetColumn(table.NewSeries(name, values...))
		if err != nil {
			return pipeline.Result{}, err
		}

		return pipeline.Single(frame), nil
	}
}

func appendString(data []table.Tabular, suffix string) (pipeline.Result, error) {
	frame, err := firstFrame(data)
	if err != nil {
		return pipeline.Result{}, err
	}

	col, err := frame.Column("string")
	if err != nil {
		col = table.NewSeries("string", make([]any, frame.Len())...)
		for i := range col.Values {
			col.Values[i] = ""
		}
	}

	err = frame.SetColumn(col.Map(func(v any) any { return v.(string) + suffix }))
	if err != nil {
		return pipeline.Result{}, err
	}

	return pipeline.Single(frame), nil
}

func base(_ context.Context, _ *pipeline.Call, data ...table.Tabular) (pipeline.Result, error) {
	return appendString(data, ".")
}

func A(_ context.Context, _ *pipeline.Call, data ...table.Tabular) (pipeline.Result, error) {
	return appendString(data, "A")
}

func B(_ context.Context, _ *pipeline.Call, data ...table.Tabular) (pipeline.Result, error) {
	return appendString(data, "B")
}

func C(_ context.Context, _ *pipeline.Call, data ...table.Tabular) (pipeline.Result, error) {
	return appendString(data, "C")
}
