package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/conduit/pkg/pipeline"
	"github.com/askiada/conduit/pkg/pipeline/drawer"
	"github.com/askiada/conduit/pkg/pipeline/measure"
	"github.com/askiada/conduit/pkg/pipeline/metrics"
	"github.com/askiada/conduit/pkg/pipeline/model"
)

func TestPipelineWithMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()

	pipe, err := pipeline.New(pipeline.PipelineOptions(measure.PipelineMeasure(msr)))
	require.NoError(t, err)

	pipe.AddStep(base).
		AddStep(A, pipeline.DependsOn("base"))

	_, err = pipe.Fit(context.Background(), createInputFrame(t))
	require.NoError(t, err)

	_, err = pipe.Transform(context.Background(), createInputFrame(t))
	require.NoError(t, err)

	for _, name := range []string{"base", "A", model.RootStepName} {
		mt := msr.GetMetric(name)
		require.NotNil(t, mt, name)
		assert.Equal(t, int64(2), mt.Count(), name)
	}

	assert.NotZero(t, msr.GetMetric(model.RootStepName).GetTotalDuration())
}

func TestPipelineWithCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()

	pipe, err := pipeline.New(pipeline.PipelineOptions(metrics.NewCollector(reg)))
	require.NoError(t, err)

	pipe.AddStep(base).
		AddStep(A, pipeline.DependsOn("base"))

	_, err = pipe.FitTransform(context.Background(), createInputFrame(t))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "conduit_step_executions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "conduit_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPipelineWithDrawer(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pipeline.gv")
	msr := measure.NewDefaultMeasure()

	pipe, err := pipeline.New(pipeline.PipelineOptions(
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(path), msr),
	))
	require.NoError(t, err)

	pipe.AddStep(base).
		AddStep(A, pipeline.DependsOn("base")).
		AddStep(B, pipeline.DependsOn("base")).
		AddStep(C, pipeline.DependsOn("A", "B"))

	_, err = pipe.Transform(context.Background(), createInputFrame(t))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	dot := string(content)
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, `"root" -> "base"`)
	assert.Contains(t, dot, `"A" -> "C"`)
	assert.Contains(t, dot, `"B" -> "C"`)
	assert.Contains(t, dot, "total: ")
}
