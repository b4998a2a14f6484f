package measure

import (
	"time"

	"github.com/askiada/conduit/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	pm.AddMetric(model.RootStepName)

	return nil
}

func (pm *pipelineMeasure) PrepareStep(_ []*model.StepInfo, step *model.StepInfo) error {
	pm.AddMetric(step.Name)

	return nil
}

func (pm *pipelineMeasure) OnStepOutput(step *model.StepInfo, _ model.Mode, computationDuration time.Duration) error {
	pm.AddMetric(step.Name).AddDuration(computationDuration)

	return nil
}

// Finish records the run as an execution of the root step.
func (pm *pipelineMeasure) Finish(_ model.Mode, totalDuration time.Duration) error {
	mt := pm.AddMetric(model.RootStepName)
	mt.AddDuration(totalDuration)
	mt.SetTotalDuration(mt.GetTotalDuration() + totalDuration)

	return nil
}

// PipelineMeasure records step durations into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
