package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/conduit/pkg/pipeline/measure"
	"github.com/askiada/conduit/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.RootStepName)
	if err != nil {
		return errors.Wrap(err, "unable to add root step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStep(parentSteps []*model.StepInfo, step *model.StepInfo) error {
	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}

	for _, parent := range parentSteps {
		err := pd.AddStep(parent.Name)
		if err != nil {
			return err
		}

		err = pd.AddLink(parent.Name, step.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (pd *pipelineDrawer) OnStepOutput(*model.StepInfo, model.Mode, time.Duration) error {
	return nil
}

// Finish draws the graph after every run, with timings when a measure is attached.
func (pd *pipelineDrawer) Finish(_ model.Mode, totalDuration time.Duration) error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}

		err = pd.SetTotalTime(model.RootStepName, totalDuration)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the pipeline with drawer. measure can be nil; when set, it must
// also be attached to the pipeline with measure.PipelineMeasure, before the drawer.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{drawer, measure}
}
