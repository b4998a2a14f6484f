package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStep runs every time the dependency graph is built, once per step.
	// Parent steps are the step dependencies, or the root step.
	PrepareStep(parentSteps []*StepInfo, step *StepInfo) error
	// OnStepOutput runs after a step returned successfully.
	OnStepOutput(step *StepInfo, mode Mode, computationDuration time.Duration) error
	// Finish runs after every successful run of the pipeline.
	Finish(mode Mode, totalDuration time.Duration) error
}
