package model

type stepType string

const (
	RootStepType   stepType = "root"
	NormalStepType stepType = "step"
)

// RootStepName is the name of the sentinel step every dependency-free step hangs from.
const RootStepName = "root"

// StepInfo describes a step to pipeline options.
type StepInfo struct {
	Type         stepType
	Name         string
	Dependencies []string
	// Index is the registration position of the step, -1 for the root step.
	Index int
}

// RootStep is the sentinel step at the top of every dependency graph.
var RootStep = &StepInfo{Type: RootStepType, Name: RootStepName, Index: -1}

// Mode is the execution mode of a pipeline run.
type Mode string

const (
	ModeFit          Mode = "fit"
	ModeTransform    Mode = "transform"
	ModeFitTransform Mode = "fit_transform"
)

// Fit reports whether steps fit their state in this mode.
func (m Mode) Fit() bool {
	return m == ModeFit || m == ModeFitTransform
}

// Transform reports whether steps apply their state in this mode.
func (m Mode) Transform() bool {
	return m == ModeTransform || m == ModeFitTransform
}

func (m Mode) String() string {
	return string(m)
}
