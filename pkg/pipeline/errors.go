package pipeline

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/conduit/pkg/pipeline/artifact"
)

var (
	ErrPipelineMustBeSet   = errors.New("pipeline must be set")
	ErrInputMustBeSet      = errors.New("input must be set")
	ErrStepFnMustBeSet     = errors.New("step function must be set")
	ErrReservedStepName    = errors.New("step name is reserved")
	ErrEmptyResult         = errors.New("step returned no data")
	ErrInvalidInputType    = errors.New("invalid input type")
	ErrUnknownDependency   = errors.New("unknown dependency")
	ErrDuplicateDependency = errors.New("duplicate dependency")
	ErrCyclicDependency    = errors.New("cyclic dependency")
	ErrUnknownHyperparam   = errors.New("unknown hyperparameter")
	ErrHyperparamType      = errors.New("hyperparameter has the wrong type")

	// ErrKeyNotFound is returned by artifact lookups that miss.
	ErrKeyNotFound = artifact.ErrKeyNotFound
)

// InvalidInputTypeError is returned when a data argument is not tabular.
type InvalidInputTypeError struct {
	Position int
	Got      string
	Accepted []string
}

func (e *InvalidInputTypeError) Error() string {
	return fmt.Sprintf("%s: argument %d is %s, accepted: %s",
		ErrInvalidInputType.Error(), e.Position, e.Got, strings.Join(e.Accepted, ", "))
}

func (e *InvalidInputTypeError) Unwrap() error { return ErrInvalidInputType }

// DependencyError reports a declared dependency the graph cannot honour.
// Kind is one of ErrUnknownDependency, ErrDuplicateDependency or ErrCyclicDependency.
type DependencyError struct {
	Kind       error
	Step       string
	Dependency string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: step %q depends on %q", e.Kind.Error(), e.Step, e.Dependency)
}

func (e *DependencyError) Unwrap() error { return e.Kind }

// StepError wraps the error returned by a step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %s", e.Step, e.Err.Error())
}

func (e *StepError) Unwrap() error { return e.Err }
