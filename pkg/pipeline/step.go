package pipeline

import (
	"context"
	"reflect"
	"runtime"
	"strings"

	"github.com/askiada/conduit/pkg/pipeline/model"
	"github.com/askiada/conduit/pkg/table"
)

// StepFunc is the body of a step. It receives the output of the previous step, or the
// pipeline input for the first one, and returns the data handed to the next step.
type StepFunc func(ctx context.Context, call *Call, data ...table.Tabular) (Result, error)

// Params declares the optional parameters a step accepts.
type Params struct {
	// Fit and Transform request the matching mode flags.
	Fit, Transform bool
	// Hyperparams lists the accepted hyperparameters with their default values.
	Hyperparams map[string]any
	// AnyHyperparams accepts every caller supplied hyperparameter, declared or not.
	AnyHyperparams bool
}

type step struct {
	name         string
	fn           StepFunc
	dependencies []string
	params       Params
	index        int
}

func (s *step) info() *model.StepInfo {
	deps := make([]string, len(s.dependencies))
	copy(deps, s.dependencies)

	return &model.StepInfo{
		Type:         model.NormalStepType,
		Name:         s.name,
		Dependencies: deps,
		Index:        s.index,
	}
}

// StepOption configures a step at registration.
type StepOption func(s *step)

// Named sets the step name instead of deriving it from the function.
func Named(name string) StepOption {
	return func(s *step) {
		s.name = name
	}
}

// DependsOn declares the steps that must run before this one.
func DependsOn(names ...string) StepOption {
	return func(s *step) {
		s.dependencies = append(s.dependencies, names...)
	}
}

// AcceptsFit makes the fit flag available to the step.
func AcceptsFit() StepOption {
	return func(s *step) {
		s.params.Fit = true
	}
}

// AcceptsTransform makes the transform flag available to the step.
func AcceptsTransform() StepOption {
	return func(s *step) {
		s.params.Transform = true
	}
}

// AcceptsModes makes both mode flags available to the step.
func AcceptsModes() StepOption {
	return func(s *step) {
		s.params.Fit = true
		s.params.Transform = true
	}
}

// Hyperparam declares a hyperparameter and its default value.
func Hyperparam(name string, defaultValue any) StepOption {
	return func(s *step) {
		if s.params.Hyperparams == nil {
			s.params.Hyperparams = make(map[string]any)
		}

		s.params.Hyperparams[name] = defaultValue
	}
}

// AcceptsAnyHyperparams passes every caller supplied hyperparameter to the step.
func AcceptsAnyHyperparams() StepOption {
	return func(s *step) {
		s.params.AnyHyperparams = true
	}
}

// AddStep registers fn. The step is named after the function unless Named is given.
// Registering a name twice replaces the first step but keeps its position.
// Dependencies are checked when the pipeline runs, so steps can be added in any order.
func (p *Pipeline) AddStep(fn StepFunc, opts ...StepOption) *Pipeline {
	s := &step{
		name: funcName(fn),
		fn:   fn,
	}
	for _, opt := range opts {
		opt(s)
	}

	if prev, ok := p.steps[s.name]; ok {
		s.index = prev.index
	} else {
		s.index = len(p.order)
		p.order = append(p.order, s.name)
	}

	p.steps[s.name] = s
	p.plan = nil

	return p
}

// Register returns a function registering its argument like AddStep, and returning it unchanged:
//
//	var scale = pipe.Register(pipeline.DependsOn("clean"))(func(...) (pipeline.Result, error) { ... })
func (p *Pipeline) Register(opts ...StepOption) func(fn StepFunc) StepFunc {
	return func(fn StepFunc) StepFunc {
		p.AddStep(fn, opts...)

		return fn
	}
}

// Steps returns the registered step names in registration order.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)

	return names
}

func funcName(fn StepFunc) string {
	if fn == nil {
		return ""
	}

	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	name = strings.TrimSuffix(name, "-fm")
	// generic instantiations are reported as "name[...]"
	name = strings.ReplaceAll(name, "[...]", "")

	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}

	return name
}
