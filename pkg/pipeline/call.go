package pipeline

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/conduit/pkg/pipeline/artifact"
	"github.com/askiada/conduit/pkg/pipeline/model"
)

// Hyperparams are caller supplied keyword parameters of a run.
type Hyperparams map[string]any

// Call is what a step sees of the run invoking it. Mode flags and hyperparameters are
// only visible when the step declared them at registration.
type Call struct {
	step        string
	mode        model.Mode
	params      Params
	hyperparams Hyperparams
	pipe        *Pipeline
}

func newCall(pipe *Pipeline, s *step, mode model.Mode, hyperparams Hyperparams) *Call {
	resolved := make(Hyperparams, len(s.params.Hyperparams))
	for name, value := range s.params.Hyperparams {
		resolved[name] = value
	}

	for name, value := range hyperparams {
		if _, declared := s.params.Hyperparams[name]; declared || s.params.AnyHyperparams {
			resolved[name] = value
		}
	}

	return &Call{
		step:        s.name,
		mode:        mode,
		params:      s.params,
		hyperparams: resolved,
		pipe:        pipe,
	}
}

// Step returns the name of the running step.
func (c *Call) Step() string {
	return c.step
}

// Fit reports whether the step should fit its state. Always false if the step did not declare AcceptsFit.
func (c *Call) Fit() bool {
	return c.params.Fit && c.mode.Fit()
}

// Transform reports whether the step should apply its state. Always false if the step did not
// declare AcceptsTransform.
func (c *Call) Transform() bool {
	return c.params.Transform && c.mode.Transform()
}

// Hyperparam returns the value of a hyperparameter passed to the step.
func (c *Call) Hyperparam(name string) (any, bool) {
	v, ok := c.hyperparams[name]

	return v, ok
}

// Hyperparams returns a copy of every hyperparameter passed to the step.
func (c *Call) Hyperparams() Hyperparams {
	cp := make(Hyperparams, len(c.hyperparams))
	for k, v := range c.hyperparams {
		cp[k] = v
	}

	return cp
}

// Pipeline returns the pipeline running the step.
func (c *Call) Pipeline() *Pipeline {
	return c.pipe
}

// Artifacts returns the artifact store of the pipeline running the step.
func (c *Call) Artifacts() *artifact.Store {
	return c.pipe.artifacts
}

// Logger returns the pipeline logger annotated with the step name.
func (c *Call) Logger() *slog.Logger {
	return c.pipe.logger.With("step", c.step)
}

// HyperparamAs returns the hyperparameter name as a T.
func HyperparamAs[T any](c *Call, name string) (T, error) {
	var zero T

	v, ok := c.Hyperparam(name)
	if !ok {
		return zero, errors.Wrapf(ErrUnknownHyperparam, "step %s: %s", c.step, name)
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errors.Wrapf(ErrHyperparamType, "step %s: %s is %T, not %T", c.step, name, v, zero)
	}

	return typed, nil
}
