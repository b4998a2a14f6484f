package pipeline

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/conduit/pkg/pipeline/model"
	"github.com/askiada/conduit/pkg/table"
)

// Mode is the execution mode of a run.
type Mode = model.Mode

const (
	ModeFit          = model.ModeFit
	ModeTransform    = model.ModeTransform
	ModeFitTransform = model.ModeFitTransform
)

var acceptedInputTypes = []string{"table.Tabular", "*table.Frame", "*table.Series"}

// Fit runs every step in fit mode. Steps store what they learn as artifacts.
// Use Run with ModeFit to pass hyperparameters.
func (p *Pipeline) Fit(ctx context.Context, data ...any) (*Pipeline, error) {
	_, err := p.Run(ctx, ModeFit, nil, data...)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Transform runs every step in transform mode and returns the output of the last one.
// Use Run with ModeTransform to pass hyperparameters.
func (p *Pipeline) Transform(ctx context.Context, data ...any) (Result, error) {
	return p.Run(ctx, ModeTransform, nil, data...)
}

// FitTransform runs every step once with both mode flags set.
// Use Run with ModeFitTransform to pass hyperparameters.
func (p *Pipeline) FitTransform(ctx context.Context, data ...any) (Result, error) {
	return p.Run(ctx, ModeFitTransform, nil, data...)
}

// Run executes every step once, in dependency order, and returns the output of the last one.
// The data arguments are copied first and are never modified.
// A failing step stops the run; artifacts written by earlier steps are kept.
func (p *Pipeline) Run(ctx context.Context, mode Mode, hyperparams Hyperparams, data ...any) (Result, error) {
	input, err := tabularInputs(data)
	if err != nil {
		return Result{}, err
	}

	pl, err := p.currentPlan()
	if err != nil {
		return Result{}, err
	}

	p.logger.DebugContext(ctx, "running pipeline", "mode", mode, "steps", len(pl.order))

	start := time.Now()
	current := resultOf(input)
	executed := make(map[string]struct{}, len(pl.order))

	for _, s := range pl.order {
		if _, ok := executed[s.name]; ok {
			continue
		}

		executed[s.name] = struct{}{}

		current, err = p.runStep(ctx, s, mode, hyperparams, current)
		if err != nil {
			return Result{}, err
		}
	}

	for _, opt := range p.opts {
		err := opt.Finish(mode, time.Since(start))
		if err != nil {
			return Result{}, errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return current, nil
}

func (p *Pipeline) runStep(ctx context.Context, s *step, mode Mode, hyperparams Hyperparams, input Result) (Result, error) {
	err := ctx.Err()
	if err != nil {
		return Result{}, errors.Wrapf(err, "before step %s", s.name)
	}

	p.logger.Log(ctx, p.stepLevel, "executing step", "step", s.name, "mode", mode)

	startFn := time.Now()

	out, err := s.fn(ctx, newCall(p, s, mode, hyperparams), input.data...)
	if err != nil {
		return Result{}, &StepError{Step: s.name, Err: err}
	}

	endFn := time.Since(startFn)

	if out.Len() == 0 {
		return Result{}, &StepError{Step: s.name, Err: ErrEmptyResult}
	}

	for i, d := range out.data {
		if d == nil || isNilPointer(d) {
			return Result{}, &StepError{Step: s.name, Err: errors.Wrapf(ErrEmptyResult, "value %d is nil", i)}
		}
	}

	info := s.info()
	for _, opt := range p.opts {
		err := opt.OnStepOutput(info, mode, endFn)
		if err != nil {
			return Result{}, errors.Wrapf(err, "unable to run step option for %s", s.name)
		}
	}

	return out, nil
}

// AsStep returns a step function running the pipeline, so it can be nested in another one.
// Register it with AcceptsModes to forward the outer mode, otherwise it always transforms.
func (p *Pipeline) AsStep() StepFunc {
	return func(ctx context.Context, call *Call, data ...table.Tabular) (Result, error) {
		if p == nil {
			return Result{}, ErrPipelineMustBeSet
		}

		mode := ModeTransform

		switch {
		case call.Fit() && call.Transform():
			mode = ModeFitTransform
		case call.Fit():
			mode = ModeFit
		}

		args := make([]any, len(data))
		for i, d := range data {
			args[i] = d
		}

		return p.Run(ctx, mode, call.Hyperparams(), args...)
	}
}

func tabularInputs(data []any) ([]table.Tabular, error) {
	if len(data) == 0 {
		return nil, ErrInputMustBeSet
	}

	input := make([]table.Tabular, len(data))

	for i, d := range data {
		tab, ok := d.(table.Tabular)
		if !ok || isNilPointer(tab) {
			return nil, &InvalidInputTypeError{
				Position: i,
				Got:      fmt.Sprintf("%T", d),
				Accepted: acceptedInputTypes,
			}
		}

		input[i] = tab.Copy()
	}

	return input, nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Ptr && rv.IsNil()
}
