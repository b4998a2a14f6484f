package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/conduit/internal/store"
	"github.com/askiada/conduit/pkg/pipeline/model"
)

// plan is the dependency graph of the registered steps and the order it resolves to.
type plan struct {
	store *store.StepStore[*step]
	graph graph.Graph[string, *step]
	order []*step
}

func stepHash(s *step) string {
	return s.name
}

var rootStep = &step{name: model.RootStepName, index: model.RootStep.Index}

// currentPlan returns the plan of the registered steps, building it if the registry changed.
func (p *Pipeline) currentPlan() (*plan, error) {
	if p.plan != nil {
		return p.plan, nil
	}

	pl, err := p.buildPlan()
	if err != nil {
		return nil, err
	}

	err = p.prepareSteps(pl)
	if err != nil {
		return nil, err
	}

	p.plan = pl

	return pl, nil
}

func (p *Pipeline) buildPlan() (*plan, error) {
	pl := &plan{store: store.NewStepStore[*step]()}
	pl.graph = graph.NewWithStore(stepHash, graph.Store[string, *step](pl.store),
		graph.Directed(), graph.Acyclic(), graph.PreventCycles())

	err := pl.graph.AddVertex(rootStep)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add root step")
	}

	for _, name := range p.order {
		s := p.steps[name]
		if s.fn == nil {
			return nil, errors.Wrapf(ErrStepFnMustBeSet, "step %q", name)
		}

		if name == model.RootStepName {
			return nil, errors.Wrapf(ErrReservedStepName, "step %q", name)
		}

		err := pl.graph.AddVertex(s)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add step %s", name)
		}
	}

	for _, name := range p.order {
		err := pl.addLinks(p.steps[name])
		if err != nil {
			return nil, err
		}
	}

	err = pl.sort()
	if err != nil {
		return nil, err
	}

	return pl, nil
}

func (pl *plan) addLinks(s *step) error {
	if len(s.dependencies) == 0 {
		err := pl.graph.AddEdge(model.RootStepName, s.name)
		if err != nil {
			return errors.Wrapf(err, "unable to link %s to root", s.name)
		}

		return nil
	}

	for _, dep := range s.dependencies {
		err := pl.graph.AddEdge(dep, s.name)

		switch {
		case err == nil:
		case errors.Is(err, graph.ErrVertexNotFound):
			return &DependencyError{Kind: ErrUnknownDependency, Step: s.name, Dependency: dep}
		case errors.Is(err, graph.ErrEdgeAlreadyExists):
			return &DependencyError{Kind: ErrDuplicateDependency, Step: s.name, Dependency: dep}
		case errors.Is(err, graph.ErrEdgeCreatesCycle):
			return &DependencyError{Kind: ErrCyclicDependency, Step: s.name, Dependency: dep}
		default:
			return errors.Wrapf(err, "unable to link %s to %s", dep, s.name)
		}
	}

	return nil
}

// sort resolves the execution order with Kahn's algorithm, ties broken by registration order.
func (pl *plan) sort() error {
	names, err := graph.StableTopologicalSort(pl.graph, func(a, b string) bool {
		return pl.index(a) < pl.index(b)
	})
	if err != nil {
		return errors.Wrap(err, "unable to sort steps")
	}

	pl.order = make([]*step, 0, len(names))

	for _, name := range names {
		if name == model.RootStepName {
			continue
		}

		s, err := pl.graph.Vertex(name)
		if err != nil {
			return errors.Wrapf(err, "unable to get step %s", name)
		}

		pl.order = append(pl.order, s)
	}

	return nil
}

func (pl *plan) index(name string) int {
	s, _, err := pl.store.Vertex(name)
	if err != nil {
		return model.RootStep.Index
	}

	return s.index
}

func (pl *plan) parents(name string) []*model.StepInfo {
	deps := pl.store.Dependencies(name)
	parents := make([]*model.StepInfo, 0, len(deps))

	for _, dep := range deps {
		if dep == model.RootStepName {
			parents = append(parents, model.RootStep)

			continue
		}

		s, _, err := pl.store.Vertex(dep)
		if err != nil {
			continue
		}

		parents = append(parents, s.info())
	}

	return parents
}

func (p *Pipeline) prepareSteps(pl *plan) error {
	for _, s := range pl.order {
		for _, opt := range p.opts {
			err := opt.PrepareStep(pl.parents(s.name), s.info())
			if err != nil {
				return errors.Wrapf(err, "unable to prepare step %s", s.name)
			}
		}
	}

	return nil
}

// Order returns the step names in the order a run executes them.
func (p *Pipeline) Order() ([]string, error) {
	pl, err := p.currentPlan()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(pl.order))
	for i, s := range pl.order {
		names[i] = s.name
	}

	return names, nil
}
