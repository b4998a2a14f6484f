// Package store implements the graph.Store backing a pipeline's dependency graph.
package store

import (
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// StepStore keeps steps keyed by name and remembers the order in which they were added,
// so listings are reproducible from one build to the next.
type StepStore[T any] struct {
	lock             sync.RWMutex
	order            []string
	vertices         map[string]T
	vertexProperties map[string]graph.VertexProperties

	// outEdges and inEdges are keyed by step name on both levels for O(1) access.
	outEdges map[string]map[string]graph.Edge[string] // dependency -> dependent
	inEdges  map[string]map[string]graph.Edge[string] // dependent -> dependency
}

// NewStepStore creates an empty store.
func NewStepStore[T any]() *StepStore[T] {
	return &StepStore[T]{
		vertices:         make(map[string]T),
		vertexProperties: make(map[string]graph.VertexProperties),
		outEdges:         make(map[string]map[string]graph.Edge[string]),
		inEdges:          make(map[string]map[string]graph.Edge[string]),
	}
}

func (s *StepStore[T]) AddVertex(name string, step T, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[name]; ok {
		return graph.ErrVertexAlreadyExists
	}

	s.order = append(s.order, name)
	s.vertices[name] = step
	s.vertexProperties[name] = p

	return nil
}

// ListVertices returns the step names in insertion order.
func (s *StepStore[T]) ListVertices() ([]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	names := make([]string, len(s.order))
	copy(names, s.order)

	return names, nil
}

func (s *StepStore[T]) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *StepStore[T]) Vertex(name string) (T, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.vertices[name]
	if !ok {
		return v, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return v, s.vertexProperties[name], nil
}

func (s *StepStore[T]) RemoveVertex(name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[name]; !ok {
		return graph.ErrVertexNotFound
	}

	if len(s.inEdges[name]) > 0 || len(s.outEdges[name]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.inEdges, name)
	delete(s.outEdges, name)
	delete(s.vertices, name)
	delete(s.vertexProperties, name)

	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	return nil
}

func (s *StepStore[T]) AddEdge(dependency, dependent string, edge graph.Edge[string]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[dependency]; !ok {
		s.outEdges[dependency] = make(map[string]graph.Edge[string])
	}

	s.outEdges[dependency][dependent] = edge

	if _, ok := s.inEdges[dependent]; !ok {
		s.inEdges[dependent] = make(map[string]graph.Edge[string])
	}

	s.inEdges[dependent][dependency] = edge

	return nil
}

func (s *StepStore[T]) UpdateEdge(dependency, dependent string, edge graph.Edge[string]) error {
	if _, err := s.Edge(dependency, dependent); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.outEdges[dependency][dependent] = edge
	s.inEdges[dependent][dependency] = edge

	return nil
}

func (s *StepStore[T]) RemoveEdge(dependency, dependent string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.inEdges[dependent], dependency)
	delete(s.outEdges[dependency], dependent)

	return nil
}

func (s *StepStore[T]) Edge(dependency, dependent string) (graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	edge, ok := s.outEdges[dependency][dependent]
	if !ok {
		return graph.Edge[string]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

// ListEdges returns the edges grouped by source, sources and targets in insertion order.
func (s *StepStore[T]) ListEdges() ([]graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[string], 0)

	for _, source := range s.order {
		edges := s.outEdges[source]
		for _, target := range s.order {
			if edge, ok := edges[target]; ok {
				res = append(res, edge)
			}
		}
	}

	return res, nil
}

// Dependencies returns the names with an edge into name, in insertion order.
func (s *StepStore[T]) Dependencies(name string) []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	deps := make([]string, 0, len(s.inEdges[name]))

	for _, n := range s.order {
		if _, ok := s.inEdges[name][n]; ok {
			deps = append(deps, n)
		}
	}

	return deps
}

// CreatesCycle reports whether an edge from source to target would close a cycle, i.e. whether
// target already is source or one of its transitive dependencies. The graph library uses it in
// place of its generic check when cycles are prevented.
func (s *StepStore[T]) CreatesCycle(source, target string) (bool, error) {
	if _, _, err := s.Vertex(source); err != nil {
		return false, errors.Wrapf(err, "unable to get vertex %s", source)
	}

	if _, _, err := s.Vertex(target); err != nil {
		return false, errors.Wrapf(err, "unable to get vertex %s", target)
	}

	if source == target {
		return true, nil
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	stack := []string{source}
	visited := make(map[string]struct{})

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[current]; ok {
			continue
		}

		if current == target {
			return true, nil
		}

		visited[current] = struct{}{}

		for dependency := range s.inEdges[current] {
			stack = append(stack, dependency)
		}
	}

	return false, nil
}

var _ graph.Store[string, int] = (*StepStore[int])(nil)
