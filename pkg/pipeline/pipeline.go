package pipeline

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/askiada/conduit/pkg/pipeline/artifact"
	"github.com/askiada/conduit/pkg/pipeline/model"
)

// Pipeline is a set of steps linked by their dependencies, and the artifacts they keep between runs.
type Pipeline struct {
	steps     map[string]*step
	order     []string
	plan      *plan
	artifacts *artifact.Store
	codec     artifact.Codec
	opts      []model.PipelineOption
	logger    *slog.Logger
	stepLevel slog.Level
}

// New creates an empty pipeline.
func New(opts ...Option) (*Pipeline, error) {
	pipe := &Pipeline{
		steps:     make(map[string]*step),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		stepLevel: slog.LevelDebug,
	}

	for _, opt := range opts {
		opt(pipe)
	}

	storeOpts := []artifact.Option{}
	if pipe.codec != nil {
		storeOpts = append(storeOpts, artifact.WithCodec(pipe.codec))
	}

	pipe.artifacts = artifact.NewStore(storeOpts...)

	for _, opt := range pipe.opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Artifacts returns the artifact store of the pipeline.
func (p *Pipeline) Artifacts() *artifact.Store {
	return p.artifacts
}

// Get returns the artifact stored under key.
func (p *Pipeline) Get(key string) (any, error) {
	return p.artifacts.Get(key)
}

// Set stores an artifact under key.
func (p *Pipeline) Set(key string, value any) *Pipeline {
	p.artifacts.Set(key, value)

	return p
}

// Save writes the artifacts to path. Steps are not saved: a pipeline loading the file
// must register the same steps for the artifacts to be meaningful.
func (p *Pipeline) Save(path string) (*Pipeline, error) {
	err := p.artifacts.SaveFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to save pipeline artifacts")
	}

	return p, nil
}

// Load replaces the artifacts with the ones saved at path.
func (p *Pipeline) Load(path string) (*Pipeline, error) {
	err := p.artifacts.LoadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load pipeline artifacts")
	}

	return p, nil
}
