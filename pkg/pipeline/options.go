package pipeline

import (
	"log/slog"

	"github.com/askiada/conduit/pkg/pipeline/artifact"
	"github.com/askiada/conduit/pkg/pipeline/model"
)

type Option func(p *Pipeline)

// PipelineLogger sets the logger. Nothing is logged by default.
func PipelineLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// PipelineVerbose logs every executed step at info level instead of debug.
func PipelineVerbose() Option {
	return func(p *Pipeline) {
		p.stepLevel = slog.LevelInfo
	}
}

// PipelineCodec sets the codec used to save and load artifacts.
func PipelineCodec(codec artifact.Codec) Option {
	return func(p *Pipeline) {
		p.codec = codec
	}
}

// PipelineOptions attaches options observing the pipeline, such as measures or drawers.
func PipelineOptions(opts ...model.PipelineOption) Option {
	return func(p *Pipeline) {
		p.opts = append(p.opts, opts...)
	}
}
