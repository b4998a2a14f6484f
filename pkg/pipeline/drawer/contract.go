// Package drawer renders the dependency graph of a pipeline in the DOT language.
package drawer

import (
	"io"
	"time"

	"github.com/askiada/conduit/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer. Adding a step twice is a no-op.
	AddStep(stepName string) error
	// AddLink adds a link from a dependency to the step depending on it. Adding a link twice is a no-op.
	AddLink(dependencyName, stepName string) error
	// Draw writes the pipeline graph to its destination.
	Draw() error
	// Render writes the pipeline graph to wrt.
	Render(wrt io.Writer) error
	// SetTotalTime sets the total time for the step.
	SetTotalTime(stepName string, totalTime time.Duration) error
	// AddMeasure labels and colours every measured step.
	AddMeasure(measure measure.Measure) error
}
