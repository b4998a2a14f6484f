// Package pipeline runs a set of steps linked by their dependencies, in the manner of a
// fit/transform machine learning pipeline.
//
// Steps are registered with AddStep or Register and may declare the steps they depend on.
// Registration order does not matter: dependencies are resolved when the pipeline runs. Every
// run sorts the steps topologically, ties broken by registration order, and executes each one
// exactly once, handing the output of a step to the next one.
//
// A run has a mode. Fit lets steps learn from the data and keep what they learned as artifacts,
// Transform applies what was learned, and FitTransform does both in a single pass. A step only
// sees the mode flags and hyperparameters it declared with its step options.
//
// Artifacts outlive runs and can be saved to and loaded from a file, so a pipeline fitted in one
// process can transform data in another one, provided it registers the same steps.
//
// The pipeline stops on the first error. Artifacts written before the failing step are kept.
package pipeline
