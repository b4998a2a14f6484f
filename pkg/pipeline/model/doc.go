// Package model provides the data structures shared by the pipeline package and its options.
// It defines how steps are described to options, the execution modes,
// and the hooks an option implements to observe graph construction and step execution.
package model
