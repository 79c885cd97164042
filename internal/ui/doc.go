// Package ui renders merge progress for people watching the console.
//
// ConsoleRunReporter narrates each repository, branch, and tag as a run
// advances, while ConsoleCommandEventLogger mirrors the underlying git
// invocations when human-readable logging is selected. Structured telemetry
// stays on the zap loggers.
package ui
