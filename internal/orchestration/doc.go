// Package orchestration runs one or more factorial calculators concurrently
// and compares their results. It talks to the presentation layer only through
// the ProgressReporter, ResultPresenter and ErrorHandler interfaces.
package orchestration
