// Package session drives a single form through its lifecycle: load, edit,
// restore saved progress, submit. State changes go through the pure Reduce
// function; the Store owns the current State on one goroutine and runs the
// asynchronous side effects (fetching, saving, submitting), which report back
// by dispatching further actions.
package session
