// Package build dispatches resolved build units one after another.
//
// A failing unit never stops the run: its outcome is recorded and dispatch
// moves on. Callers decide from the DispatchResult whether failures are fatal.
package build
