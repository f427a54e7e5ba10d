// Package core defines the shared data model of the Lumo agent execution
// core: run events published by an agent task, the polymorphic conversation
// message types carried as run state, task identity, and the error taxonomy
// used at the run-loop boundary.
//
// Everything in this package is a plain value type. Events are immutable once
// constructed and JSON-serializable so an external transport layer can frame
// them (e.g. as server-sent events) without further translation.
package core
