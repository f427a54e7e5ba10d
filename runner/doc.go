// Package runner wires queues, agents and stores into complete runs. It
// tracks in-flight runs per task id (at most one run loop per task), exposes
// the external stop API by writing the shared stop flag, and optionally
// appends an explicit agent_end event for consumers that prefer a marker
// over a bare stream close.
package runner
