// Package queue implements the per-task event channel connecting an agent
// run loop (producer) to exactly one consumer, plus the external stop-flag
// contract used for cooperative, out-of-band cancellation.
//
// A Manager is created together with its task and destroyed once the close
// sentinel following a terminal event has been consumed. The consumption
// loop performs liveness housekeeping on every bounded wake: heartbeat
// pings, an overall lifetime timeout and a stop-flag probe. Any of the three
// may end the stream; the first terminal event observed wins.
package queue
