// Package lumo provides a high-level façade over the runner, queue and
// agent packages for driving streaming agent runs. Most applications
// interact with this package by:
//  1. Creating a Lumo via New() (optionally overriding the default
//     in-memory stop-flag and memory stores)
//  2. Starting runs asynchronously (Run) or synchronously (RunSync)
//  3. Cancelling in-flight runs out of band (Stop)
//
// All defaults are safe for local development and testing; production
// deployments typically supply the Redis-backed stop store and a structured
// logger.
package lumo

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/logging"
	"github.com/lumoai/lumo/memory"
	"github.com/lumoai/lumo/queue"
	"github.com/lumoai/lumo/runner"
)

// Options configures the Lumo instance.
type Options struct {
	// StopStore backs out-of-band cancellation. Defaults to the in-memory
	// store; use queue.NewRedisStopStore when runs must be stoppable from
	// other processes.
	StopStore queue.StopStore

	// MemoryStore supplies long-term memory for agents configured to use it.
	MemoryStore memory.Store

	// QueueOptions are forwarded to every run's queue manager.
	QueueOptions []func(o *queue.Options)

	// EmitAgentEnd appends an explicit agent_end event to plain-answer runs.
	EmitAgentEnd bool

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Lumo is the high-level façade aggregating the runner and its stores.
type Lumo struct {
	runner *runner.Runner
}

// New creates a Lumo instance with optional overrides. Any unset store is
// replaced by an in-memory implementation.
func New(optFns ...func(o *Options)) *Lumo {
	opts := Options{
		StopStore:   queue.NewInMemoryStopStore(),
		MemoryStore: memory.NewInMemoryStore(),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := runner.New(opts.StopStore, func(o *runner.Options) {
		o.MemoryStore = opts.MemoryStore
		o.QueueOptions = opts.QueueOptions
		o.EmitAgentEnd = opts.EmitAgentEnd
		o.Logger = opts.Logger
	})

	return &Lumo{runner: r}
}

// Run starts an asynchronous agent run and returns its event stream.
func (l *Lumo) Run(ctx context.Context, in runner.RunInput) (<-chan core.RunEvent, error) {
	return l.runner.Run(ctx, in)
}

// RunSync runs to completion and returns all events plus the concatenated
// final answer. Convenient for request/response callers that do not stream.
func (l *Lumo) RunSync(ctx context.Context, in runner.RunInput) ([]core.RunEvent, string, error) {
	events, err := l.runner.Run(ctx, in)
	if err != nil {
		return nil, "", err
	}

	var collected []core.RunEvent
	answer := ""
	for ev := range events {
		collected = append(collected, ev)
		if ev.Kind == core.EventAgentMessage {
			answer += ev.Answer
		}
	}
	return collected, answer, nil
}

// Stop requests cancellation of a running task via the stop-flag store.
func (l *Lumo) Stop(ctx context.Context, taskID uuid.UUID) error {
	return l.runner.Stop(ctx, taskID)
}

// ActiveTasks lists tasks whose event streams have not yet closed.
func (l *Lumo) ActiveTasks() []uuid.UUID {
	return l.runner.ActiveTasks()
}
