package runner

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lumoai/lumo/agent"
	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/logging"
	"github.com/lumoai/lumo/memory"
	"github.com/lumoai/lumo/queue"
)

// Options holds dependency and configuration overrides passed to New.
type Options struct {
	// MemoryStore supplies long-term memory for agents configured to use it.
	MemoryStore memory.Store

	// QueueOptions are forwarded to every run's queue manager (capacity,
	// poll/ping intervals, listen timeout).
	QueueOptions []func(o *queue.Options)

	// EmitAgentEnd appends a synthesized agent_end event, carrying the
	// accumulated answer, to runs that finish with a plain answer. The run
	// loop itself never publishes agent_end; this wrapper-level marker is
	// for consumers that want an explicit end signal.
	EmitAgentEnd bool

	// Logger receives run lifecycle diagnostics.
	Logger logging.Logger
}

// Runner starts and cancels agent runs. It enforces one live run per task
// id and is the owner of the external stop API. Safe for concurrent use.
type Runner struct {
	stops        queue.StopStore
	memories     memory.Store
	queueOptFns  []func(o *queue.Options)
	emitAgentEnd bool
	logger       logging.Logger

	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

// New constructs a Runner on top of the given stop store.
func New(stops queue.StopStore, optFns ...func(o *Options)) *Runner {
	opts := Options{
		MemoryStore: memory.NewInMemoryStore(),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		stops:        stops,
		memories:     opts.MemoryStore,
		queueOptFns:  opts.QueueOptions,
		emitAgentEnd: opts.EmitAgentEnd,
		logger:       opts.Logger,
		active:       make(map[uuid.UUID]struct{}),
	}
}

// RunInput describes one agent run.
type RunInput struct {
	// UserID identifies the user the task belongs to.
	UserID uuid.UUID

	// TaskID identifies the run. Zero generates a fresh id.
	TaskID uuid.UUID

	// InvokeFrom records the surface that started the run.
	InvokeFrom core.InvokeFrom

	// Config is the agent configuration for this run.
	Config agent.Config

	// Query is the user's message.
	Query string

	// History carries prior human/ai turns, oldest first.
	History []core.Message
}

// Run starts the agent loop for in and returns its event stream. The stream
// closes after the run's terminal event; the task is released from the
// active registry at that point. A second Run for a task id that is still
// live fails without side effects.
func (r *Runner) Run(ctx context.Context, in RunInput) (<-chan core.RunEvent, error) {
	taskID := in.TaskID
	if taskID == uuid.Nil {
		taskID = uuid.New()
	}

	r.mu.Lock()
	if _, live := r.active[taskID]; live {
		r.mu.Unlock()
		return nil, core.NewConfigurationError("task %s already has a live run", taskID)
	}
	r.active[taskID] = struct{}{}
	r.mu.Unlock()

	events, err := r.start(ctx, taskID, in)
	if err != nil {
		r.release(taskID)
		return nil, err
	}
	return events, nil
}

func (r *Runner) start(ctx context.Context, taskID uuid.UUID, in RunInput) (<-chan core.RunEvent, error) {
	q, err := queue.New(ctx, in.UserID, taskID, in.InvokeFrom, r.stops, r.queueOptFns...)
	if err != nil {
		return nil, err
	}

	a, err := agent.New(in.Config, q, func(o *agent.Options) { o.Logger = r.logger })
	if err != nil {
		return nil, err
	}

	longTermMemory := ""
	if in.Config.EnableLongTermMemory {
		longTermMemory, err = r.memories.Load(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
	}

	r.logger.Info("run.started", "task_id", taskID, "user_id", in.UserID, "invoke_from", in.InvokeFrom)

	events := a.Run(ctx, in.Query, in.History, longTermMemory)
	out := make(chan core.RunEvent)

	go func() {
		defer close(out)
		defer r.release(taskID)

		answer := ""
		terminal := false
		for ev := range events {
			if ev.Kind == core.EventAgentMessage {
				answer += ev.Answer
			}
			if ev.Kind.IsTerminal() {
				terminal = true
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				// Consumer walked away; discard the rest so the agent
				// side unblocks and the task is released.
				for range events {
				}
				r.logger.Info("run.abandoned", "task_id", taskID)
				return
			}
		}

		if r.emitAgentEnd && !terminal {
			end := core.NewRunEvent(taskID, core.EventAgentEnd)
			end.Answer = answer
			select {
			case out <- *end:
			case <-ctx.Done():
			}
		}

		r.logger.Info("run.finished", "task_id", taskID, "terminal", terminal)
	}()

	return out, nil
}

// Stop requests cancellation of the task's run by writing the shared stop
// flag. The run observes the flag at its next liveness check; an in-flight
// model or tool call completes first.
func (r *Runner) Stop(ctx context.Context, taskID uuid.UUID) error {
	r.logger.Info("run.stop_requested", "task_id", taskID)
	return r.stops.Stop(ctx, taskID)
}

// ActiveTasks returns the ids of runs whose streams have not yet closed.
func (r *Runner) ActiveTasks() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(r.active))
	for id := range r.active {
		ids = append(ids, id)
	}
	return ids
}

func (r *Runner) release(taskID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, taskID)
}
