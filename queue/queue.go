package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/logging"
)

// Options holds configuration overrides passed to New().
type Options struct {
	// Capacity bounds the internal event buffer. A full buffer blocks
	// publishers until the consumer catches up (backpressure by blocking).
	Capacity int
	// PollInterval bounds each consumer wait so housekeeping runs promptly.
	PollInterval time.Duration
	// PingInterval is the heartbeat bucket width.
	PingInterval time.Duration
	// ListenTimeout is the overall channel lifetime before an automatic
	// timeout event.
	ListenTimeout time.Duration
	// Logger receives structured housekeeping and publish diagnostics.
	Logger logging.Logger
}

// Manager is the bounded, single-consumer/multi-producer event mailbox for
// one task. Events are delivered to the consumer in strict publish order;
// publishing a terminal event enqueues a close sentinel immediately after it
// so nothing is delivered post-terminal.
//
// Publish and RequestStop are safe for concurrent use. Listen must be called
// at most once.
type Manager struct {
	userID     uuid.UUID
	taskID     uuid.UUID
	invokeFrom core.InvokeFrom

	stops  StopStore
	logger logging.Logger

	pollInterval  time.Duration
	pingInterval  time.Duration
	listenTimeout time.Duration

	mu     sync.Mutex
	closed bool
	events chan *core.RunEvent // nil element is the close sentinel
}

// New creates a Manager bound to (userID, taskID, invokeFrom) and records the
// task ownership entry in the stop store.
func New(
	ctx context.Context,
	userID, taskID uuid.UUID,
	invokeFrom core.InvokeFrom,
	stops StopStore,
	optFns ...func(o *Options),
) (*Manager, error) {
	opts := Options{
		Capacity:      512,
		PollInterval:  time.Second,
		PingInterval:  10 * time.Second,
		ListenTimeout: 600 * time.Second,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := stops.SetTaskBelong(ctx, taskID, invokeFrom.TaskOwner(userID), TaskBelongTTL); err != nil {
		return nil, err
	}

	return &Manager{
		userID:        userID,
		taskID:        taskID,
		invokeFrom:    invokeFrom,
		stops:         stops,
		logger:        opts.Logger,
		pollInterval:  opts.PollInterval,
		pingInterval:  opts.PingInterval,
		listenTimeout: opts.ListenTimeout,
		events:        make(chan *core.RunEvent, opts.Capacity),
	}, nil
}

// TaskID returns the task this manager is bound to.
func (m *Manager) TaskID() uuid.UUID { return m.taskID }

// UserID returns the user the task belongs to.
func (m *Manager) UserID() uuid.UUID { return m.userID }

// InvokeFrom returns the surface the task was started from.
func (m *Manager) InvokeFrom() core.InvokeFrom { return m.invokeFrom }

// Publish enqueues ev for the consumer. If ev carries a terminal kind the
// close sentinel is enqueued immediately after it and the manager stops
// accepting further events. Publishing after close is a no-op.
func (m *Manager) Publish(ev *core.RunEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		m.logger.Debug("queue.publish.dropped", "task_id", m.taskID, "event", ev.Kind)
		return
	}

	m.events <- ev
	if ev.Kind.IsTerminal() {
		m.closed = true
		m.events <- nil
		m.logger.Debug("queue.closed", "task_id", m.taskID, "event", ev.Kind)
	}
}

// PublishError publishes an Error event carrying err's description as the
// observation. Terminal.
func (m *Manager) PublishError(err error) {
	ev := core.NewRunEvent(m.taskID, core.EventError)
	ev.Observation = err.Error()
	m.Publish(ev)
}

// PublishAgentEnd publishes an explicit AgentEnd event carrying the final
// answer. The run loop never calls this itself; it exists for wrappers that
// want an explicit end marker instead of a bare stream close.
func (m *Manager) PublishAgentEnd(answer string) {
	ev := core.NewRunEvent(m.taskID, core.EventAgentEnd)
	ev.Answer = answer
	m.Publish(ev)
}

// RequestStop enqueues the close sentinel directly, without a terminal
// event. Producers use it after the consumer already holds everything it
// needs (e.g. a plain final answer streamed as agent messages).
func (m *Manager) RequestStop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.events <- nil
	m.logger.Debug("queue.closed", "task_id", m.taskID, "event", "stop_requested")
}

// Listen returns a lazy, single-pass stream of the task's events in publish
// order, terminating once the close sentinel is read. Each wait is bounded
// by the poll interval; on every wake the loop performs housekeeping:
// heartbeat pings (at most one per ping-interval bucket), the overall
// timeout, and a stop-flag probe. Cancelling ctx abandons the stream.
func (m *Manager) Listen(ctx context.Context) <-chan core.RunEvent {
	out := make(chan core.RunEvent)

	go func() {
		defer close(out)

		start := time.Now()
		var lastPingBucket int64

		for {
			timer := time.NewTimer(m.pollInterval)

			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case item := <-m.events:
				timer.Stop()
				if item == nil {
					return
				}
				select {
				case out <- *item:
				case <-ctx.Done():
					return
				}
			case <-timer.C:
			}

			lastPingBucket = m.housekeep(ctx, start, lastPingBucket)
		}
	}()

	return out
}

// housekeep runs the liveness checks for one consumer wake and returns the
// updated ping bucket. All three checks publish independently; against an
// already-closed manager they degrade to no-ops.
//
// Housekeeping runs on the consumer goroutine, so it must never block on a
// full buffer: tryPublish drops instead and the check fires again on the
// next wake.
func (m *Manager) housekeep(ctx context.Context, start time.Time, lastPingBucket int64) int64 {
	elapsed := time.Since(start)

	if bucket := int64(elapsed / m.pingInterval); bucket > lastPingBucket {
		if m.tryPublish(core.NewRunEvent(m.taskID, core.EventPing)) {
			lastPingBucket = bucket
		}
	}

	if elapsed >= m.listenTimeout {
		if m.tryPublish(core.NewRunEvent(m.taskID, core.EventTimeout)) {
			m.logger.Info("queue.timeout", "task_id", m.taskID, "elapsed", elapsed)
		}
	}

	stopped, err := m.stops.IsStopped(ctx, m.taskID)
	if err != nil {
		m.logger.Warn("queue.stop_check.failed", "task_id", m.taskID, "error", err)
	} else if stopped {
		if m.tryPublish(core.NewRunEvent(m.taskID, core.EventStop)) {
			m.logger.Info("queue.stopped", "task_id", m.taskID)
		}
	}

	return lastPingBucket
}

// tryPublish enqueues ev without ever blocking. It requires room for the
// event plus a potential sentinel so terminal events stay adjacent to their
// close marker. Reports whether the event was accepted.
func (m *Manager) tryPublish(ev *core.RunEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || cap(m.events)-len(m.events) < 2 {
		return false
	}

	m.events <- ev
	if ev.Kind.IsTerminal() {
		m.closed = true
		m.events <- nil
		m.logger.Debug("queue.closed", "task_id", m.taskID, "event", ev.Kind)
	}
	return true
}
