package core

import (
	"github.com/google/uuid"
)

// EventKind enumerates the closed set of run event types published by an
// agent task. The zero value is not a valid kind.
type EventKind string

const (
	// EventLongTermMemoryRecall reports the long-term memory text injected
	// into the system prompt at the start of a run.
	EventLongTermMemoryRecall EventKind = "long_term_memory_recall"
	// EventAgentThought reports a model turn that produced tool calls.
	EventAgentThought EventKind = "agent_thought"
	// EventAgentMessage carries one streamed chunk of a plain model answer.
	EventAgentMessage EventKind = "agent_message"
	// EventAgentAction reports one executed tool call and its observation.
	EventAgentAction EventKind = "agent_action"
	// EventDatasetRetrieval reports a knowledge-base retrieval tool call.
	EventDatasetRetrieval EventKind = "dataset_retrieval"
	// EventAgentEnd marks an explicit end of the run. The run loop itself
	// never publishes it; higher-level wrappers may (see queue.Manager).
	EventAgentEnd EventKind = "agent_end"
	// EventPing is a liveness heartbeat emitted by the queue consumer.
	EventPing EventKind = "ping"
	// EventStop reports cooperative cancellation via the stop-flag store.
	EventStop EventKind = "stop"
	// EventTimeout reports that the overall channel lifetime was exceeded.
	EventTimeout EventKind = "timeout"
	// EventError reports a fatal run failure; the error text is carried in
	// the Observation field.
	EventError EventKind = "error"
)

// IsTerminal reports whether publishing an event of this kind ends the
// consumable sequence of its task.
func (k EventKind) IsTerminal() bool {
	switch k {
	case EventStop, EventError, EventTimeout, EventAgentEnd:
		return true
	default:
		return false
	}
}

// RunEvent is the unit of communication between a run loop and its consumer.
// Treat it as immutable after construction. Only fields relevant to the Kind
// are populated; everything else is zero and omitted from JSON.
type RunEvent struct {
	ID          string            `json:"id"`
	TaskID      string            `json:"task_id"`
	Kind        EventKind         `json:"event"`
	Thought     string            `json:"thought,omitempty"`
	Observation string            `json:"observation,omitempty"`
	Tool        string            `json:"tool,omitempty"`
	ToolInput   map[string]any    `json:"tool_input,omitempty"`
	Messages    []MessageSnapshot `json:"messages,omitempty"`
	Answer      string            `json:"answer,omitempty"`
	Latency     float64           `json:"latency,omitempty"`
}

// NewRunEvent creates a bare event of the given kind bound to a task.
func NewRunEvent(taskID uuid.UUID, kind EventKind) *RunEvent {
	return &RunEvent{
		ID:     uuid.NewString(),
		TaskID: taskID.String(),
		Kind:   kind,
	}
}

// MessageSnapshot is a flattened, serializable view of one conversation
// message, attached to events that carry a history snapshot.
type MessageSnapshot struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// SnapshotMessages converts a message sequence into its serializable form,
// preserving order.
func SnapshotMessages(messages []Message) []MessageSnapshot {
	if len(messages) == 0 {
		return nil
	}
	snapshots := make([]MessageSnapshot, 0, len(messages))
	for _, msg := range messages {
		switch m := msg.(type) {
		case SystemMessage:
			snapshots = append(snapshots, MessageSnapshot{Role: RoleSystem, Content: m.Content})
		case HumanMessage:
			snapshots = append(snapshots, MessageSnapshot{Role: RoleHuman, Content: m.Content})
		case AIMessage:
			snapshots = append(snapshots, MessageSnapshot{Role: RoleAI, Content: m.Content, ToolCalls: m.ToolCalls})
		case ToolMessage:
			snapshots = append(snapshots, MessageSnapshot{Role: RoleTool, Content: m.Content, ToolCallID: m.ToolCallID, Name: m.Name})
		}
	}
	return snapshots
}
