package core

// Conversation roles used in snapshots and provider adapters.
const (
	RoleSystem = "system"
	RoleHuman  = "human"
	RoleAI     = "ai"
	RoleTool   = "tool"
)

// Message represents one polymorphic conversation entry. Concrete message
// types implement the unexported isMessage marker enabling a closed set.
type Message interface{ isMessage() }

// SystemMessage is the assembled system prompt (preset prompt plus any
// recalled long-term memory).
type SystemMessage struct {
	Content string
}

func (SystemMessage) isMessage() {}

// HumanMessage is one user turn.
type HumanMessage struct {
	Content string
}

func (HumanMessage) isMessage() {}

// AIMessage is one model turn: free text plus zero or more tool calls.
type AIMessage struct {
	Content   string
	ToolCalls []ToolCall
}

func (AIMessage) isMessage() {}

// ToolMessage carries the serialized result of one executed tool call.
type ToolMessage struct {
	ToolCallID string
	Name       string
	Content    string
}

func (ToolMessage) isMessage() {}

// ToolCall is a model-proposed invocation of a named tool with structured
// arguments.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// RewriteLastHuman returns a new message sequence in which the trailing human
// message of messages has been replaced by the assembled sequence. It is the
// explicit form of the prompt-reconstruction step: the caller's bare query is
// swapped for a freshly built system + history + human prompt without mutating
// the input slice.
//
// The trailing message must be a HumanMessage; anything else is a
// configuration error on the caller's side.
func RewriteLastHuman(messages []Message, assembled []Message) ([]Message, error) {
	if len(messages) == 0 {
		return nil, NewConfigurationError("cannot rewrite an empty message sequence")
	}
	if _, ok := messages[len(messages)-1].(HumanMessage); !ok {
		return nil, NewConfigurationError("last message is not a human message")
	}
	out := make([]Message, 0, len(messages)-1+len(assembled))
	out = append(out, messages[:len(messages)-1]...)
	out = append(out, assembled...)
	return out, nil
}

// LastAIMessage returns the trailing AI message of the sequence, or false if
// the sequence is empty or ends with a different role.
func LastAIMessage(messages []Message) (AIMessage, bool) {
	if len(messages) == 0 {
		return AIMessage{}, false
	}
	ai, ok := messages[len(messages)-1].(AIMessage)
	return ai, ok
}
