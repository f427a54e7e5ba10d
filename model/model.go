package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumoai/lumo/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// Parameters is a JSON Schema object (minimal subset).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the run loop.
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
	Stream   bool             `json:"stream,omitempty"`
}

// Chunk is one streamed fragment of a model turn. Text chunks carry
// incremental content; a chunk with ToolCalls discloses the model's proposed
// invocations. FinishReason is set on the last chunk of a turn.
type Chunk struct {
	Text         string          `json:"text,omitempty"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// Info contains static metadata about a model implementation. SupportsTools
// is the explicit capability flag consulted once at run start; no reflective
// probing happens anywhere.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive generation. Generate
// returns a chunk stream and an error channel; both are closed by the
// implementation when the turn ends.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Chunk, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Scripted turns are consumed in order, one per Generate call; once the
// script is exhausted the model echoes the last human message.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	turns    [][]Chunk
	next     int
	requests []Request
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
	}
}

// SetSupportsTools overrides the tool-binding capability flag.
func (m *MockModel) SetSupportsTools(supported bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info.SupportsTools = supported
}

// AddTextTurn scripts one turn streamed as the given text chunks.
func (m *MockModel) AddTextTurn(chunks ...string) {
	turn := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		turn = append(turn, Chunk{Text: c})
	}
	if len(turn) > 0 {
		turn[len(turn)-1].FinishReason = "stop"
	}
	m.addTurn(turn)
}

// AddToolCallTurn scripts one turn that proposes the given tool calls in a
// single chunk.
func (m *MockModel) AddToolCallTurn(calls ...core.ToolCall) {
	m.addTurn([]Chunk{{ToolCalls: calls, FinishReason: "tool_calls"}})
}

// AddErrorTurn scripts one turn that fails mid-generation after emitting the
// given text chunks.
func (m *MockModel) AddErrorTurn(chunks ...string) {
	turn := make([]Chunk, 0, len(chunks)+1)
	for _, c := range chunks {
		turn = append(turn, Chunk{Text: c})
	}
	turn = append(turn, Chunk{FinishReason: "error"})
	m.addTurn(turn)
}

func (m *MockModel) addTurn(turn []Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, turn)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Chunk, <-chan error) {
	out := make(chan Chunk, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.requests = append(m.requests, req)
	var turn []Chunk
	if m.next < len(m.turns) {
		turn = m.turns[m.next]
		m.next++
	}
	m.mu.Unlock()

	go func() {
		defer close(out)
		defer close(errCh)

		if turn == nil {
			out <- Chunk{Text: "Mock response to: " + lastHumanText(req.Messages), FinishReason: "stop"}
			return
		}
		for _, chunk := range turn {
			if chunk.FinishReason == "error" {
				errCh <- fmt.Errorf("mock model failure")
				return
			}
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case out <- chunk:
			}
		}
	}()

	return out, errCh
}

// Requests returns the requests Generate has received, in call order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Info implements Model.
func (m *MockModel) Info() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info
}

func lastHumanText(messages []core.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if h, ok := messages[i].(core.HumanMessage); ok {
			return h.Content
		}
	}
	return ""
}
