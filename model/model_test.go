package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoai/lumo/core"
)

func collect(t *testing.T, ch <-chan Chunk, errCh <-chan error) ([]Chunk, error) {
	t.Helper()

	var chunks []Chunk
	for c := range ch {
		chunks = append(chunks, c)
	}
	return chunks, <-errCh
}

func TestMockModel_ScriptedTurns(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.AddTextTurn("Hel", "lo")
	m.AddToolCallTurn(core.ToolCall{ID: "call-1", Name: "weather", Args: map[string]any{"city": "kiel"}})

	req := Request{Messages: []core.Message{core.HumanMessage{Content: "hi"}}, Stream: true}

	ch, errCh := m.Generate(context.Background(), req)
	chunks, err := collect(t, ch, errCh)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Hel", chunks[0].Text)
	assert.Equal(t, "lo", chunks[1].Text)
	assert.Equal(t, "stop", chunks[1].FinishReason)

	ch, errCh = m.Generate(context.Background(), req)
	chunks, err = collect(t, ch, errCh)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Len(t, chunks[0].ToolCalls, 1)
	assert.Equal(t, "weather", chunks[0].ToolCalls[0].Name)
	assert.Equal(t, "tool_calls", chunks[0].FinishReason)
}

func TestMockModel_EchoFallback(t *testing.T) {
	m := NewMockModel("mock", "test")

	req := Request{Messages: []core.Message{core.HumanMessage{Content: "ping"}}}
	ch, errCh := m.Generate(context.Background(), req)
	chunks, err := collect(t, ch, errCh)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Mock response to: ping", chunks[0].Text)
}

func TestMockModel_ErrorTurn(t *testing.T) {
	m := NewMockModel("mock", "test")
	m.AddErrorTurn("partial")

	req := Request{Messages: []core.Message{core.HumanMessage{Content: "hi"}}}
	ch, errCh := m.Generate(context.Background(), req)
	chunks, err := collect(t, ch, errCh)
	require.Error(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "partial", chunks[0].Text)
}

func TestMockModel_SupportsToolsFlag(t *testing.T) {
	m := NewMockModel("mock", "test")
	assert.True(t, m.Info().SupportsTools)

	m.SetSupportsTools(false)
	assert.False(t, m.Info().SupportsTools)
}
