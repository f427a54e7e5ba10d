package agent

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/model"
	"github.com/lumoai/lumo/queue"
	"github.com/lumoai/lumo/tool"
)

func newTestQueue(t *testing.T) *queue.Manager {
	t.Helper()

	q, err := queue.New(
		context.Background(),
		uuid.New(),
		uuid.New(),
		core.InvokeFromDebugger,
		queue.NewInMemoryStopStore(),
		func(o *queue.Options) {
			o.PollInterval = 5 * time.Millisecond
			o.PingInterval = time.Hour
			o.ListenTimeout = time.Hour
		},
	)
	require.NoError(t, err)

	return q
}

func weatherTool(t *testing.T) tool.Tool {
	t.Helper()

	return tool.NewFunctionTool(
		"get_weather",
		"Look up the current weather for a city.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string"},
			},
			"required": []string{"city"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"city": args["city"], "forecast": "sunny"}, nil
		},
	)
}

func runAgent(t *testing.T, cfg Config, query string, history []core.Message, memory string) []core.RunEvent {
	t.Helper()

	q := newTestQueue(t)
	a, err := New(cfg, q)
	require.NoError(t, err)

	var events []core.RunEvent
	for ev := range a.Run(context.Background(), query, history, memory) {
		events = append(events, ev)
	}
	return events
}

func kinds(events []core.RunEvent) []core.EventKind {
	out := make([]core.EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestAgentPlainAnswer(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddTextTurn("Hello ", "there!")

	events := runAgent(t, Config{Model: m}, "hi", nil, "")

	require.Equal(t, []core.EventKind{core.EventAgentMessage, core.EventAgentMessage}, kinds(events))
	assert.Equal(t, "Hello ", events[0].Answer)
	assert.Equal(t, "there!", events[1].Answer)
	assert.Equal(t, events[0].ID, events[1].ID, "message chunks share one event id")
	assert.Equal(t, events[0].TaskID, events[1].TaskID)
}

func TestAgentToolCallFlow(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddToolCallTurn(core.ToolCall{
		ID:   "call-1",
		Name: "get_weather",
		Args: map[string]any{"city": "Berlin"},
	})
	m.AddTextTurn("It is sunny in Berlin.")

	events := runAgent(t, Config{Model: m, Tools: []tool.Tool{weatherTool(t)}}, "weather in berlin?", nil, "")

	require.Equal(t, []core.EventKind{
		core.EventAgentThought,
		core.EventAgentAction,
		core.EventAgentMessage,
	}, kinds(events))

	action := events[1]
	assert.Equal(t, "get_weather", action.Tool)
	assert.Equal(t, map[string]any{"city": "Berlin"}, action.ToolInput)
	assert.Contains(t, action.Observation, "sunny")

	// The action snapshot already carries the observation as a tool turn.
	require.NotEmpty(t, action.Messages)
	last := action.Messages[len(action.Messages)-1]
	assert.Equal(t, core.RoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)

	assert.Equal(t, "It is sunny in Berlin.", events[2].Answer)
}

func TestAgentOddHistoryFailsBeforeModelCall(t *testing.T) {
	m := model.NewMockModel("mock", "mock")

	history := []core.Message{core.HumanMessage{Content: "dangling turn"}}
	events := runAgent(t, Config{Model: m}, "hi", history, "")

	require.Equal(t, []core.EventKind{core.EventError}, kinds(events))
	assert.Contains(t, events[0].Observation, "alternating")
	assert.Empty(t, m.Requests(), "model must not be called with a malformed history")
}

func TestAgentLongTermMemoryRecall(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddTextTurn("You like green tea.")

	events := runAgent(t, Config{Model: m, EnableLongTermMemory: true}, "what do I like?", nil, "User likes green tea.")

	require.Equal(t, []core.EventKind{
		core.EventLongTermMemoryRecall,
		core.EventAgentMessage,
	}, kinds(events))
	assert.Equal(t, "User likes green tea.", events[0].Observation)
}

func TestAgentUnknownToolFailsRun(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddToolCallTurn(core.ToolCall{ID: "call-1", Name: "missing_tool", Args: map[string]any{}})

	events := runAgent(t, Config{Model: m, Tools: []tool.Tool{weatherTool(t)}}, "hi", nil, "")

	require.Equal(t, []core.EventKind{core.EventAgentThought, core.EventError}, kinds(events))
	assert.Contains(t, events[1].Observation, "missing_tool")
}

func TestAgentModelErrorPublishesErrorEvent(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddErrorTurn()

	events := runAgent(t, Config{Model: m}, "hi", nil, "")

	require.Equal(t, []core.EventKind{core.EventError}, kinds(events))
	assert.NotEmpty(t, events[0].Observation)
}

func TestAgentMaxIterationsExceeded(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	call := core.ToolCall{ID: "call-1", Name: "get_weather", Args: map[string]any{"city": "Berlin"}}
	m.AddToolCallTurn(call)
	m.AddToolCallTurn(call)
	m.AddToolCallTurn(call)

	events := runAgent(t, Config{Model: m, Tools: []tool.Tool{weatherTool(t)}, MaxIterations: 2}, "hi", nil, "")

	require.Equal(t, []core.EventKind{
		core.EventAgentThought,
		core.EventAgentAction,
		core.EventAgentThought,
		core.EventAgentAction,
		core.EventError,
	}, kinds(events))
	assert.Contains(t, events[4].Observation, "maximum")
}

func TestAgentDatasetRetrievalEventKind(t *testing.T) {
	retrieve := tool.NewFunctionTool(
		tool.DatasetRetrievalToolName,
		"Search the knowledge base.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string"},
			},
			"required": []string{"query"},
		},
		func(_ context.Context, _ map[string]any) (any, error) {
			return "passage one", nil
		},
	)

	m := model.NewMockModel("mock", "mock")
	m.AddToolCallTurn(core.ToolCall{ID: "call-1", Name: tool.DatasetRetrievalToolName, Args: map[string]any{"query": "tea"}})
	m.AddTextTurn("Found it.")

	events := runAgent(t, Config{Model: m, Tools: []tool.Tool{retrieve}}, "tea?", nil, "")

	require.Equal(t, []core.EventKind{
		core.EventAgentThought,
		core.EventDatasetRetrieval,
		core.EventAgentMessage,
	}, kinds(events))
	assert.Contains(t, events[1].Observation, "passage one")
}

func TestAgentToolsNotBoundWithoutModelSupport(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.SetSupportsTools(false)
	m.AddTextTurn("plain answer")

	q := newTestQueue(t)
	a, err := New(Config{Model: m, Tools: []tool.Tool{weatherTool(t)}}, q)
	require.NoError(t, err)

	for range a.Run(context.Background(), "hi", nil, "") {
	}

	require.Len(t, m.Requests(), 1)
	assert.Empty(t, m.Requests()[0].Tools)
}

func TestNewValidatesConfig(t *testing.T) {
	q := newTestQueue(t)

	_, err := New(Config{}, q)
	require.Error(t, err)

	var cfgErr *core.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
