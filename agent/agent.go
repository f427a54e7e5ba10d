package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/logging"
	"github.com/lumoai/lumo/model"
	"github.com/lumoai/lumo/queue"
	"github.com/lumoai/lumo/tool"
)

// Options configures optional collaborators of a FunctionCallAgent.
type Options struct {
	// Logger receives structured run-loop diagnostics.
	Logger logging.Logger
}

// FunctionCallAgent drives the recall -> think -> act loop for a single task.
// It publishes every intermediate step to its queue manager; callers observe
// the run exclusively through the event stream returned by Run.
type FunctionCallAgent struct {
	config Config
	queue  *queue.Manager
	logger logging.Logger
}

// New validates the configuration and wires the agent to its event queue.
func New(config Config, q *queue.Manager, optFns ...func(o *Options)) (*FunctionCallAgent, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if q == nil {
		return nil, core.NewConfigurationError("agent requires a queue manager")
	}

	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &FunctionCallAgent{
		config: config,
		queue:  q,
		logger: opts.Logger,
	}, nil
}

// Run starts the agent loop for query in a background goroutine and returns
// the run's event stream. history carries prior human/ai turns in order;
// longTermMemory is the memory snippet recalled for this user, ignored unless
// the agent is configured for long-term memory. The returned channel closes
// after a terminal event has been delivered.
func (a *FunctionCallAgent) Run(ctx context.Context, query string, history []core.Message, longTermMemory string) <-chan core.RunEvent {
	go a.execute(ctx, query, history, longTermMemory)
	return a.queue.Listen(ctx)
}

// execute walks the state machine until the model answers in plain text, a
// step fails, or the round budget is exhausted. Any panic inside a node is
// converted into an error event so consumers always see the stream close.
func (a *FunctionCallAgent) execute(ctx context.Context, query string, history []core.Message, longTermMemory string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("agent run panicked", "task_id", a.queue.TaskID(), "panic", r)
			a.queue.PublishError(fmt.Errorf("agent run panicked: %v", r))
		}
	}()

	messages, err := a.recallMemory(query, history, longTermMemory)
	if err != nil {
		a.queue.PublishError(err)
		return
	}

	maxRounds := a.config.maxIterations()
	for round := 0; ; round++ {
		if round >= maxRounds {
			a.queue.PublishError(fmt.Errorf("agent exceeded the maximum of %d reasoning rounds", maxRounds))
			return
		}

		aiMessage, err := a.think(ctx, messages)
		if err != nil {
			a.queue.PublishError(err)
			return
		}
		messages = append(messages, aiMessage)

		if len(aiMessage.ToolCalls) == 0 {
			return
		}

		messages, err = a.act(ctx, messages)
		if err != nil {
			a.queue.PublishError(err)
			return
		}
	}
}

// recallMemory assembles the initial conversation: system prompt, prior
// turns, then the current query. When long-term memory is enabled the
// recalled snippet is announced as its own event before any model call.
func (a *FunctionCallAgent) recallMemory(query string, history []core.Message, longTermMemory string) ([]core.Message, error) {
	memory := ""
	if a.config.EnableLongTermMemory {
		memory = longTermMemory

		event := core.NewRunEvent(a.queue.TaskID(), core.EventLongTermMemoryRecall)
		event.Observation = memory
		a.queue.Publish(event)
	}

	if len(history)%2 != 0 {
		return nil, core.NewConfigurationError("conversation history must contain alternating human and ai turns, got %d messages", len(history))
	}

	assembled := make([]core.Message, 0, len(history)+2)
	assembled = append(assembled, core.SystemMessage{Content: renderSystemPrompt(a.config.PresetPrompt, memory)})
	assembled = append(assembled, history...)
	assembled = append(assembled, core.HumanMessage{Content: query})

	return core.RewriteLastHuman([]core.Message{core.HumanMessage{Content: query}}, assembled)
}

// think streams one model turn. The first chunk that discloses content
// classifies the turn: tool calls mean an internal thought, plain text means
// the final answer. Answer text is forwarded chunk by chunk under a shared
// event id; a thought is announced once after the stream completes.
func (a *FunctionCallAgent) think(ctx context.Context, messages []core.Message) (core.AIMessage, error) {
	eventID := uuid.NewString()
	start := time.Now()
	snapshot := core.SnapshotMessages(messages)

	request := model.Request{
		Messages: messages,
		Stream:   true,
	}
	if a.config.Model.Info().SupportsTools && len(a.config.Tools) > 0 {
		request.Tools = toolDefinitions(a.config.Tools)
	}

	chunkCh, errCh := a.config.Model.Generate(ctx, request)

	generationType := ""
	var content strings.Builder
	var toolCalls []core.ToolCall

	for chunk := range chunkCh {
		if len(chunk.ToolCalls) > 0 {
			toolCalls = append(toolCalls, chunk.ToolCalls...)
		}
		if chunk.Text != "" {
			content.WriteString(chunk.Text)
		}

		if generationType == "" {
			switch {
			case len(chunk.ToolCalls) > 0:
				generationType = "thought"
			case chunk.Text != "":
				generationType = "message"
			}
		}

		if generationType == "message" && chunk.Text != "" {
			event := core.NewRunEvent(a.queue.TaskID(), core.EventAgentMessage)
			event.ID = eventID
			event.Thought = chunk.Text
			event.Answer = chunk.Text
			event.Messages = snapshot
			event.Latency = time.Since(start).Seconds()
			a.queue.Publish(event)
		}
	}
	if err := <-errCh; err != nil {
		return core.AIMessage{}, core.NewUpstreamModelError(err)
	}

	switch generationType {
	case "thought":
		event := core.NewRunEvent(a.queue.TaskID(), core.EventAgentThought)
		event.ID = eventID
		event.Thought = content.String()
		event.Messages = snapshot
		event.Latency = time.Since(start).Seconds()
		a.queue.Publish(event)
	case "message":
		a.queue.RequestStop()
	}

	return core.AIMessage{
		Content:   content.String(),
		ToolCalls: toolCalls,
	}, nil
}

// act executes the tool calls of the trailing AI turn in order, feeding each
// observation back into the conversation. The first failing call aborts the
// run; earlier observations stay in the transcript.
func (a *FunctionCallAgent) act(ctx context.Context, messages []core.Message) ([]core.Message, error) {
	aiMessage, ok := core.LastAIMessage(messages)
	if !ok {
		return nil, core.NewConfigurationError("act requires the conversation to end with an ai turn")
	}

	toolsByName := tool.ByName(a.config.Tools)

	for _, call := range aiMessage.ToolCalls {
		start := time.Now()

		t, ok := toolsByName[call.Name]
		if !ok {
			return nil, core.NewToolExecutionError(call.Name, fmt.Errorf("tool %q is not configured on this agent", call.Name))
		}

		result, err := t.Invoke(ctx, call.Args)
		if err != nil {
			return nil, core.NewToolExecutionError(call.Name, err)
		}

		observation, err := json.Marshal(result)
		if err != nil {
			return nil, core.NewToolExecutionError(call.Name, fmt.Errorf("serialize tool result: %w", err))
		}

		messages = append(messages, core.ToolMessage{
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    string(observation),
		})

		kind := core.EventAgentAction
		if call.Name == tool.DatasetRetrievalToolName {
			kind = core.EventDatasetRetrieval
		}

		event := core.NewRunEvent(a.queue.TaskID(), kind)
		event.Tool = call.Name
		event.ToolInput = call.Args
		event.Observation = string(observation)
		event.Messages = core.SnapshotMessages(messages)
		event.Latency = time.Since(start).Seconds()
		a.queue.Publish(event)

		a.logger.Debug("tool invoked", "task_id", a.queue.TaskID(), "tool", call.Name, "latency", event.Latency)
	}

	return messages, nil
}

// toolDefinitions converts the configured tools into the model-facing
// definition format.
func toolDefinitions(tools []tool.Tool) []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.InputSchema(),
		})
	}
	return defs
}
