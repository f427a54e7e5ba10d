// Package openai implements model.Model on the OpenAI Chat Completions API
// (streaming and function/tool calling). It translates Lumo's message types
// into the SDK's message format and back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/model"
)

// aggCall aggregates partial tool call streaming deltas (id, name, argument
// fragments) so complete tool calls can be reconstructed when the finish
// reason arrives. Internal helper.
type aggCall struct{ id, name, args string }

// Options configure the OpenAI model adapter. Intentionally a minimal subset
// of Chat Completion parameters; extend via functional options.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind model.Model.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements unified streaming / non-streaming generation.
//
// During streaming, text deltas are forwarded immediately as chunks while
// tool call deltas are aggregated silently; the proposed tool calls are
// disclosed in one final chunk once the finish reason arrives, since partial
// argument JSON cannot be decoded earlier.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Chunk, <-chan error) {
	out := make(chan model.Chunk, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		messages, err := buildMessages(req.Messages)
		if err != nil {
			errCh <- err
			return
		}
		params := m.buildParams(req, messages)
		if req.Stream {
			m.handleStreaming(ctx, params, out, errCh)
			return
		}
		m.handleNonStreaming(ctx, params, out, errCh)
	}()

	return out, errCh
}

// buildMessages converts Lumo messages into OpenAI chat messages.
func buildMessages(messages []core.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	var out []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch m := msg.(type) {
		case core.SystemMessage:
			out = append(out, openai.SystemMessage(m.Content))
		case core.HumanMessage:
			out = append(out, openai.UserMessage(m.Content))
		case core.AIMessage:
			if len(m.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(m.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(m.ToolCalls))
			for _, tc := range m.ToolCalls {
				args, err := json.Marshal(tc.Args)
				if err != nil {
					return nil, fmt.Errorf("marshal tool call args for %q: %w", tc.Name, err)
				}
				toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: string(args),
					},
				})
			}
			out = append(
				out,
				openai.ChatCompletionMessageParamUnion{OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				}},
			)
		case core.ToolMessage:
			out = append(out, openai.ToolMessage(m.Content, m.ToolCallID))
		}
	}
	return out, nil
}

// buildParams assembles the OpenAI request parameters including tool
// definitions.
func (m *Model) buildParams(
	req model.Request,
	messages []openai.ChatCompletionMessageParamUnion,
) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Name,
				Description: openai.String(tdef.Description),
				Parameters:  tdef.Parameters,
			},
		}
	}
	params.Tools = tools
	return params
}

// handleStreaming forwards text deltas and reconstructs aggregated tool calls.
func (m *Model) handleStreaming(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Chunk,
	errCh chan<- error,
) {
	stream := m.client.Chat.Completions.NewStreaming(ctx, params)
	toolAgg := map[int64]*aggCall{}
	var order []int64

	for stream.Next() {
		ck := stream.Current()
		for _, ch := range ck.Choices {
			if ch.Delta.Content != "" {
				out <- model.Chunk{Text: ch.Delta.Content}
			}
			for _, tc := range ch.Delta.ToolCalls {
				ac, ok := toolAgg[tc.Index]
				if !ok {
					ac = &aggCall{}
					toolAgg[tc.Index] = ac
					order = append(order, tc.Index)
				}
				if tc.ID != "" {
					ac.id = tc.ID
				}
				if tc.Function.Name != "" {
					ac.name = tc.Function.Name
				}
				ac.args += tc.Function.Arguments
			}
			if ch.FinishReason != "" {
				calls, err := assembleCalls(toolAgg, order)
				if err != nil {
					errCh <- err
					return
				}
				out <- model.Chunk{ToolCalls: calls, FinishReason: ch.FinishReason}
			}
		}
	}
	if err := stream.Err(); err != nil {
		errCh <- fmt.Errorf("openai streaming error: %w", err)
	}
}

// assembleCalls decodes the aggregated argument fragments into tool calls,
// preserving first-seen order.
func assembleCalls(agg map[int64]*aggCall, order []int64) ([]core.ToolCall, error) {
	if len(agg) == 0 {
		return nil, nil
	}
	calls := make([]core.ToolCall, 0, len(agg))
	for _, idx := range order {
		ac := agg[idx]
		args := map[string]any{}
		if ac.args != "" {
			if err := json.Unmarshal([]byte(ac.args), &args); err != nil {
				return nil, fmt.Errorf("decode tool call args for %q: %w", ac.name, err)
			}
		}
		calls = append(calls, core.ToolCall{ID: ac.id, Name: ac.name, Args: args})
	}
	return calls, nil
}

// handleNonStreaming processes a normal (non-streaming) completion.
func (m *Model) handleNonStreaming(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Chunk,
	errCh chan<- error,
) {
	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		errCh <- fmt.Errorf("openai api error: %w", err)
		return
	}
	if len(resp.Choices) == 0 {
		errCh <- fmt.Errorf("no choices returned")
		return
	}
	ch0 := resp.Choices[0]
	var calls []core.ToolCall
	for _, tc := range ch0.Message.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				errCh <- fmt.Errorf("decode tool call args for %q: %w", tc.Function.Name, err)
				return
			}
		}
		calls = append(calls, core.ToolCall{ID: tc.ID, Name: tc.Function.Name, Args: args})
	}
	out <- model.Chunk{
		Text:         ch0.Message.Content,
		ToolCalls:    calls,
		FinishReason: ch0.FinishReason,
	}
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
