package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"text/template"

	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/model"
	"github.com/lumoai/lumo/tool"
)

// runNode dispatches one node to its type-specific runner with its inputs
// already resolved.
func (e *Executor) runNode(ctx context.Context, node *Node, state *runState) (map[string]any, error) {
	inputs, err := e.resolveInputs(node, state)
	if err != nil {
		return nil, err
	}

	switch node.Type {
	case NodeStart:
		return e.runStart(node, state, inputs)
	case NodeEnd:
		return inputs, nil
	case NodeLLM:
		return e.runLLM(ctx, node, inputs)
	case NodeHTTPRequest:
		return e.runHTTPRequest(ctx, node, inputs)
	case NodeTemplateTransform:
		return e.runTemplateTransform(node, inputs)
	case NodeCode:
		return e.runCode(ctx, node, inputs)
	case NodeTool, NodeDatasetRetrieval:
		return e.runTool(ctx, node, inputs)
	default:
		return nil, core.NewConfigurationError("workflow node %q has unknown type %q", node.ID, node.Type)
	}
}

// runStart seeds the graph with the caller's run inputs, overlaid by any
// literals declared on the start node itself.
func (e *Executor) runStart(_ *Node, state *runState, inputs map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(state.inputs)+len(inputs))
	for k, v := range state.inputs {
		out[k] = v
	}
	for k, v := range inputs {
		out[k] = v
	}
	return out, nil
}

// runLLM renders the node prompt against the resolved inputs and performs a
// single non-streaming model turn. Output: {"text": <completion>}.
func (e *Executor) runLLM(ctx context.Context, node *Node, inputs map[string]any) (map[string]any, error) {
	if e.model == nil {
		return nil, core.NewConfigurationError("workflow node %q requires a model, none configured", node.ID)
	}

	prompt, err := renderTemplate(node.ID, node.Prompt, inputs)
	if err != nil {
		return nil, err
	}

	chunkCh, errCh := e.model.Generate(ctx, model.Request{
		Messages: []core.Message{core.HumanMessage{Content: prompt}},
	})

	var text strings.Builder
	for chunk := range chunkCh {
		text.WriteString(chunk.Text)
	}
	if err := <-errCh; err != nil {
		return nil, core.NewUpstreamModelError(err)
	}

	return map[string]any{"text": text.String()}, nil
}

// runHTTPRequest issues one HTTP call. The resolved input named "body" is
// sent as a JSON request body; every other input becomes a query parameter.
// Output: {"status_code": <int>, "body": <decoded JSON or raw string>}.
func (e *Executor) runHTTPRequest(ctx context.Context, node *Node, inputs map[string]any) (map[string]any, error) {
	method := node.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if raw, ok := inputs["body"]; ok {
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("workflow node %q: encode request body: %w", node.ID, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, node.URL, body)
	if err != nil {
		return nil, fmt.Errorf("workflow node %q: build request: %w", node.ID, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	query := url.Values{}
	for name, value := range inputs {
		if name == "body" {
			continue
		}
		query.Set(name, fmt.Sprintf("%v", value))
	}
	if encoded := query.Encode(); encoded != "" {
		req.URL.RawQuery = encoded
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workflow node %q: %w", node.ID, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("workflow node %q: read response: %w", node.ID, err)
	}

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		decoded = string(payload)
	}

	return map[string]any{
		"status_code": resp.StatusCode,
		"body":        decoded,
	}, nil
}

// runTemplateTransform renders the node template against the resolved
// inputs. Output: {"output": <rendered>}.
func (e *Executor) runTemplateTransform(node *Node, inputs map[string]any) (map[string]any, error) {
	rendered, err := renderTemplate(node.ID, node.Template, inputs)
	if err != nil {
		return nil, err
	}
	return map[string]any{"output": rendered}, nil
}

// runCode delegates to the configured code executor.
func (e *Executor) runCode(ctx context.Context, node *Node, inputs map[string]any) (map[string]any, error) {
	if e.code == nil {
		return nil, core.NewConfigurationError("workflow node %q requires a code executor, none configured", node.ID)
	}
	outputs, err := e.code.Execute(ctx, node.Source, inputs)
	if err != nil {
		return nil, fmt.Errorf("workflow node %q: %w", node.ID, err)
	}
	return outputs, nil
}

// runTool invokes the referenced tool with the resolved inputs as
// arguments. dataset_retrieval nodes default to the reserved retrieval tool
// name. Output: {"output": <tool result>}.
func (e *Executor) runTool(ctx context.Context, node *Node, inputs map[string]any) (map[string]any, error) {
	name := node.ToolName
	if name == "" && node.Type == NodeDatasetRetrieval {
		name = tool.DatasetRetrievalToolName
	}

	t, ok := e.tools[name]
	if !ok {
		return nil, core.NewConfigurationError("workflow node %q references tool %q, which is not configured", node.ID, name)
	}

	result, err := t.Invoke(ctx, inputs)
	if err != nil {
		return nil, core.NewToolExecutionError(name, err)
	}
	return map[string]any{"output": result}, nil
}

func renderTemplate(nodeID, text string, inputs map[string]any) (string, error) {
	tmpl, err := template.New(nodeID).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", core.NewConfigurationError("workflow node %q template: %s", nodeID, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, inputs); err != nil {
		return "", core.NewConfigurationError("workflow node %q template: %s", nodeID, err)
	}
	return buf.String(), nil
}
