package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Parameter placement within an API operation.
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InBody   = "body"
)

// APIParameter describes one argument of an API operation and where it is
// placed in the outbound request.
type APIParameter struct {
	Name        string `json:"name"`
	In          string `json:"in"` // path, query, header or body
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// APIOperation is the stored, OpenAPI-like description an APITool is built
// from: one operation of a user-provided API.
type APIOperation struct {
	Server      string         `json:"server"` // base URL, no trailing slash
	Path        string         `json:"path"`   // may contain {placeholders}
	Method      string         `json:"method"`
	OperationID string         `json:"operation_id"`
	Description string         `json:"description"`
	Parameters  []APIParameter `json:"parameters"`
}

// APIToolOptions configure an APITool.
type APIToolOptions struct {
	// Headers are attached to every request (typically credentials).
	Headers map[string]string
	// Client overrides the default HTTP client.
	Client *http.Client
	// Timeout applies when no custom client is given.
	Timeout time.Duration
}

// APITool exposes one remote API operation as a Tool. Invoke performs the
// HTTP call per the operation definition (method, path template, parameter
// placement) and returns the decoded response body.
type APITool struct {
	op      APIOperation
	headers map[string]string
	client  *http.Client
}

// NewAPITool constructs an APITool from a stored operation description.
func NewAPITool(op APIOperation, optFns ...func(o *APIToolOptions)) *APITool {
	opts := APIToolOptions{
		Timeout: 30 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &APITool{op: op, headers: opts.Headers, client: client}
}

// Name returns the operation id.
func (t *APITool) Name() string { return t.op.OperationID }

// Description returns the stored operation description.
func (t *APITool) Description() string { return t.op.Description }

// InputSchema builds the argument schema from the operation's parameters.
func (t *APITool) InputSchema() map[string]any {
	properties := map[string]any{}
	var required []string
	for _, p := range t.op.Parameters {
		paramType := p.Type
		if paramType == "" {
			paramType = "string"
		}
		prop := map[string]any{"type": paramType}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Invoke performs the HTTP call. JSON response bodies are decoded; anything
// else is returned as text.
func (t *APITool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	req, err := t.buildRequest(ctx, args)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &Error{Tool: t.Name(), Message: err.Error(), Code: "EXECUTION_ERROR"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Tool: t.Name(), Message: fmt.Sprintf("read response: %v", err), Code: "EXECUTION_ERROR"}
	}
	if resp.StatusCode >= 400 {
		return nil, &Error{
			Tool:    t.Name(),
			Message: fmt.Sprintf("upstream returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			Code:    "UPSTREAM_ERROR",
		}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var decoded any
		if err := json.Unmarshal(body, &decoded); err == nil {
			return decoded, nil
		}
	}
	return string(body), nil
}

// buildRequest assembles the outbound request, distributing args to path,
// query, header and body locations per the operation definition.
func (t *APITool) buildRequest(ctx context.Context, args map[string]any) (*http.Request, error) {
	path := t.op.Path
	query := url.Values{}
	headers := http.Header{}
	body := map[string]any{}

	for _, p := range t.op.Parameters {
		value, present := args[p.Name]
		if !present {
			if p.Required {
				return nil, &Error{
					Tool:    t.Name(),
					Message: fmt.Sprintf("missing required argument %q", p.Name),
					Code:    "VALIDATION_ERROR",
				}
			}
			continue
		}
		switch p.In {
		case InPath:
			path = strings.ReplaceAll(path, "{"+p.Name+"}", fmt.Sprintf("%v", value))
		case InQuery:
			query.Set(p.Name, fmt.Sprintf("%v", value))
		case InHeader:
			headers.Set(p.Name, fmt.Sprintf("%v", value))
		case InBody:
			body[p.Name] = value
		default:
			return nil, &Error{
				Tool:    t.Name(),
				Message: fmt.Sprintf("unsupported parameter location %q for %q", p.In, p.Name),
				Code:    "VALIDATION_ERROR",
			}
		}
	}

	endpoint := strings.TrimRight(t.op.Server, "/") + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var reader io.Reader
	if len(body) > 0 {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Tool: t.Name(), Message: fmt.Sprintf("encode body: %v", err), Code: "VALIDATION_ERROR"}
		}
		reader = bytes.NewReader(raw)
	}

	method := strings.ToUpper(t.op.Method)
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &Error{Tool: t.Name(), Message: err.Error(), Code: "VALIDATION_ERROR"}
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Set(key, value)
		}
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
