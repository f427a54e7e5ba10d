package workflow

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumoai/lumo/code"
	"github.com/lumoai/lumo/core"
	"github.com/lumoai/lumo/logging"
	"github.com/lumoai/lumo/model"
	"github.com/lumoai/lumo/tool"
)

// Options configures the collaborators available to workflow nodes. A graph
// only needs the collaborators its node types actually use; running a node
// whose collaborator is missing fails with a configuration error.
type Options struct {
	// Model serves llm nodes.
	Model model.Model

	// Tools serves tool and dataset_retrieval nodes, resolved by name.
	Tools []tool.Tool

	// Code serves code nodes.
	Code code.Executor

	// HTTPClient serves http_request nodes. Defaults to a client with
	// HTTPTimeout applied.
	HTTPClient *http.Client

	// HTTPTimeout bounds http_request nodes when no client is supplied.
	HTTPTimeout time.Duration

	// Logger receives per-node execution diagnostics.
	Logger logging.Logger
}

// Executor runs validated workflow graphs wave by wave.
type Executor struct {
	model      model.Model
	tools      map[string]tool.Tool
	code       code.Executor
	httpClient *http.Client
	logger     logging.Logger
}

// NewExecutor builds an Executor from the given options.
func NewExecutor(optFns ...func(o *Options)) *Executor {
	opts := Options{
		HTTPTimeout: 30 * time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.HTTPTimeout}
	}

	return &Executor{
		model:      opts.Model,
		tools:      tool.ByName(opts.Tools),
		code:       opts.Code,
		httpClient: client,
		logger:     opts.Logger,
	}
}

// runState retains every finished node's outputs, addressed by node id, for
// downstream reference resolution. Writes happen between waves only; reads
// happen concurrently within a wave.
type runState struct {
	mu      sync.RWMutex
	inputs  map[string]any
	results map[string]map[string]any
}

func newRunState(inputs map[string]any) *runState {
	if inputs == nil {
		inputs = map[string]any{}
	}
	return &runState{
		inputs:  inputs,
		results: make(map[string]map[string]any),
	}
}

func (s *runState) set(nodeID string, outputs map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if outputs == nil {
		outputs = map[string]any{}
	}
	s.results[nodeID] = outputs
}

func (s *runState) resolve(ref *VarRef) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outputs, ok := s.results[ref.NodeID]
	if !ok {
		return nil, core.NewConfigurationError("workflow reference %s.%s points at a node that has not produced outputs", ref.NodeID, ref.VarName)
	}
	value, ok := outputs[ref.VarName]
	if !ok {
		return nil, core.NewConfigurationError("workflow node %q produced no output named %q", ref.NodeID, ref.VarName)
	}
	return value, nil
}

// Run validates the graph, executes it to completion and returns the end
// node's resolved outputs. Nodes within one topological wave run
// concurrently; the first node error cancels the remaining wave members and
// aborts the run.
func (e *Executor) Run(ctx context.Context, g *Graph, inputs map[string]any) (map[string]any, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	waves, err := g.waves()
	if err != nil {
		return nil, err
	}

	state := newRunState(inputs)
	start := time.Now()

	for _, wave := range waves {
		group, groupCtx := errgroup.WithContext(ctx)
		outputs := make([]map[string]any, len(wave))

		for i, nodeID := range wave {
			i, node := i, g.nodeByID(nodeID)
			group.Go(func() error {
				nodeStart := time.Now()
				out, err := e.runNode(groupCtx, node, state)
				if err != nil {
					e.logger.Error("workflow.node.failed", "node_id", node.ID, "type", node.Type, "error", err)
					return err
				}
				e.logger.Debug("workflow.node.done", "node_id", node.ID, "type", node.Type, "latency", time.Since(nodeStart).Seconds())
				outputs[i] = out
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
		for i, nodeID := range wave {
			state.set(nodeID, outputs[i])
		}
	}

	e.logger.Info("workflow.done", "nodes", len(g.Nodes), "latency", time.Since(start).Seconds())
	return state.results[g.endNode().ID], nil
}

// resolveInputs materializes a node's declared inputs: literals pass
// through, references read the retained outputs of upstream nodes.
func (e *Executor) resolveInputs(node *Node, state *runState) (map[string]any, error) {
	resolved := make(map[string]any, len(node.Inputs))
	for _, v := range node.Inputs {
		if v.Ref != nil {
			value, err := state.resolve(v.Ref)
			if err != nil {
				return nil, core.NewConfigurationError("workflow node %q input %q: %s", node.ID, v.Name, err)
			}
			resolved[v.Name] = value
			continue
		}
		resolved[v.Name] = v.Literal
	}
	return resolved, nil
}
