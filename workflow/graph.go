package workflow

import (
	"github.com/lumoai/lumo/core"
)

// NodeType tags a node with its execution behavior. The set is closed;
// Validate rejects anything else.
type NodeType string

const (
	NodeStart             NodeType = "start"
	NodeEnd               NodeType = "end"
	NodeLLM               NodeType = "llm"
	NodeHTTPRequest       NodeType = "http_request"
	NodeTemplateTransform NodeType = "template_transform"
	NodeCode              NodeType = "code"
	NodeTool              NodeType = "tool"
	NodeDatasetRetrieval  NodeType = "dataset_retrieval"
)

var nodeTypes = map[NodeType]struct{}{
	NodeStart:             {},
	NodeEnd:               {},
	NodeLLM:               {},
	NodeHTTPRequest:       {},
	NodeTemplateTransform: {},
	NodeCode:              {},
	NodeTool:              {},
	NodeDatasetRetrieval:  {},
}

// VarRef points at a named output of another node.
type VarRef struct {
	NodeID  string `json:"node_id"`
	VarName string `json:"var_name"`
}

// Variable wires one named node input to either an inline literal or a
// reference to an upstream node's output. Ref wins when both are set.
type Variable struct {
	Name    string  `json:"name"`
	Literal any     `json:"literal,omitempty"`
	Ref     *VarRef `json:"ref,omitempty"`
}

// Edge declares a source -> target dependency between two nodes.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Node is one typed unit of a workflow graph. Only the fields relevant to
// its Type are consulted:
//
//   - llm: Prompt (text/template over the resolved inputs)
//   - http_request: Method and URL
//   - template_transform: Template (text/template over the resolved inputs)
//   - code: Source (handed to the configured code executor)
//   - tool: ToolName
//
// start nodes pass the run's caller inputs through; end nodes expose their
// resolved inputs as the graph outputs.
type Node struct {
	ID     string     `json:"id"`
	Type   NodeType   `json:"type"`
	Title  string     `json:"title,omitempty"`
	Inputs []Variable `json:"inputs,omitempty"`

	Prompt   string `json:"prompt,omitempty"`
	Method   string `json:"method,omitempty"`
	URL      string `json:"url,omitempty"`
	Template string `json:"template,omitempty"`
	Source   string `json:"source,omitempty"`
	ToolName string `json:"tool_name,omitempty"`
}

// Graph is a directed acyclic workflow definition.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Validate checks the graph's static shape: known node types, unique ids,
// edge endpoints and variable references pointing at existing nodes, exactly
// one start and one end node, and acyclicity. It never executes a node.
func (g *Graph) Validate() error {
	byID := make(map[string]*Node, len(g.Nodes))
	starts, ends := 0, 0

	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == "" {
			return core.NewConfigurationError("workflow node %d has no id", i)
		}
		if _, ok := nodeTypes[n.Type]; !ok {
			return core.NewConfigurationError("workflow node %q has unknown type %q", n.ID, n.Type)
		}
		if _, dup := byID[n.ID]; dup {
			return core.NewConfigurationError("workflow node id %q is declared twice", n.ID)
		}
		byID[n.ID] = n

		switch n.Type {
		case NodeStart:
			starts++
		case NodeEnd:
			ends++
		}
	}
	if starts != 1 {
		return core.NewConfigurationError("workflow graph requires exactly one start node, got %d", starts)
	}
	if ends != 1 {
		return core.NewConfigurationError("workflow graph requires exactly one end node, got %d", ends)
	}

	for _, e := range g.Edges {
		if _, ok := byID[e.Source]; !ok {
			return core.NewConfigurationError("workflow edge references unknown source node %q", e.Source)
		}
		if _, ok := byID[e.Target]; !ok {
			return core.NewConfigurationError("workflow edge references unknown target node %q", e.Target)
		}
	}

	for _, n := range g.Nodes {
		for _, v := range n.Inputs {
			if v.Ref == nil {
				continue
			}
			if _, ok := byID[v.Ref.NodeID]; !ok {
				return core.NewConfigurationError("workflow node %q input %q references unknown node %q", n.ID, v.Name, v.Ref.NodeID)
			}
		}
	}

	_, err := g.waves()
	return err
}

// nodeByID returns the node with the given id. Callers run after Validate,
// so a miss is a programming error and returns nil.
func (g *Graph) nodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// startNode and endNode locate the unique boundary nodes.
func (g *Graph) startNode() *Node { return g.firstOfType(NodeStart) }
func (g *Graph) endNode() *Node  { return g.firstOfType(NodeEnd) }

func (g *Graph) firstOfType(t NodeType) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Type == t {
			return &g.Nodes[i]
		}
	}
	return nil
}

// waves groups node ids into topological layers via Kahn's algorithm: every
// node in wave n depends only on nodes in earlier waves. A cycle leaves
// nodes unplaced and is reported as a configuration error.
func (g *Graph) waves() ([][]string, error) {
	indegree := make(map[string]int, len(g.Nodes))
	successors := make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		indegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		indegree[e.Target]++
		successors[e.Source] = append(successors[e.Source], e.Target)
	}

	var wave []string
	for _, n := range g.Nodes {
		if indegree[n.ID] == 0 {
			wave = append(wave, n.ID)
		}
	}

	var waves [][]string
	placed := 0
	for len(wave) > 0 {
		waves = append(waves, wave)
		placed += len(wave)

		var next []string
		for _, id := range wave {
			for _, succ := range successors[id] {
				indegree[succ]--
				if indegree[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		wave = next
	}

	if placed != len(g.Nodes) {
		return nil, core.NewConfigurationError("workflow graph contains a cycle (%d of %d nodes unreachable by topological order)", len(g.Nodes)-placed, len(g.Nodes))
	}
	return waves, nil
}
