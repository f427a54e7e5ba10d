package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoai/lumo/core"
)

func validGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "start", Type: NodeStart},
			{ID: "transform", Type: NodeTemplateTransform, Template: "hi {{.name}}", Inputs: []Variable{
				{Name: "name", Ref: &VarRef{NodeID: "start", VarName: "name"}},
			}},
			{ID: "end", Type: NodeEnd, Inputs: []Variable{
				{Name: "greeting", Ref: &VarRef{NodeID: "transform", VarName: "output"}},
			}},
		},
		Edges: []Edge{
			{Source: "start", Target: "transform"},
			{Source: "transform", Target: "end"},
		},
	}
}

func TestGraphValidateAcceptsWellFormedGraph(t *testing.T) {
	require.NoError(t, validGraph().Validate())
}

func TestGraphValidateRejectsCycle(t *testing.T) {
	g := validGraph()
	g.Edges = append(g.Edges, Edge{Source: "end", Target: "transform"})

	err := g.Validate()
	require.Error(t, err)

	var cfgErr *core.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "cycle")
}

func TestGraphValidateRejectsUnknownEdgeEndpoint(t *testing.T) {
	g := validGraph()
	g.Edges = append(g.Edges, Edge{Source: "transform", Target: "ghost"})

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestGraphValidateRejectsUnknownRefTarget(t *testing.T) {
	g := validGraph()
	g.Nodes[2].Inputs = []Variable{
		{Name: "greeting", Ref: &VarRef{NodeID: "ghost", VarName: "output"}},
	}

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestGraphValidateRejectsDuplicateNodeID(t *testing.T) {
	g := validGraph()
	g.Nodes = append(g.Nodes, Node{ID: "transform", Type: NodeTemplateTransform})

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")
}

func TestGraphValidateRequiresStartAndEnd(t *testing.T) {
	g := validGraph()
	g.Nodes = g.Nodes[1:] // drop start

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")
}

func TestGraphValidateRejectsUnknownNodeType(t *testing.T) {
	g := validGraph()
	g.Nodes[1].Type = "noop"

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestGraphWavesGroupIndependentBranches(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "start", Type: NodeStart},
			{ID: "a", Type: NodeTemplateTransform, Template: "a"},
			{ID: "b", Type: NodeTemplateTransform, Template: "b"},
			{ID: "end", Type: NodeEnd},
		},
		Edges: []Edge{
			{Source: "start", Target: "a"},
			{Source: "start", Target: "b"},
			{Source: "a", Target: "end"},
			{Source: "b", Target: "end"},
		},
	}

	waves, err := g.waves()
	require.NoError(t, err)
	require.Len(t, waves, 3)
	assert.Equal(t, []string{"start"}, waves[0])
	assert.ElementsMatch(t, []string{"a", "b"}, waves[1])
	assert.Equal(t, []string{"end"}, waves[2])
}
