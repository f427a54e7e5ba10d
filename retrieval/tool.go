package retrieval

import (
	"context"
	"strings"

	"github.com/lumoai/lumo/tool"
)

// datasetRetrievalTool adapts a KnowledgeBase to the uniform tool contract
// under the reserved retrieval-tool name.
type datasetRetrievalTool struct {
	kb   *KnowledgeBase
	topK int
}

// NewDatasetRetrievalTool wraps kb as the reserved dataset_retrieval tool.
// Invoke takes {query} and returns the matched passages concatenated with
// blank lines.
func NewDatasetRetrievalTool(kb *KnowledgeBase, topK int) tool.Tool {
	return &datasetRetrievalTool{kb: kb, topK: topK}
}

func (t *datasetRetrievalTool) Name() string { return tool.DatasetRetrievalToolName }

func (t *datasetRetrievalTool) Description() string {
	return "Search the linked knowledge bases for passages relevant to the query. " +
		"Use this when the question concerns domain knowledge rather than general conversation."
}

func (t *datasetRetrievalTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Natural language search query",
			},
		},
		"required": []string{"query"},
	}
}

func (t *datasetRetrievalTool) Invoke(ctx context.Context, args map[string]any) (any, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, tool.NewError(t.Name(), "argument 'query' must be a non-empty string", "VALIDATION_ERROR")
	}

	passages, err := t.kb.Search(ctx, query, t.topK)
	if err != nil {
		return nil, tool.NewError(t.Name(), err.Error(), "EXECUTION_ERROR")
	}
	if len(passages) == 0 {
		return "No relevant passages found.", nil
	}

	contents := make([]string, 0, len(passages))
	for _, p := range passages {
		contents = append(contents, p.Content)
	}
	return strings.Join(contents, "\n\n"), nil
}
