package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteLastHuman(t *testing.T) {
	original := []Message{HumanMessage{Content: "hi"}}
	assembled := []Message{
		SystemMessage{Content: "prompt"},
		HumanMessage{Content: "earlier"},
		AIMessage{Content: "earlier answer"},
		HumanMessage{Content: "hi"},
	}

	rewritten, err := RewriteLastHuman(original, assembled)
	require.NoError(t, err)
	assert.Equal(t, assembled, rewritten)
	// Input slice is left untouched.
	assert.Len(t, original, 1)
}

func TestRewriteLastHuman_Errors(t *testing.T) {
	_, err := RewriteLastHuman(nil, []Message{SystemMessage{}})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	_, err = RewriteLastHuman([]Message{AIMessage{Content: "answer"}}, nil)
	require.ErrorAs(t, err, &cfgErr)
}

func TestLastAIMessage(t *testing.T) {
	_, ok := LastAIMessage(nil)
	assert.False(t, ok)

	_, ok = LastAIMessage([]Message{HumanMessage{Content: "hi"}})
	assert.False(t, ok)

	ai, ok := LastAIMessage([]Message{
		HumanMessage{Content: "hi"},
		AIMessage{Content: "hello"},
	})
	require.True(t, ok)
	assert.Equal(t, "hello", ai.Content)
}

func TestInvokeFrom_TaskOwner(t *testing.T) {
	userID := uuid.New()

	assert.Equal(t, "account-"+userID.String(), InvokeFromWebApp.TaskOwner(userID))
	assert.Equal(t, "account-"+userID.String(), InvokeFromDebugger.TaskOwner(userID))
	assert.Equal(t, "end-user-"+userID.String(), InvokeFromServiceAPI.TaskOwner(userID))
	assert.Equal(t, "end-user-"+userID.String(), InvokeFromEndUser.TaskOwner(userID))
}
