package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumoai/lumo/core"
)

var _ Store = (*InMemoryStore)(nil)

func TestInMemoryStoreHistoryUnknownConversation(t *testing.T) {
	s := NewInMemoryStore()

	history, err := s.History("missing")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestInMemoryStoreAppendTurnKeepsEvenLength(t *testing.T) {
	s := NewInMemoryStore()

	require.NoError(t, s.AppendTurn("c1", "hi", "hello!"))
	require.NoError(t, s.AppendTurn("c1", "how are you?", "fine."))

	history, err := s.History("c1")
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Zero(t, len(history)%2)

	human, ok := history[0].(core.HumanMessage)
	require.True(t, ok)
	assert.Equal(t, "hi", human.Content)

	ai, ok := history[3].(core.AIMessage)
	require.True(t, ok)
	assert.Equal(t, "fine.", ai.Content)
}

func TestInMemoryStoreHistoryIsCopy(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.AppendTurn("c1", "hi", "hello!"))

	history, err := s.History("c1")
	require.NoError(t, err)
	history[0] = core.HumanMessage{Content: "mutated"}

	fresh, err := s.History("c1")
	require.NoError(t, err)
	assert.Equal(t, "hi", fresh[0].(core.HumanMessage).Content)
}

func TestInMemoryStoreClear(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.AppendTurn("c1", "hi", "hello!"))
	require.NoError(t, s.Clear("c1"))

	history, err := s.History("c1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
