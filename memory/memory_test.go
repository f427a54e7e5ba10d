package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Store = (*InMemoryStore)(nil)

func TestInMemoryStoreLoadUnknownUser(t *testing.T) {
	s := NewInMemoryStore()

	memory, err := s.Load(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, memory)
}

func TestInMemoryStoreSaveAndLoad(t *testing.T) {
	s := NewInMemoryStore()
	userID := uuid.New()

	require.NoError(t, s.Save(context.Background(), userID, "User prefers concise answers."))

	memory, err := s.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "User prefers concise answers.", memory)

	require.NoError(t, s.Save(context.Background(), userID, "User prefers detailed answers."))
	memory, err = s.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "User prefers detailed answers.", memory)
}
