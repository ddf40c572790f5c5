package conversation

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanns/meetmind/message"
)

func createTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	database, err := InitDB(path)
	require.NoError(t, err)

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

func TestConversation_Append(t *testing.T) {
	conv, err := New()
	require.NoError(t, err)
	require.NotEmpty(t, conv.ID)

	conv.Append(message.NewUserMessage("Hello"))
	conv.Append(&message.Message{
		Role:    message.AssistantRole,
		Content: []message.ContentBlockUnion{message.NewTextBlock("Hi there")},
	})

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, 0, conv.Messages[0].Sequence)
	assert.Equal(t, 1, conv.Messages[1].Sequence)
	assert.False(t, conv.Messages[0].CreatedAt.IsZero())
	assert.NotEmpty(t, conv.Messages[0].ID)
}

func TestConversation_SaveAndLoad(t *testing.T) {
	database := createTestDB(t)

	conv, err := New()
	require.NoError(t, err)

	conv.Append(message.NewUserMessage("schedule a standup at 9"))
	conv.Append(&message.Message{
		Role: message.AssistantRole,
		Content: []message.ContentBlockUnion{
			message.NewTextBlock("Done."),
			message.NewToolUseBlock("call_1", "schedule_meeting", []byte(`{"title":"Standup","time":"09:00"}`)),
		},
	})

	require.NoError(t, conv.SaveTo(database))

	loaded, err := Load(database, conv.ID)
	require.NoError(t, err)

	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, message.UserRole, loaded.Messages[0].Role)
	assert.Equal(t, "schedule a standup at 9", loaded.Messages[0].Text())

	uses := loaded.Messages[1].ToolUses()
	require.Len(t, uses, 1)
	assert.Equal(t, "schedule_meeting", uses[0].Name)
}

func TestConversation_SaveTwiceIsIdempotent(t *testing.T) {
	database := createTestDB(t)

	conv, err := New()
	require.NoError(t, err)
	conv.Append(message.NewUserMessage("first"))

	require.NoError(t, conv.SaveTo(database))

	conv.Append(message.NewUserMessage("second"))
	require.NoError(t, conv.SaveTo(database))

	loaded, err := Load(database, conv.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 2)
}

func TestList(t *testing.T) {
	database := createTestDB(t)

	summaries, err := List(database)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	for range 3 {
		conv, err := New()
		require.NoError(t, err)
		conv.Append(message.NewUserMessage("hi"))
		require.NoError(t, conv.SaveTo(database))
	}

	summaries, err = List(database)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	for _, s := range summaries {
		assert.Equal(t, 1, s.MessageCount)
	}
}

func TestLoad_Missing(t *testing.T) {
	database := createTestDB(t)

	_, err := Load(database, "no-such-id")
	assert.Error(t, err)
}
