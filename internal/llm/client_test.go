package llm

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionchat-backend/internal/chat"
)

func TestConvertTurnsPlainText(t *testing.T) {
	turns := []chat.Turn{
		chat.SystemTurn("be terse"),
		chat.AssistantTurn("ok"),
	}
	got := ConvertTurns(turns)

	require.Len(t, got, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got[0].Role)
	assert.Equal(t, "be terse", got[0].Content)
	assert.Empty(t, got[0].MultiContent)
	assert.Equal(t, openai.ChatMessageRoleAssistant, got[1].Role)
	assert.Equal(t, "ok", got[1].Content)
}

func TestConvertTurnsUserMultiContent(t *testing.T) {
	turns := []chat.Turn{
		chat.UserTurn(
			chat.ImagePart("data:image/jpeg;base64,AAAA"),
			chat.TextPart("is this a cat?"),
		),
	}
	got := ConvertTurns(turns)

	require.Len(t, got, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, got[0].Role)
	assert.Empty(t, got[0].Content)
	require.Len(t, got[0].MultiContent, 2)

	assert.Equal(t, openai.ChatMessagePartTypeImageURL, got[0].MultiContent[0].Type)
	require.NotNil(t, got[0].MultiContent[0].ImageURL)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", got[0].MultiContent[0].ImageURL.URL)

	assert.Equal(t, openai.ChatMessagePartTypeText, got[0].MultiContent[1].Type)
	assert.Equal(t, "is this a cat?", got[0].MultiContent[1].Text)
}

func TestConvertTurnsKeepsOrder(t *testing.T) {
	turns := []chat.Turn{
		chat.SystemTurn("sys"),
		chat.UserTurn(chat.TextPart("q1")),
		chat.AssistantTurn("a1"),
		chat.UserTurn(chat.TextPart("q2")),
	}
	got := ConvertTurns(turns)

	require.Len(t, got, 4)
	roles := []string{
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleUser,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleUser,
	}
	for i, role := range roles {
		assert.Equal(t, role, got[i].Role)
	}
}
