package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscriptText(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
		want string
	}{
		{"assistant passthrough", AssistantTurn("hello there"), "hello there"},
		{"system passthrough", SystemTurn("be brief"), "be brief"},
		{"user text only", UserTurn(TextPart("just text")), "just text"},
		{
			"user image collapses to placeholder",
			UserTurn(ImagePart("data:image/jpeg;base64,AAAA"), TextPart("what is this?")),
			"[Image attached]\nwhat is this?",
		},
		{
			"user two images",
			UserTurn(
				ImagePart("data:image/jpeg;base64,AAAA"),
				ImagePart("data:image/jpeg;base64,BBBB"),
				TextPart("compare"),
			),
			"[Image attached]\n[Image attached]\ncompare",
		},
		{"user no parts", UserTurn(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.turn.TranscriptText())
		})
	}
}
