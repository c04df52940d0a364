package chat

import "strings"

// Role identifies who produced a turn. These are exactly the three roles the
// chat completion protocol accepts.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ImagePlaceholder replaces image parts when a turn is rendered as plain text
// for the transcript endpoint.
const ImagePlaceholder = "[Image attached]"

type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

// ContentPart is one atomic piece of a user turn: either plain text or an
// embedded image carried as a self-contained data URI. Because the URI embeds
// the full JPEG bytes, the part stays valid after the source temp file is gone.
type ContentPart struct {
	Kind    PartKind `json:"kind"`
	Text    string   `json:"text,omitempty"`
	DataURI string   `json:"dataUri,omitempty"`
}

func TextPart(text string) ContentPart {
	return ContentPart{Kind: PartText, Text: text}
}

func ImagePart(dataURI string) ContentPart {
	return ContentPart{Kind: PartImage, DataURI: dataURI}
}

// Turn is one role-tagged message in a conversation. System and assistant
// turns carry plain text; user turns carry an ordered list of parts so text
// and images can interleave.
type Turn struct {
	Role  Role          `json:"role"`
	Text  string        `json:"text,omitempty"`
	Parts []ContentPart `json:"parts,omitempty"`
}

func SystemTurn(text string) Turn {
	return Turn{Role: RoleSystem, Text: text}
}

func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}

func UserTurn(parts ...ContentPart) Turn {
	return Turn{Role: RoleUser, Parts: parts}
}

// TranscriptText renders a turn as plain text for the history endpoint.
// Image parts collapse to ImagePlaceholder, so this form is lossy and is
// never fed back into the session store.
func (t Turn) TranscriptText() string {
	if t.Role != RoleUser {
		return t.Text
	}
	lines := make([]string, 0, len(t.Parts))
	for _, p := range t.Parts {
		switch p.Kind {
		case PartImage:
			lines = append(lines, ImagePlaceholder)
		case PartText:
			lines = append(lines, p.Text)
		}
	}
	return strings.Join(lines, "\n")
}
