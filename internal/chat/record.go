package chat

import (
	"encoding/json"
	"fmt"
)

// ErrUnknownRole indicates a persisted record carries a role outside the
// three-value enum. Stores treat it as corrupt session state.
var ErrUnknownRole = fmt.Errorf("unknown role in session record")

// Record is the plain key-value form of a Turn used for cross-request
// persistence. System and assistant content is the raw string; user content
// is the JSON-encoded part list so data URIs survive the round trip.
type Record struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToRecord serializes a turn for the session store. The round trip through
// FromRecord is lossless for everything actually persisted.
func ToRecord(t Turn) (Record, error) {
	if t.Role != RoleUser {
		return Record{Role: string(t.Role), Content: t.Text}, nil
	}
	b, err := json.Marshal(t.Parts)
	if err != nil {
		return Record{}, fmt.Errorf("marshal user parts: %w", err)
	}
	return Record{Role: string(t.Role), Content: string(b)}, nil
}

// FromRecord is the inverse of ToRecord. Unknown roles fail with
// ErrUnknownRole rather than guessing.
func FromRecord(r Record) (Turn, error) {
	switch Role(r.Role) {
	case RoleSystem:
		return SystemTurn(r.Content), nil
	case RoleAssistant:
		return AssistantTurn(r.Content), nil
	case RoleUser:
		var parts []ContentPart
		if err := json.Unmarshal([]byte(r.Content), &parts); err != nil {
			return Turn{}, fmt.Errorf("unmarshal user parts: %w", err)
		}
		return Turn{Role: RoleUser, Parts: parts}, nil
	default:
		return Turn{}, fmt.Errorf("%w: %q", ErrUnknownRole, r.Role)
	}
}

// ToRecords converts a turn list for persistence.
func ToRecords(turns []Turn) ([]Record, error) {
	out := make([]Record, 0, len(turns))
	for _, t := range turns {
		rec, err := ToRecord(t)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// FromRecords converts persisted records back into turns, preserving order.
func FromRecords(recs []Record) ([]Turn, error) {
	out := make([]Turn, 0, len(recs))
	for _, r := range recs {
		t, err := FromRecord(r)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
