package store

import "visionchat-backend/internal/chat"

// Store persists the ordered turn list for a caller between requests.
//
// Load returns an empty slice when no session exists for the key. Save
// replaces the stored list wholesale; turn order is preserved exactly as
// given. Clear removes the session entirely, so the next generate call for
// the same key starts a fresh conversation.
//
// Implementations must drop (not fail on) sessions whose persisted records no
// longer deserialize, treating them as empty.
type Store interface {
	Load(sessionID string) ([]chat.Turn, error)
	Save(sessionID string, turns []chat.Turn) error
	Clear(sessionID string) error
}

// trimTurns caps a turn list at max entries, keeping the most recent ones.
// A leading system turn is never evicted; it anchors the conversation.
func trimTurns(turns []chat.Turn, max int) []chat.Turn {
	if max <= 0 || len(turns) <= max {
		return turns
	}
	if turns[0].Role == chat.RoleSystem {
		kept := make([]chat.Turn, 0, max)
		kept = append(kept, turns[0])
		kept = append(kept, turns[len(turns)-(max-1):]...)
		return kept
	}
	return turns[len(turns)-max:]
}
