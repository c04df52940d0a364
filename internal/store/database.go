package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"visionchat-backend/internal/chat"
	"visionchat-backend/internal/db"
)

// DatabaseStore persists sessions in PostgreSQL, one JSONB row per session.
type DatabaseStore struct {
	db *db.DB
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

func (ds *DatabaseStore) Load(sessionID string) ([]chat.Turn, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	var raw []byte
	query := `SELECT turns FROM sessions WHERE session_id = $1`
	err := ds.db.QueryRow(query, sessionID).Scan(&raw)
	if err == sql.ErrNoRows {
		return []chat.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var recs []chat.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		log.Warnf("dropping corrupt session row %s: %v", sessionID, err)
		return []chat.Turn{}, nil
	}
	turns, err := chat.FromRecords(recs)
	if err != nil {
		log.Warnf("dropping corrupt session %s: %v", sessionID, err)
		return []chat.Turn{}, nil
	}
	return turns, nil
}

func (ds *DatabaseStore) Save(sessionID string, turns []chat.Turn) error {
	if sessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	recs, err := chat.ToRecords(turns)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	query := `
		INSERT INTO sessions (session_id, turns, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET
			turns = EXCLUDED.turns,
			updated_at = NOW()
	`
	if _, err := ds.db.Exec(query, sessionID, raw); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (ds *DatabaseStore) Clear(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	query := `DELETE FROM sessions WHERE session_id = $1`
	if _, err := ds.db.Exec(query, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
