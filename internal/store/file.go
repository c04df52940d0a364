package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	log "github.com/sirupsen/logrus"

	"visionchat-backend/internal/chat"
)

var safeSessionID = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore persists one JSON file of records per session under a directory.
// Writes go through a tmp file plus rename so a crash mid-save never leaves a
// half-written session behind.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("session directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(sessionID string) (string, error) {
	// Session ids are uuid-shaped; reject anything that could escape the dir.
	if !safeSessionID.MatchString(sessionID) {
		return "", fmt.Errorf("invalid session id %q", sessionID)
	}
	return filepath.Join(f.dir, sessionID+".json"), nil
}

func (f *FileStore) Load(sessionID string) ([]chat.Turn, error) {
	p, err := f.path(sessionID)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []chat.Turn{}, nil
		}
		return nil, err
	}
	var recs []chat.Record
	if err := json.Unmarshal(b, &recs); err != nil {
		log.Warnf("dropping corrupt session file %s: %v", p, err)
		return []chat.Turn{}, nil
	}
	turns, err := chat.FromRecords(recs)
	if err != nil {
		log.Warnf("dropping corrupt session %s: %v", sessionID, err)
		return []chat.Turn{}, nil
	}
	return turns, nil
}

func (f *FileStore) Save(sessionID string, turns []chat.Turn) error {
	p, err := f.path(sessionID)
	if err != nil {
		return err
	}
	recs, err := chat.ToRecords(turns)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (f *FileStore) Clear(sessionID string) error {
	p, err := f.path(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
