package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionchat-backend/internal/chat"
)

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	want := []chat.Turn{
		chat.SystemTurn("sys"),
		chat.UserTurn(
			chat.ImagePart("data:image/jpeg;base64,AAAA"),
			chat.TextPart("what is this?"),
		),
		chat.AssistantTurn("a dog"),
	}
	require.NoError(t, fs.Save("abc-123", want))

	got, err := fs.Load("abc-123")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreLoadMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	got, err := fs.Load("never-saved")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreClear(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, fs.Save("s1", []chat.Turn{chat.AssistantTurn("hi")}))
	require.NoError(t, fs.Clear("s1"))

	got, err := fs.Load("s1")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Clearing twice is fine.
	require.NoError(t, fs.Clear("s1"))
}

func TestFileStoreDropsCorruptSession(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o600))
	got, err := fs.Load("bad")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreDropsUnknownRole(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	records := `[{"role": "moderator", "content": "hm"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "odd.json"), []byte(records), 0o600))

	got, err := fs.Load("odd")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileStoreRejectsUnsafeSessionID(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = fs.Load("../escape")
	require.Error(t, err)
	require.Error(t, fs.Save("a/b", nil))
	require.Error(t, fs.Clear("has space"))
}
