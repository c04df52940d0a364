package staging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"visionchat-backend/internal/chat"
)

// ErrorKind classifies a staging failure.
type ErrorKind string

const (
	KindSave   ErrorKind = "save"
	KindDecode ErrorKind = "decode"
)

// Error is a per-image staging failure. It is recovered locally by the
// caller: the image is dropped and the request continues.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("staging %s failed (%s): %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Stager writes uploads into a scratch directory and turns them into
// self-contained JPEG data-URI content parts.
type Stager struct {
	dir string
}

// New creates the scratch directory if absent and returns a Stager for it.
func New(dir string) (*Stager, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("scratch directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Stager{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Stager) Dir() string { return s.dir }

// Stage persists the upload to a uniquely named temp file, re-encodes it to a
// canonical JPEG and returns an image content part carrying a
// data:image/jpeg;base64 URI, plus the temp file path. The caller owns the
// temp file and must release it with Cleanup once the request completes,
// success or not. Stage itself never deletes.
func (s *Stager) Stage(r io.Reader) (chat.ContentPart, string, error) {
	path := filepath.Join(s.dir, uuid.New().String()+".jpg")

	f, err := os.Create(path)
	if err != nil {
		return chat.ContentPart{}, "", &Error{Kind: KindSave, Path: path, Err: err}
	}
	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return chat.ContentPart{}, path, &Error{Kind: KindSave, Path: path, Err: copyErr}
	}
	if closeErr != nil {
		return chat.ContentPart{}, path, &Error{Kind: KindSave, Path: path, Err: closeErr}
	}

	uri, err := encodeImage(path)
	if err != nil {
		return chat.ContentPart{}, path, &Error{Kind: KindDecode, Path: path, Err: err}
	}
	return chat.ImagePart(uri), path, nil
}

// Cleanup deletes every staged temp file, best effort. Failures are logged
// and never returned; cleanup must not block or fail the response.
func Cleanup(paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warnf("failed to delete temp file %s: %v", p, err)
		}
	}
}

// encodeImage decodes the file as an image and re-encodes it as a base64
// JPEG data URI.
func encodeImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
