package staging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionchat-backend/internal/chat"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStageValidImage(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	part, path, err := s.Stage(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, chat.PartImage, part.Kind)
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	// Temp file exists until the caller releases it.
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	// The data URI decodes back to a valid JPEG.
	const prefix = "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(part.DataURI, prefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(part.DataURI, prefix))
	require.NoError(t, err)
	decoded, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Bounds().Dx())

	Cleanup([]string{path})
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStageUndecodableBytes(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	part, path, err := s.Stage(strings.NewReader("definitely not an image"))
	require.Error(t, err)
	assert.Empty(t, part.DataURI)

	var stageErr *Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, KindDecode, stageErr.Kind)

	// The temp file was created before decoding failed; the caller still
	// owns its cleanup.
	require.NotEmpty(t, path)
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
	Cleanup([]string{path})
	_, statErr = os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStageUniqueNames(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	img := pngBytes(t)
	_, p1, err := s.Stage(bytes.NewReader(img))
	require.NoError(t, err)
	_, p2, err := s.Stage(bytes.NewReader(img))
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}

func TestCleanupToleratesMissingFiles(t *testing.T) {
	// Deleting already-gone files must not panic or log an error path.
	Cleanup([]string{"", "/nonexistent/path/abc.jpg"})
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/scratch"
	_, err := New(dir)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
