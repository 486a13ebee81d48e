package avatar

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	path := filepath.Join(dir, "src.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
	return path
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestCreateFromFileProducesSquarePNG(t *testing.T) {
	s := newTestService(t)
	src := writeJPEG(t, t.TempDir(), 1000, 2000)

	result, err := s.CreateFromFile(src, uuid.New())
	require.NoError(t, err)

	f, err := os.Open(result.Path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, Size, img.Bounds().Dx())
	require.Equal(t, Size, img.Bounds().Dy())
}

func TestCreateFromFilePathsLineUp(t *testing.T) {
	s := newTestService(t)
	src := writeJPEG(t, t.TempDir(), 500, 500)
	userID := uuid.New()

	result, err := s.CreateFromFile(src, userID)
	require.NoError(t, err)

	require.Contains(t, result.Filename, userID.String())
	require.Equal(t, "/uploads/avatars/"+result.Filename, result.URLPath)
	require.Equal(t, result.Path, s.DiskPath(result.URLPath))
}

func TestCreateFromFileRejectsNonImage(t *testing.T) {
	s := newTestService(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-image.jpg")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := s.CreateFromFile(path, uuid.New())
	require.Error(t, err)
}

func TestValidateUpload(t *testing.T) {
	s := newTestService(t)

	header := func(contentType string, size int64) *multipart.FileHeader {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Type", contentType)
		return &multipart.FileHeader{Filename: "a.jpg", Header: h, Size: size}
	}

	require.NoError(t, s.ValidateUpload(header("image/jpeg", 1024)))
	require.NoError(t, s.ValidateUpload(header("image/png", MaxUploadBytes)))
	require.ErrorIs(t, s.ValidateUpload(header("text/plain", 1024)), ErrUnsupportedMedia)
	require.ErrorIs(t, s.ValidateUpload(header("application/pdf", 1024)), ErrUnsupportedMedia)
	require.ErrorIs(t, s.ValidateUpload(header("image/jpeg", MaxUploadBytes+1)), ErrTooLarge)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestService(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "file.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	res := s.Remove(path)
	require.True(t, res.Removed())
	require.NoFileExists(t, path)

	// a missing file is not a failure
	res = s.Remove(path)
	require.True(t, res.Removed())
}

func TestUploadPathIsCollisionFree(t *testing.T) {
	s := newTestService(t)
	a := s.UploadPath("photo.jpg")
	b := s.UploadPath("photo.jpg")
	require.NotEqual(t, a, b)
	require.Equal(t, ".jpg", filepath.Ext(a))
}
