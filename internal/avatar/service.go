package avatar

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Transform constants. The derivative is always a 400x400 PNG with a
// fixed brightness/saturation lift and a mild sharpen; none of this is
// user-configurable.
const (
	Size = 400

	MaxUploadBytes = 5 << 20

	brightnessPercent = 10
	saturationPercent = 20
	sharpenSigma      = 0.5
)

const urlPrefix = "/uploads"

var (
	ErrUnsupportedMedia = errors.New("only image uploads are accepted")
	ErrTooLarge         = errors.New("file exceeds the 5MB upload limit")
)

// Service turns uploaded images into stylized square avatar derivatives
// stored under <uploadDir>/avatars.
type Service struct {
	uploadDir string
	avatarDir string
}

func NewService(uploadDir string) (*Service, error) {
	avatarDir := filepath.Join(uploadDir, "avatars")
	if err := os.MkdirAll(avatarDir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &Service{uploadDir: uploadDir, avatarDir: avatarDir}, nil
}

// ValidateUpload rejects non-image and oversized uploads before any
// file is written.
func (s *Service) ValidateUpload(fh *multipart.FileHeader) error {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return ErrUnsupportedMedia
	}
	if fh.Size > MaxUploadBytes {
		return ErrTooLarge
	}
	return nil
}

// UploadPath returns a collision-free temp location for the raw upload.
func (s *Service) UploadPath(originalName string) string {
	name := "avatar-" + uuid.New().String() + filepath.Ext(originalName)
	return filepath.Join(s.uploadDir, name)
}

type Result struct {
	Filename string
	Path     string // on-disk location of the derivative
	URLPath  string // value stored on the user record
}

// CreateFromFile runs the fixed pipeline on the image at srcPath:
// center-crop to a square, resize to Size, lift brightness and
// saturation, sharpen, and write a PNG named after the user and the
// current time. Nothing is written on failure.
func (s *Service) CreateFromFile(srcPath string, userID uuid.UUID) (*Result, error) {
	src, err := imaging.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}

	img := transform(src)

	filename := fmt.Sprintf("avatar_%s_%d.png", userID, time.Now().UnixMilli())
	outPath := filepath.Join(s.avatarDir, filename)
	if err := imaging.Save(img, outPath); err != nil {
		return nil, fmt.Errorf("write avatar: %w", err)
	}

	return &Result{
		Filename: filename,
		Path:     outPath,
		URLPath:  urlPrefix + "/avatars/" + filename,
	}, nil
}

func transform(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}

	img := imaging.CropCenter(src, side, side)
	img = imaging.Resize(img, Size, Size, imaging.Lanczos)
	img = imaging.AdjustBrightness(img, brightnessPercent)
	img = imaging.AdjustSaturation(img, saturationPercent)
	img = imaging.Sharpen(img, sharpenSigma)
	return img
}

// DiskPath maps a stored avatar reference like /uploads/avatars/x.png
// back to its location on disk.
func (s *Service) DiskPath(urlPath string) string {
	rel := strings.TrimPrefix(urlPath, urlPrefix)
	return filepath.Join(s.uploadDir, filepath.FromSlash(strings.TrimPrefix(rel, "/")))
}

// CleanupResult records the outcome of a best-effort file removal.
// Callers log failures instead of failing the request on them.
type CleanupResult struct {
	Path string
	Err  error
}

// Removed reports whether the file is gone, whether we deleted it or it
// was already absent.
func (r CleanupResult) Removed() bool {
	return r.Err == nil
}

// Remove deletes a file best-effort. A missing file counts as success.
func (s *Service) Remove(path string) CleanupResult {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
	}
	return CleanupResult{Path: path, Err: err}
}
