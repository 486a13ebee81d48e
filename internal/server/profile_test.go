package server

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/picklematch/picklematch/internal/avatar"
	"github.com/picklematch/picklematch/internal/models"
)

func TestUpdateProfilePartial(t *testing.T) {
	e := newTestEnv(t)

	token, _ := e.signup(t, "pat@example.com", "hunter22")

	w := e.doJSON(t, http.MethodPut, "/api/profile", token, gin.H{
		"location":      "Austin, TX",
		"elo":           1200,
		"date_of_birth": "1990-05-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.doJSON(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp authPayload
	decode(t, w, &resp)
	require.Equal(t, "Austin, TX", resp.User.Location)
	require.Equal(t, 1200, resp.User.Elo)
	require.NotNil(t, resp.User.DateOfBirth)
	require.Equal(t, "1990-05-01", *resp.User.DateOfBirth)
	// untouched fields survive the partial update
	require.Equal(t, "Pat", resp.User.FirstName)
	require.Equal(t, models.DefaultPlayerRank, resp.User.PlayerRank)
}

func TestUpdateProfileEmptyPayload(t *testing.T) {
	e := newTestEnv(t)

	token, _ := e.signup(t, "pat@example.com", "hunter22")

	w := e.doJSON(t, http.MethodPut, "/api/profile", token, gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	require.Equal(t, "no fields to update", resp["error"])
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	e := newTestEnv(t)

	token, _ := e.signup(t, "pat@example.com", "hunter22")

	w := e.doJSON(t, http.MethodPut, "/api/profile/password", token, gin.H{
		"currentPassword": "not-the-password",
		"newPassword":     "changed-pass",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// stored hash unchanged: the old password still signs in
	w = e.doJSON(t, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email":    "pat@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestChangePassword(t *testing.T) {
	e := newTestEnv(t)

	token, _ := e.signup(t, "pat@example.com", "hunter22")

	w := e.doJSON(t, http.MethodPut, "/api/profile/password", token, gin.H{
		"currentPassword": "hunter22",
		"newPassword":     "changed-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.doJSON(t, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email":    "pat@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.doJSON(t, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email":    "pat@example.com",
		"password": "changed-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

// multipartImage builds an `avatar` form part carrying a generated JPEG.
func multipartImage(t *testing.T, width, height int) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 80, A: 255})
		}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="avatar"; filename="photo.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(part, img, nil))
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (e *testEnv) uploadAvatar(t *testing.T, token string, width, height int) *userPayload {
	t.Helper()
	body, contentType := multipartImage(t, width, height)
	w := e.do(t, http.MethodPost, "/api/profile/avatar", token, body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp authPayload
	decode(t, w, &resp)
	require.NotNil(t, resp.User)
	return resp.User
}

func (e *testEnv) avatarDiskPath(urlPath string) string {
	return filepath.Join(e.srv.cfg.UploadDir, "avatars", filepath.Base(urlPath))
}

func TestAvatarUploadProducesDerivative(t *testing.T) {
	e := newTestEnv(t)

	token, _ := e.signup(t, "pat@example.com", "hunter22")

	user := e.uploadAvatar(t, token, 1000, 2000)
	require.NotNil(t, user.Avatar)
	require.Contains(t, *user.Avatar, "/uploads/avatars/")

	f, err := os.Open(e.avatarDiskPath(*user.Avatar))
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, avatar.Size, img.Bounds().Dx())
	require.Equal(t, avatar.Size, img.Bounds().Dy())
}

func TestAvatarUploadReplacesOldFile(t *testing.T) {
	e := newTestEnv(t)

	token, _ := e.signup(t, "pat@example.com", "hunter22")

	first := e.uploadAvatar(t, token, 600, 600)
	firstPath := e.avatarDiskPath(*first.Avatar)
	require.FileExists(t, firstPath)

	second := e.uploadAvatar(t, token, 800, 400)
	require.NotEqual(t, *first.Avatar, *second.Avatar)
	require.FileExists(t, e.avatarDiskPath(*second.Avatar))
	require.NoFileExists(t, firstPath)
}

func TestAvatarUploadRejectsNonImage(t *testing.T) {
	e := newTestEnv(t)

	token, _ := e.signup(t, "pat@example.com", "hunter22")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="avatar"; filename="notes.txt"`)
	h.Set("Content-Type", "text/plain")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp := e.do(t, http.MethodPost, "/api/profile/avatar", token, &buf, w.FormDataContentType())
	require.Equal(t, http.StatusBadRequest, resp.Code)

	// no partial state: the user still has no avatar
	me := e.doJSON(t, http.MethodGet, "/api/auth/me", token, nil)
	var payload authPayload
	decode(t, me, &payload)
	require.Nil(t, payload.User.Avatar)
}

func TestAvatarDeleteIsIdempotent(t *testing.T) {
	e := newTestEnv(t)

	token, _ := e.signup(t, "pat@example.com", "hunter22")

	user := e.uploadAvatar(t, token, 500, 500)
	diskPath := e.avatarDiskPath(*user.Avatar)
	require.FileExists(t, diskPath)

	w := e.doJSON(t, http.MethodDelete, "/api/profile/avatar", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp authPayload
	decode(t, w, &resp)
	require.Nil(t, resp.User.Avatar)
	require.NoFileExists(t, diskPath)

	// deleting an absent avatar is still a success
	w = e.doJSON(t, http.MethodDelete, "/api/profile/avatar", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}
