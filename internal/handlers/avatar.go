package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/picklematch/picklematch/internal/avatar"
	"github.com/picklematch/picklematch/internal/database"
	"github.com/picklematch/picklematch/internal/middleware"
)

type AvatarHandler struct {
	db      *database.Database
	avatars *avatar.Service
}

func NewAvatarHandler(db *database.Database, avatars *avatar.Service) *AvatarHandler {
	return &AvatarHandler{db: db, avatars: avatars}
}

// Upload runs the avatar pipeline and swaps the derivative in for the
// user's current avatar. The user row is only touched after the new
// file is safely on disk; old-file and temp-file removal are
// best-effort and never fail the request.
func (h *AvatarHandler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if err := h.avatars.ValidateUpload(fh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tmpPath := h.avatars.UploadPath(fh.Filename)
	if err := c.SaveUploadedFile(fh, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	result, err := h.avatars.CreateFromFile(tmpPath, user.ID)
	if err != nil {
		logCleanup(h.avatars.Remove(tmpPath))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process avatar"})
		return
	}

	if user.Avatar != nil {
		logCleanup(h.avatars.Remove(h.avatars.DiskPath(*user.Avatar)))
	}

	if err := h.db.SetAvatar(user.ID, &result.URLPath); err != nil {
		logCleanup(h.avatars.Remove(result.Path))
		logCleanup(h.avatars.Remove(tmpPath))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update avatar"})
		return
	}

	logCleanup(h.avatars.Remove(tmpPath))

	updated, err := h.db.GetUser(user.ID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    updated,
		"message": "avatar updated successfully",
	})
}

// Delete clears the avatar reference. Deleting when no avatar is set is
// a no-op, not an error.
func (h *AvatarHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if user.Avatar != nil {
		logCleanup(h.avatars.Remove(h.avatars.DiskPath(*user.Avatar)))
	}

	if err := h.db.SetAvatar(user.ID, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete avatar"})
		return
	}

	updated, err := h.db.GetUser(user.ID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": updated})
}

func logCleanup(r avatar.CleanupResult) {
	if !r.Removed() {
		log.Printf("could not remove %s: %v", r.Path, r.Err)
	}
}
