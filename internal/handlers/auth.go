package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/picklematch/picklematch/internal/cache"
	"github.com/picklematch/picklematch/internal/database"
	"github.com/picklematch/picklematch/internal/handlers/dto"
	"github.com/picklematch/picklematch/internal/middleware"
	"github.com/picklematch/picklematch/internal/models"
	"github.com/picklematch/picklematch/pkg/auth"
)

const passwordCost = 12

type AuthHandler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	sessions   *cache.SessionCache
}

func NewAuthHandler(db *database.Database, jwtMgr *auth.JWTManager, sessions *cache.SessionCache) *AuthHandler {
	return &AuthHandler{db: db, jwtManager: jwtMgr, sessions: sessions}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	if _, err := h.db.FindUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	user := &models.User{
		Email:     req.Email,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := h.db.SaveUser(user); err != nil {
		// unique-index race on email lands here too
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create user"})
		return
	}

	token, err := h.issueSession(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.db.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := h.issueSession(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    user,
	})
}

// issueSession signs a token and records it in user_sessions with the
// same expiry instant. Earlier sessions stay valid.
func (h *AuthHandler) issueSession(user *models.User) (string, error) {
	token, expiresAt, err := h.jwtManager.Generate(user.ID.String())
	if err != nil {
		return "", err
	}
	session := &models.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := h.db.CreateSession(session); err != nil {
		return "", err
	}
	return token, nil
}

// Logout removes the presented token's session row. It extracts the
// token itself rather than going through AuthMiddleware: revocation
// must stay idempotent, and the middleware would reject the second
// call once the row is gone.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	if _, err := h.jwtManager.Verify(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := h.db.DeleteSession(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	h.sessions.Invalidate(c.Request.Context(), token)

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}
