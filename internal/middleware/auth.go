package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/picklematch/picklematch/internal/cache"
	"github.com/picklematch/picklematch/internal/database"
	"github.com/picklematch/picklematch/internal/models"
	"github.com/picklematch/picklematch/pkg/auth"
)

const (
	UserKey  = "currentUser"
	TokenKey = "authToken"
)

// AuthMiddleware gates protected routes: the bearer token must carry a
// valid signature, match a live row in user_sessions, and resolve to an
// existing user. The session cache is only a fast path; expiry is
// re-checked here either way.
func AuthMiddleware(jwtManager *auth.JWTManager, db *database.Database, sessions *cache.SessionCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		now := time.Now()
		_, expiresAt, ok := sessions.Get(c.Request.Context(), token)
		if !ok {
			session, err := db.FindActiveSession(token, now)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				c.Abort()
				return
			}
			expiresAt = session.ExpiresAt
			sessions.Put(c.Request.Context(), token, session.UserID.String(), session.ExpiresAt)
		}
		if !expiresAt.After(now) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			c.Abort()
			return
		}

		user, err := db.GetUser(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(UserKey).(*models.User)
}
