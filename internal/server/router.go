package server

import (
	"github.com/gin-gonic/gin"

	"github.com/picklematch/picklematch/internal/handlers"
)

func APIEndpoints(r *gin.Engine, authH *handlers.AuthHandler, profileH *handlers.ProfileHandler, avatarH *handlers.AvatarHandler, authRequired gin.HandlerFunc) {
	api := r.Group("/api")

	api.GET("/health", handlers.Health)

	// Auth endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authH.Signup)
		auth.POST("/signin", authH.Signin)
		// logout handles its own token so revocation stays idempotent
		auth.POST("/logout", authH.Logout)
	}
	api.GET("/auth/me", authRequired, authH.Me)

	// Profile endpoints
	profile := api.Group("/profile", authRequired)
	{
		profile.GET("", profileH.GetProfile)
		profile.PUT("", profileH.UpdateProfile)
		profile.PUT("/password", profileH.ChangePassword)
		profile.POST("/avatar", avatarH.Upload)
		profile.DELETE("/avatar", avatarH.Delete)
	}
}
