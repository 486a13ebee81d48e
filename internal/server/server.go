package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"github.com/picklematch/picklematch/internal/avatar"
	"github.com/picklematch/picklematch/internal/cache"
	"github.com/picklematch/picklematch/internal/config"
	"github.com/picklematch/picklematch/internal/database"
	"github.com/picklematch/picklematch/internal/handlers"
	"github.com/picklematch/picklematch/internal/middleware"
	"github.com/picklematch/picklematch/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager

	cfg  *config.Config
	cron *cron.Cron
}

func New(cfg *config.Config, db *database.Database, rdb *redis.Client) (*Server, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	sessions := cache.NewSessionCache(rdb)

	avatars, err := avatar.NewService(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	authH := handlers.NewAuthHandler(db, jwtMgr, sessions)
	profileH := handlers.NewProfileHandler(db)
	avatarH := handlers.NewAvatarHandler(db, avatars)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	if cfg.CORSOrigin != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = []string{cfg.CORSOrigin}
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders("Authorization")
		router.Use(cors.New(corsCfg))
	}

	router.Static("/uploads", cfg.UploadDir)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	APIEndpoints(router, authH, profileH, avatarH, middleware.AuthMiddleware(jwtMgr, db, sessions))

	// expired session rows are inert but still swept to bound table growth
	cr := cron.New()
	cr.AddFunc("@hourly", func() {
		n, err := db.DeleteExpiredSessions(time.Now())
		if err != nil {
			log.Printf("session sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("session sweep removed %d expired sessions", n)
		}
	})

	return &Server{
		Router:     router,
		DB:         db,
		Redis:      rdb,
		JWTManager: jwtMgr,
		cfg:        cfg,
		cron:       cr,
	}, nil
}

func (s *Server) Run() error {
	s.cron.Start()
	defer s.cron.Stop()

	log.Printf("server starting on port %s", s.cfg.Port)
	return s.Router.Run(":" + s.cfg.Port)
}
