package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"newshub/auth"
	"newshub/common"
	"newshub/config"
	"newshub/database"
	"newshub/email"
	"newshub/favorites"
	"newshub/history"
	"newshub/logger"
	"newshub/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("failed to load configuration", "error", err.Error())
	}

	log := logger.New(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	db, err := common.ConnectDb(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err.Error())
	}
	log.Info("connected to MySQL database")

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("failed to run migrations", "error", err.Error())
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(common.RequestLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	}))

	tokens := auth.NewTokenService(cfg.JWTSecret)
	mailer := email.NewService()

	api := router.Group("/api")

	authModule := auth.NewAuthModule(db, tokens, mailer, log, cfg)
	authModule.RegisterRoutes(api)

	history.NewHistoryModule(db, log, cfg.StorageTimeout).RegisterRoutes(api, authModule.RequireAuth)
	favorites.NewFavoritesModule(db, log, cfg.StorageTimeout).RegisterRoutes(api, authModule.RequireAuth)
	search.NewSearchModule(db, log, cfg.StorageTimeout).RegisterRoutes(api, authModule.RequireAuth)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	})

	setupCronJobs(authModule, log)

	log.Info("starting server", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", "error", err.Error())
	}
}

func setupCronJobs(authModule *auth.AuthModule, log *logger.Logger) {
	c := cron.New()

	// expired reset tokens are dead weight, clear them hourly
	c.AddFunc("0 * * * *", authModule.SweepExpiredResetTokens)

	c.Start()
	log.Info("background jobs scheduled")
}
