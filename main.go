package main

import (
	"time"

	"content-restriction/config"
	"content-restriction/database"
	routes "content-restriction/internal/app/http"
	"content-restriction/internal/infra/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	if err := logger.Init(config.APP_ENV); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB(config.DB_URL)

	r := gin.Default()

	// CORS before the routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.NewServices(database.DB, logger.Log))

	logger.Log.Info("listening", zap.String("port", config.PORT), zap.Bool("forum_context", config.FORUM_CONTEXT))
	if err := r.Run(":" + config.PORT); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
