package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"clickwin_backend/internal/api"
	"clickwin_backend/internal/ledger"
	"clickwin_backend/internal/middleware"
	"clickwin_backend/internal/repository"
	"clickwin_backend/internal/service"
	"clickwin_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	engineCfg, err := cfg.Ledger.ToEngineConfig()
	if err != nil {
		zapLogger.Fatal("Failed to configure ledger engine", zap.Error(err))
	}
	engine := ledger.New(engineCfg)

	repo, err := repository.New(cfg.Database, engine)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	notifier := service.NewWithdrawalNotifier()

	userService := service.NewUserService(repo)
	linkService := service.NewLinkService(repo)
	withdrawalService := service.NewWithdrawalService(repo, notifier)

	authz := middleware.NewAuthorization(userService)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService)
	api.NewLinkRoutes(a, linkService, authz)
	api.NewWithdrawalRoutes(a, withdrawalService)
	api.NewAdminRoutes(a, withdrawalService, notifier, authz)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
