package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mehmetcc/virtual-wardrobe/docs"
	"github.com/mehmetcc/virtual-wardrobe/internal/authentication"
	"github.com/mehmetcc/virtual-wardrobe/internal/user"
	"github.com/mehmetcc/virtual-wardrobe/internal/utils"
)

// @title           Virtual Wardrobe API
// @version         1.0
// @description     Accounts and sessions for the virtual wardrobe.
//
// @host      localhost:8080
// @BasePath  /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load config
	cfg, err := utils.LoadConfig(".env")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// init logger
	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Token.InsecureDefault {
		logger.Warn("JWT_SECRET is not set; using the insecure development secret")
	}
	if len(cfg.Token.Secret) < utils.MinSigningKeyBytes {
		logger.Warn("JWT_SECRET is shorter than 256 bits and will be zero-padded; use a longer secret")
	}

	// init database
	db, err := utils.InitDatabase(cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect to the database", zap.Error(err))
	}
	if err := db.AutoMigrate(&user.User{}, &authentication.RefreshToken{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if cfg.Env == utils.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.RequestLogger(logger), gin.Recovery())
	if len(cfg.Cors.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Cors.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	//
	// SWAGGER (protected by Basic Auth, not JWT)
	//
	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		swaggerGroup := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.Admin.Username: cfg.Admin.Password,
		}))
		swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	//
	// WIRE UP SERVICES
	//
	userRepo := user.NewUserRepository(db)
	userService := user.NewUserService(userRepo, logger)

	recordRepo := authentication.NewRefreshTokenRepository(db)
	authService, err := authentication.NewAuthenticationService(userService, recordRepo, cfg.Token, logger)
	if err != nil {
		logger.Fatal("failed to initialize authentication service", zap.Error(err))
	}

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := api.Group("/", authentication.RateLimitMiddleware(cfg.RateLimit.AuthPerSecond))
	authentication.NewAuthHandler(
		authGroup,
		authService,
		userService,
		authentication.NewCookiePolicy(cfg.Development()),
		logger,
	)

	userHandler := user.NewUserHandler(userService, logger)

	protected := api.Group("/", authentication.AuthMiddleware(cfg.Token, logger))
	userHandler.RegisterSelfRoutes(protected)

	admin := protected.Group("/", authentication.AdminMiddleware(userService, logger))
	userHandler.RegisterAdminRoutes(admin)

	//
	// START SERVER
	//
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped gracefully")
	}
}
