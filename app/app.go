package app

import (
	"context"
	"go-auth-api/config"
	"go-auth-api/db"
	"go-auth-api/handler"
	"go-auth-api/logger"
	"go-auth-api/repository"
	"go-auth-api/router"
	"go-auth-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	cfg := config.AppConfig

	// --- Identity backend selection ---
	// Chosen once here; everything downstream only sees the resolver
	// interface and never branches on the backend again.
	var resolver service.IIdentityResolver
	var userService *service.UserService

	switch cfg.Auth.Backend {
	case "ldap":
		resolver = service.NewLDAPResolver(service.LDAPConfig{
			URL:             cfg.LDAP.URL,
			BindDN:          cfg.LDAP.BindDN,
			BindPassword:    cfg.LDAP.BindPassword,
			BaseDN:          cfg.LDAP.BaseDN,
			LoginAttribute:  cfg.LDAP.LoginAttribute,
			PoolSize:        cfg.LDAP.PoolSize,
			CheckoutTimeout: cfg.LDAP.CheckoutTimeout,
		})
		logger.Log.WithField("url", cfg.LDAP.URL).Info("Using the directory identity backend")
	case "sql", "":
		database, err := db.Connect()
		if err != nil {
			logger.Log.Fatalf("Error connecting to the database: %v", err)
		}
		defer database.Close()

		if err := db.RunMigrations("file://db/migrations"); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}

		userRepo := repository.NewUserRepository(database)
		resolver = service.NewSQLResolver(userRepo)
		userService = service.NewUserService(userRepo)
		logger.Log.Info("Using the SQL identity backend")
	default:
		logger.Log.Fatalf("Unknown auth backend %q (expected \"sql\" or \"ldap\")", cfg.Auth.Backend)
	}

	// --- Revocation ledger ---
	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()
	ledger := service.NewRedisLedger(redisClient)

	// --- Wiring All Layers Together ---
	authService := service.NewAuthService(resolver, ledger, service.TokenConfig{
		AccessPrivateKey:  cfg.JWT.AccessTokenPrivateKey,
		AccessPublicKey:   cfg.JWT.AccessTokenPublicKey,
		AccessTTL:         cfg.JWT.AccessTokenMaxAge,
		RefreshPrivateKey: cfg.JWT.RefreshTokenPrivateKey,
		RefreshPublicKey:  cfg.JWT.RefreshTokenPublicKey,
		RefreshTTL:        cfg.JWT.RefreshTokenMaxAge,
	}, cfg.Auth.BackendTimeout)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	r := router.NewRouter(authHandler, userHandler, authService)

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
