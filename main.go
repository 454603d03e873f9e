package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booknest/config"
	"booknest/cron"
	"booknest/database"
	catalogRepo "booknest/database/repository/catalog"
	"booknest/handlers"
	"booknest/middleware"
	"booknest/routes"
	"booknest/services/identity"
	"booknest/services/session"
	"booknest/utils"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	cfg := config.AppConfig

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var app *firebase.App
	if config.FirebaseEnabled() {
		var err error
		app, err = utils.FirebaseInit(ctx)
		if err != nil {
			logger.Fatal("main: firebase init failed", zap.Error(err))
		}
	}

	// Catalog.
	var (
		catalog     session.DataGateway
		mongoClient *mongo.Client
	)
	switch cfg.DataBackend {
	case "firestore":
		if app == nil {
			logger.Fatal("main: DATA_BACKEND=firestore needs FIREBASE_CREDENTIALS_FILE")
		}
		fs, err := database.InitFirestore(ctx, app)
		if err != nil {
			logger.Fatal("main: firestore init failed", zap.Error(err))
		}
		defer fs.Close()
		catalog = catalogRepo.NewFirestoreCatalog(fs)
	default:
		var err error
		mongoClient, err = database.InitDB(ctx)
		if err != nil {
			logger.Fatal("main: mongo init failed", zap.Error(err))
		}
		defer mongoClient.Disconnect(context.Background())
		mc := catalogRepo.NewMongoCatalog(database.Database(mongoClient), cfg.DatabaseTimeout)
		if err := mc.EnsureIndexes(ctx); err != nil {
			logger.Warn("main: could not ensure catalog indexes", zap.Error(err))
		}
		catalog = mc
	}
	breaker := catalogRepo.NewBreaker(catalog, catalogRepo.BreakerSettings{
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	}, logger)

	// Identity.
	otpRedis, err := utils.NewRedisClient(cfg.RedisOTPDB)
	if err != nil {
		logger.Fatal("main: redis init failed", zap.Error(err))
	}
	defer otpRedis.Close()
	queueRedis, err := utils.NewRedisClient(cfg.RedisQueueDB)
	if err != nil {
		logger.Fatal("main: redis init failed", zap.Error(err))
	}
	defer queueRedis.Close()

	var accounts identity.Accounts = identity.StaticAccounts{}
	if app != nil {
		authClient, err := app.Auth(ctx)
		if err != nil {
			logger.Fatal("main: firebase auth init failed", zap.Error(err))
		}
		accounts = identity.NewFirebaseAccounts(authClient)
	}

	queue := asynq.NewClient(utils.QueueRedisOpt())
	defer queue.Close()
	worker := cron.NewOTPWorker(utils.QueueRedisOpt(), identity.LogSender{Logger: logger.Named("otp")}, logger)
	worker.Start()
	defer worker.Shutdown()

	gateway := identity.NewGateway(
		identity.NewOTPStore(otpRedis, cfg.OTPCodeTTL, cfg.OTPMaxAttempts),
		identity.NewQueueSender(queue, cfg.OTPCodeTTL),
		accounts,
		identity.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		identity.Config{
			SendsPerHour: cfg.OTPSendsPerHour,
			TestNumbers:  cfg.TestNumbers(),
		},
		logger.Named("identity"),
	)

	// Sessions.
	sessionLogger := logger.Named("session")
	registry := session.NewRegistry(func(token string) *session.Controller {
		return session.New(gateway, breaker,
			session.WithLogger(sessionLogger),
			session.WithCountryPrefix(cfg.CountryPrefix),
			session.WithVerificationTimeout(cfg.OTPTimeout),
			session.WithResendSeconds(cfg.ResendSeconds),
			session.WithSessionToken(token),
		)
	}, sessionLogger)
	defer registry.CloseAll()

	sweeper, err := cron.StartSessionSweeper(registry, gateway, cfg.SessionIdleTTL, logger)
	if err != nil {
		logger.Fatal("main: session sweeper failed", zap.Error(err))
	}
	defer sweeper.Stop()

	utils.StartHealthMonitor(ctx, utils.HealthChecks{
		Redis:        map[string]*redis.Client{"otp": otpRedis, "queue": queueRedis},
		Mongo:        mongoClient,
		CatalogState: breaker.State,
		SessionCount: registry.Len,
	}, time.Minute)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(registry))

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}
	// Closing the sessions ends their event streams so Shutdown can finish.
	srv.RegisterOnShutdown(registry.CloseAll)

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
