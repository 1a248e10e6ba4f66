package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-monitoring-service/config"
	deliveryHttp "patient-monitoring-service/internal/delivery/http"
	"patient-monitoring-service/internal/delivery/http/handler"
	"patient-monitoring-service/internal/delivery/http/middleware"
	"patient-monitoring-service/internal/infrastructure/cache"
	"patient-monitoring-service/internal/infrastructure/database"
	"patient-monitoring-service/internal/infrastructure/storage"
	"patient-monitoring-service/internal/repository"
	"patient-monitoring-service/internal/service"
	"patient-monitoring-service/internal/usecase"
	"patient-monitoring-service/pkg/jwt"
	"patient-monitoring-service/pkg/metrics"
	"patient-monitoring-service/pkg/validator"

	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	MinioClient *minio.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	setupLogger(cfg.Log)
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return nil, err
	}
	app.DB = db

	if cfg.App.MigrateOnStart {
		if err := database.RunMigrations(db, database.MigrateUp); err != nil {
			app.Close()
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient

	minioClient, err := storage.NewMinioClient(ctx, cfg.Minio)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.MinioClient = minioClient

	app.Server = initializeServer(cfg, db, redisClient, minioClient)

	return app, nil
}

// Migrate connects to the database, applies the migrations in the given
// direction and disconnects.
func Migrate(direction database.MigrationDirection) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogger(cfg.Log)

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	return database.RunMigrations(db, direction)
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, minioClient *minio.Client) *http.Server {
	log := logrus.StandardLogger()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(cfg.App.Name, registry)

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	transactor := database.NewTransactor(db)

	// Repositories
	userRepo := repository.NewUserRepository()
	credentialRepo := repository.NewCredentialRepository()
	metricRepo := repository.NewHealthMetricRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	messageRepo := repository.NewMessageRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo, collector)
	tokenStore := service.NewRedisTokenStore(redisClient)
	attachmentStorage := service.NewMinioAttachmentStorage(minioClient, cfg.Minio.Bucket, cfg.Minio.PublicURL)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(transactor, log, credentialRepo, jwtService, tokenStore)
	userUsecase := usecase.NewUserUsecase(transactor, log, userRepo, auditService)
	metricUsecase := usecase.NewHealthMetricUsecase(transactor, log, userRepo, metricRepo, appointmentRepo, collector)
	appointmentUsecase := usecase.NewAppointmentUsecase(transactor, log, userRepo, appointmentRepo, auditService, collector)
	messageUsecase := usecase.NewMessageUsecase(transactor, log, userRepo, messageRepo, collector)
	attachmentUsecase := usecase.NewAttachmentUsecase(transactor, log, userRepo, attachmentStorage, collector, cfg.Minio.MaxUploadBytes)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	userHandler := handler.NewUserHandler(userUsecase, customValidator)
	metricHandler := handler.NewHealthMetricHandler(metricUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	messageHandler := handler.NewMessageHandler(messageUsecase, attachmentUsecase, customValidator, cfg.Minio.MaxUploadBytes)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(authUsecase)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	router := deliveryHttp.NewRouter(
		authHandler,
		userHandler,
		metricHandler,
		appointmentHandler,
		messageHandler,
		authMiddleware,
		corsMiddleware,
		collector,
		deliveryHttp.RateLimit{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window},
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and blocks until it is shut down
func (app *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		app.Close()
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis)
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
