package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neuropharm-backend/config"
	"neuropharm-backend/internal/delivery/dto"
	deliveryHttp "neuropharm-backend/internal/delivery/http"
	"neuropharm-backend/internal/delivery/http/handler"
	"neuropharm-backend/internal/delivery/http/middleware"
	"neuropharm-backend/internal/domain/gateway"
	"neuropharm-backend/internal/infrastructure/cache"
	"neuropharm-backend/internal/infrastructure/database"
	"neuropharm-backend/internal/infrastructure/llm"
	"neuropharm-backend/internal/infrastructure/pdf"
	"neuropharm-backend/internal/infrastructure/storage"
	"neuropharm-backend/internal/repository"
	"neuropharm-backend/internal/service"
	"neuropharm-backend/internal/usecase"
	"neuropharm-backend/pkg/jwt"
	"neuropharm-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{Log: setupLogger()}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	app.Log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, cfg.Upstream.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	app.Log.Info("Redis connected successfully")

	objectStorage, err := newObjectStorage(cfg.Storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	app.Log.Infof("Object storage ready (driver %s)", cfg.Storage.Driver)

	app.initialize(objectStorage)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	return logrus.StandardLogger()
}

func newObjectStorage(cfg config.StorageConfig) (gateway.ObjectStorage, error) {
	switch cfg.Driver {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "s3", "":
		s3, err := storage.NewS3Storage(cfg)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s3.EnsureBuckets(ctx, cfg.BucketGenetic, cfg.BucketReports); err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// initialize wires every layer and creates the HTTP server
func (app *App) initialize(objectStorage gateway.ObjectStorage) {
	cfg, db, log := app.Config, app.DB, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	tokenStore := cache.NewRedisTokenStore(app.RedisClient, cfg.Upstream.Timeout)
	completer := llm.NewOpenAICompleter(cfg.OpenAI)
	renderer := pdf.NewRenderer()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	careRepo := repository.NewCareRelationshipRepository()
	profileRepo := repository.NewGeneticProfileRepository()
	evaluationRepo := repository.NewEvaluationRepository()
	reportRepo := repository.NewReportRepository()
	chatHistoryRepo := repository.NewChatHistoryRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	directory := service.NewUserDirectory(db, log, userRepo)
	registry := service.NewCareRegistry(db, log, careRepo, userRepo)
	policy := service.NewAccessPolicy(registry)
	auditService := service.NewAuditService(db, log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, cfg, userRepo, jwtService, tokenStore, auditService)
	userUsecase := usecase.NewUserUsecase(db, log, cfg, userRepo, registry, policy, auditService)
	adminUsecase := usecase.NewAdminUsecase(db, log, cfg, userRepo, registry, policy, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	geneticsUsecase := usecase.NewGeneticsUsecase(db, log, cfg, profileRepo, reportRepo, policy, auditService, objectStorage, completer, renderer)
	evaluationUsecase := usecase.NewEvaluationUsecase(db, log, cfg, profileRepo, evaluationRepo, policy, auditService, objectStorage, completer)
	reportUsecase := usecase.NewReportUsecase(db, log, cfg, userRepo, evaluationRepo, reportRepo, policy, auditService, objectStorage, renderer)
	chatUsecase := usecase.NewChatUsecase(db, log, cfg, userRepo, profileRepo, reportRepo, chatHistoryRepo, policy, completer)

	// Initialize router
	router := deliveryHttp.NewRouter(
		handler.NewAuthHandler(authUsecase, customValidator),
		handler.NewUserHandler(userUsecase, customValidator),
		handler.NewAdminHandler(adminUsecase, customValidator),
		handler.NewAuditLogHandler(auditLogUsecase),
		handler.NewGeneticsHandler(geneticsUsecase, customValidator, cfg.App.UploadMaxBytes),
		handler.NewAIHandler(evaluationUsecase, customValidator),
		handler.NewReportHandler(reportUsecase),
		handler.NewChatHandler(chatUsecase, customValidator),
		middleware.NewAuthMiddleware(jwtService, tokenStore, directory, log),
		middleware.NewRoleMiddleware(policy),
		middleware.NewCORSMiddleware(cfg.App.FrontendOrigin),
		middleware.NewLoggingMiddleware(log),
		middleware.NewRateLimiter(cfg.App.ChatRatePerMinute),
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}

// Migrate applies pending schema migrations without starting the server
func Migrate() error {
	log := setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return database.RunMigrations(database.DSN(cfg.DB), log)
}

// CreateAdmin provisions an admin account. Only the database is needed.
func CreateAdmin(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.UserResponse, error) {
	log := setupLogger()

	if err := validator.NewValidator().Validate(req); err != nil {
		return nil, fmt.Errorf("invalid admin account: %w", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env, cfg.Upstream.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer (&App{DB: db}).Close()

	userRepo := repository.NewUserRepository()
	registry := service.NewCareRegistry(db, log, repository.NewCareRelationshipRepository(), userRepo)
	users := usecase.NewUserUsecase(db, log, cfg, userRepo, registry, service.NewAccessPolicy(registry), service.NewAuditService(db, log, repository.NewAuditLogRepository()))

	return users.CreateAdmin(ctx, req)
}
