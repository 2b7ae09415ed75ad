package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-booking/config"
	deliveryHttp "hospital-booking/internal/delivery/http"
	"hospital-booking/internal/delivery/http/handler"
	"hospital-booking/internal/delivery/http/middleware"
	"hospital-booking/internal/infrastructure/cache"
	"hospital-booking/internal/infrastructure/database"
	"hospital-booking/internal/repository"
	"hospital-booking/internal/service"
	"hospital-booking/internal/usecase"
	"hospital-booking/internal/worker"
	"hospital-booking/pkg/jwt"
	"hospital-booking/pkg/metrics"
	"hospital-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config           *config.Config
	Log              *logrus.Logger
	DB               *gorm.DB
	RedisClient      *redis.Client
	Server           *http.Server
	CompletionWorker *worker.CompletionWorker
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Apply schema before opening the pool
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB, log); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize all layers
	if err := app.initialize(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures a JSON logrus logger; unknown levels fall back to info.
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}

// initialize wires repositories, services, usecases, handlers and the server
func (app *App) initialize() error {
	cfg := app.Config
	log := app.Log

	catalog, err := service.NewSlotCatalog(cfg.Booking)
	if err != nil {
		return fmt.Errorf("failed to build slot catalog: %w", err)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	collector := metrics.NewCollector(cfg.App.Name)
	transactor := database.NewTransactor(app.DB)

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	doctorRepo := repository.NewDoctorRepository()
	paymentRepo := repository.NewPaymentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	availabilityCache := service.NewAvailabilityCache(app.RedisClient, log, cfg.Redis.AvailabilityTTL, catalog.Location())

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(transactor, log, appointmentRepo, doctorRepo, paymentRepo,
		catalog, availabilityCache, auditService, collector, cfg.Booking.NoteMaxLength)
	availabilityUsecase := usecase.NewAvailabilityUsecase(transactor, log, doctorRepo, appointmentRepo,
		catalog, availabilityCache, collector)
	doctorUsecase := usecase.NewDoctorUsecase(transactor, log, doctorRepo, auditService)
	paymentUsecase := usecase.NewPaymentUsecase(transactor, log, paymentRepo, appointmentRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(transactor, log, auditLogRepo)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, availabilityUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)
	accessLogMiddleware := middleware.NewAccessLogMiddleware(log, collector)

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, doctorHandler, paymentHandler, auditLogHandler,
		authMiddleware, corsMiddleware, accessLogMiddleware, collector, cfg.Booking.RequestTimeout)
	httpRouter := router.Setup()

	completionWorker, err := worker.NewCompletionWorker(appointmentUsecase, log, cfg.Booking.CompletionSpec, cfg.Booking.RequestTimeout)
	if err != nil {
		return err
	}
	app.CompletionWorker = completionWorker

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.CompletionWorker.Start()

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Stop background jobs before their connections go away
	app.CompletionWorker.Stop()

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
