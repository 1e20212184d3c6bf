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

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/config"
	deliveryHttp "github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/http"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/http/handler"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/delivery/http/middleware"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/infrastructure/cache"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/infrastructure/database"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/repository"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/usecase"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/jwt"
	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/validator"

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
	Server      *http.Server
	Validator   *validator.CustomValidator
	AuthUsecase usecase.AuthUsecase
	log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, envFile string) (*App, error) {
	// Load configuration
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	app := &App{Config: cfg, log: SetupLogger(cfg.App)}
	app.log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsDevelopment(), app.log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	if err := app.initializeServer(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// SetupLogger configures the shared logrus logger from the app config.
func SetupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// initializeServer wires repositories, services, usecases and handlers into the HTTP server
func (app *App) initializeServer() error {
	cfg, db, log := app.Config, app.DB, app.log

	grid, err := cfg.Schedule.Grid()
	if err != nil {
		return fmt.Errorf("invalid schedule config: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT)
	app.Validator = validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	dentistRepo := repository.NewDentistRepository()
	patientRepo := repository.NewPatientRepository()
	treatmentRepo := repository.NewTreatmentRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	metrics := service.NewMetricsService()
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewRedisTokenStore(app.RedisClient)
	scheduler := service.NewSchedulingService(db, log, appointmentRepo, dentistRepo, service.SchedulingOptions{
		Grid:           grid,
		MaxSuggestions: cfg.Schedule.MaxSuggestions,
		MergeFreeCells: cfg.Schedule.MergeFreeCells,
	})

	// Initialize usecases
	app.AuthUsecase = usecase.NewAuthUsecase(db, log, userRepo, dentistRepo, auditService, jwtService, tokenStore)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, patientRepo, dentistRepo, treatmentRepo, scheduler, auditService, metrics)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, auditService)
	dentistUsecase := usecase.NewDentistUsecase(db, log, dentistRepo, auditService, tokenStore)
	treatmentUsecase := usecase.NewTreatmentUsecase(db, log, treatmentRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(app.AuthUsecase, app.Validator, jwtService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, app.Validator)
	patientHandler := handler.NewPatientHandler(patientUsecase, app.Validator)
	dentistHandler := handler.NewDentistHandler(dentistUsecase, app.Validator)
	treatmentHandler := handler.NewTreatmentHandler(treatmentUsecase, app.Validator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, app.Validator)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return app.RedisClient.Ping(ctx).Err()
		},
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	metricsMiddleware := middleware.NewMetricsMiddleware(metrics, log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		patientHandler,
		dentistHandler,
		treatmentHandler,
		auditLogHandler,
		healthHandler,
		metrics,
		authMiddleware,
		corsMiddleware,
		metricsMiddleware,
	)

	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}
	return nil
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func (app *App) Run() error {
	serverErr := make(chan error, 1)
	go func() {
		app.log.Infof("Server starting on port %s", app.Config.App.Port)
		app.log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		app.log.Errorf("Failed to start server: %v", err)
		app.Close()
		return err
	case <-quit:
	}

	app.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.log.Info("Server shutdown complete")
	return nil
}

// Close closes all connections (database, redis, etc.)
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
