package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"jobboard_backend/database"
	"jobboard_backend/internal/billing"
	"jobboard_backend/internal/config"
	"jobboard_backend/internal/email"
	"jobboard_backend/internal/handlers"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/repositories"
	"jobboard_backend/internal/routes"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/validator"
	"jobboard_backend/internal/workers"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the outbound adapters. Tests replace them with fakes.
type Dependencies struct {
	Mailer  email.Mailer
	Gateway billing.Gateway
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Debug)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	defer sqlDB.Close()
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(gormDB); err != nil {
			logger.Fatal("Failed to apply migrations", "error", err)
		}
	}

	ginRouter := SetupRouter(cfg, gormDB, Dependencies{
		Mailer:  newMailer(cfg),
		Gateway: newGateway(cfg),
	})

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Workers.SweepIntervalMinutes > 0 {
		workers.NewSubscriptionWorker(
			gormDB,
			repositories.NewSubscriptionRepository(),
			time.Duration(cfg.Workers.SweepIntervalMinutes)*time.Minute,
			time.Duration(cfg.Workers.LapseGraceHours)*time.Hour,
		).Start(ctx)
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, deps Dependencies) *gin.Engine {
	repos := services.NewRepositories()

	// 1. Services
	serviceContainer := initializeServices(cfg, repos, deps)

	// 2. Handlers
	appHandlers := initializeHandlers(serviceContainer, deps.Gateway)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Routes
	routes.RegisterRoutes(ginRouter, cfg, appHandlers, repos.User)

	return ginRouter
}

func initializeServices(cfg *config.Config, repos services.Repositories, deps Dependencies) *services.ServiceContainer {
	return services.NewServiceContainer(services.Deps{
		Repos:        repos,
		Mailer:       deps.Mailer,
		Gateway:      deps.Gateway,
		Catalog:      billing.NewCatalog(cfg.Billing.Prices),
		MonthlyGrant: cfg.Billing.MonthlyTalentGrant,
	})
}

func initializeHandlers(svc *services.ServiceContainer, gateway billing.Gateway) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		TeamHandler:        handlers.NewTeamHandler(baseHandler, svc.TeamService),
		JobHandler:         handlers.NewJobHandler(baseHandler, svc.JobService, svc.ExportService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, svc.ApplicationService),
		LedgerHandler:      handlers.NewLedgerHandler(baseHandler, svc.CreditService, svc.SubscriptionService, svc.BillingService, svc.TalentService),
		WebhookHandler:     handlers.NewWebhookHandler(baseHandler, gateway, svc.BillingService),
		HealthHandler:      handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware("/health", cfg.Metrics.Path))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func newMailer(cfg *config.Config) email.Mailer {
	if cfg.Email.Driver == "log" || cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP not configured, interview invites are only logged")
		return email.NewLogMailer()
	}
	return email.NewSMTPMailer(email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
	})
}

func newGateway(cfg *config.Config) billing.Gateway {
	gateway := billing.NewStripeGateway(cfg)
	if cfg.Billing.SecretKey == "" {
		logger.Warn("Billing secret key not set, checkout is disabled")
		return disabledGateway{StripeGateway: gateway}
	}
	return gateway
}
