package app

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"loadlink_backend/database"
	"loadlink_backend/internal/config"
	"loadlink_backend/internal/geo"
	"loadlink_backend/internal/handlers"
	"loadlink_backend/internal/logger"
	"loadlink_backend/internal/middleware"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/pkg/email"
	"loadlink_backend/internal/repositories"
	"loadlink_backend/internal/routes"
	"loadlink_backend/internal/services"
	"loadlink_backend/internal/validator"
	"loadlink_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
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
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, sqlDB)

	loadWorker := workers.NewLoadWorker(repositories.NewLoadRepository(gormDB))
	go loadWorker.Run()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter assembles the full application router. Tests call it
// directly with their own database handle.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	var sender email.Sender
	if cfg.Email.Enabled {
		smtpSender, err := email.NewSMTPSender(email.Config{
			SMTPHost:  cfg.Email.SMTPHost,
			SMTPPort:  cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP sender", "error", err)
		}
		sender = smtpSender
	} else {
		logger.Warn("Email channel disabled, using mock sender")
		sender = &MockEmailSender{}
	}

	resolver := geo.NewCachedResolver(geo.NewHTTPResolver(
		cfg.Geo.ResolverURL,
		time.Duration(cfg.Geo.TimeoutSec)*time.Second,
	))

	userRepo := repositories.NewUserRepository(gormDB)
	loadRepo := repositories.NewLoadRepository(gormDB)
	requestRepo := repositories.NewRequestRepository(gormDB)
	alertRepo := repositories.NewAlertRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	matchingService := services.NewMatchingService(userRepo, resolver)
	dispatchService := services.NewDispatchService(notificationRepo, sender, cfg)
	authService := services.NewAuthService(userRepo, sender, cfg.Email.Enabled)
	loadService := services.NewLoadService(loadRepo, userRepo, matchingService, dispatchService)
	requestService := services.NewRequestService(requestRepo, loadRepo, userRepo, notificationRepo, sender, cfg.Email.Enabled)
	alertService := services.NewAlertService(alertRepo)
	notificationService := services.NewNotificationService(notificationRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		LoadService:         loadService,
		RequestService:      requestService,
		MatchingService:     matchingService,
		DispatchService:     dispatchService,
		AlertService:        alertService,
		NotificationService: notificationService,
		EmailSender:         sender,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		LoadHandler:         handlers.NewLoadHandler(baseHandler, services.LoadService),
		RequestHandler:      handlers.NewRequestHandler(baseHandler, services.RequestService),
		AlertHandler:        handlers.NewAlertHandler(baseHandler, services.AlertService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Name:         "Administrator",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
