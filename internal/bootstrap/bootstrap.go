// Package bootstrap wires configuration, storage, services and routes
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/emskillz/instructpoint/docs" // Import generated swagger docs
	"github.com/emskillz/instructpoint/internal/app/access"
	appControllers "github.com/emskillz/instructpoint/internal/app/controllers"
	"github.com/emskillz/instructpoint/internal/app/ingest"
	appMigrations "github.com/emskillz/instructpoint/internal/app/migrations"
	appRepos "github.com/emskillz/instructpoint/internal/app/repositories"
	appRoutes "github.com/emskillz/instructpoint/internal/app/routes"
	appServices "github.com/emskillz/instructpoint/internal/app/services"
	"github.com/emskillz/instructpoint/internal/config"
	"github.com/emskillz/instructpoint/internal/db"
	"github.com/emskillz/instructpoint/internal/jobs"
	appMiddleware "github.com/emskillz/instructpoint/internal/middleware"
	pkgAuth "github.com/emskillz/instructpoint/internal/pkg/auth"
	"github.com/emskillz/instructpoint/internal/pkg/describe"
	"github.com/emskillz/instructpoint/internal/pkg/email"
	"github.com/emskillz/instructpoint/internal/pkg/filestorage"
	"github.com/emskillz/instructpoint/internal/pkg/helpers"
	"github.com/emskillz/instructpoint/internal/pkg/logger"
	"github.com/emskillz/instructpoint/internal/pkg/websocket"
	"github.com/emskillz/instructpoint/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	InstructorService    appServices.InstructorService
	CourseService        appServices.CourseService
	CurriculumService    appServices.CurriculumService
	ChatService          appServices.ChatService
	DocumentService      appServices.DocumentService
	AuthController       *appControllers.AuthController
	InstructorController *appControllers.InstructorController
	CourseController     *appControllers.CourseController
	CurriculumController *appControllers.CurriculumController
	ChatController       *appControllers.ChatController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	FileStorage          *filestorage.LocalStorage
	EmailSender          email.Sender
	Hub                  *websocket.Hub
	WSHandler            *websocket.Handler
	MessageHandler       *websocket.MessageHandler
	Scheduler            *jobs.Scheduler
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// creates default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	// File storage for personal documents, served under /uploads
	var err error
	baseURL := "http://localhost:" + cfg.Server.Port + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.BasePath, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	if cfg.Email.SendGridAPIKey != "" {
		deps.EmailSender = email.NewSendGridSender(email.Config{
			APIKey:      cfg.Email.SendGridAPIKey,
			FromName:    cfg.Email.FromName,
			FromAddress: cfg.Email.FromAddress,
		}, lgr)
	} else {
		lgr.Warn().Msg("No SendGrid API key configured, email notifications disabled")
		deps.EmailSender = email.NewNoopSender(lgr)
	}

	// Course description generation with a per-course-type cache. The
	// client reports an error when no API key is configured and callers
	// fall back to the standard catalog descriptions.
	describeCache := describe.NewCache(cfg.AI.CacheSize, cfg.AICacheTTL())
	describer := describe.NewClient(describe.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AITimeout(),
	}, describeCache, lgr)

	resolver := access.NewResolver()
	pipeline := ingest.NewPipeline(
		deps.Repos.CourseRepository,
		deps.Repos.InstructorRepository,
		describer,
		cfg.AITimeout(),
		lgr,
	)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.InstructorRepository,
		deps.JWTService,
		lgr,
	)
	deps.InstructorService = appServices.NewInstructorService(
		deps.Repos.InstructorRepository,
		deps.Repos.UserRepository,
		resolver,
		deps.EmailSender,
		lgr,
	)
	deps.CourseService = appServices.NewCourseService(
		deps.Repos.CourseRepository,
		deps.Repos.InstructorRepository,
		resolver,
		pipeline,
		describer,
		cfg.AITimeout(),
		lgr,
	)
	deps.CurriculumService = appServices.NewCurriculumService(deps.Repos.CurriculumRepository)
	deps.ChatService = appServices.NewChatService(deps.Repos.ChatRepository, lgr)
	deps.DocumentService = appServices.NewDocumentService(
		deps.Repos.DocumentRepository,
		deps.Repos.InstructorRepository,
		resolver,
		deps.FileStorage,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	// Websocket hub, its persistence listener and the connection handler
	deps.Hub = websocket.NewHub(lgr)
	deps.WSHandler = websocket.NewHandler(deps.Hub, lgr)
	deps.MessageHandler = websocket.NewMessageHandler(
		deps.Repos.ChatRepository,
		deps.Repos.UserRepository,
		deps.Hub,
		lgr,
	)

	scanner := jobs.NewCertificationScanner(
		deps.Repos.InstructorRepository,
		deps.EmailSender,
		cfg.CertificationExpiryWindow(),
		lgr,
	)
	deps.Scheduler, err = jobs.NewScheduler(scanner, cfg.Jobs.CertificationScanSchedule, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize job scheduler")
		return nil, fmt.Errorf("failed to initialize job scheduler: %w", err)
	}

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.InstructorController = appControllers.NewInstructorController(deps.InstructorService, deps.DocumentService, lgr)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService, lgr)
	deps.CurriculumController = appControllers.NewCurriculumController(deps.CurriculumService, lgr)
	deps.ChatController = appControllers.NewChatController(deps.ChatService, deps.Hub, lgr)

	return deps, nil
}

// Start launches the background goroutines the application needs.
func (deps *Dependencies) Start() {
	go deps.Hub.Run()
	deps.MessageHandler.Start()
	deps.Scheduler.Start()
}

// Stop shuts background work down.
func (deps *Dependencies) Stop() {
	deps.Scheduler.Stop()
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Setup Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	// Serve uploaded files
	router.Static("/uploads", cfg.Storage.BasePath)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.InstructorController,
		deps.CourseController,
		deps.CurriculumController,
		deps.ChatController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}
