package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/preyforum/preyforum/backend/config"
	"github.com/preyforum/preyforum/backend/handlers"
	"github.com/preyforum/preyforum/backend/middleware"
	webmodels "github.com/preyforum/preyforum/backend/models"
	webservices "github.com/preyforum/preyforum/backend/services"
	"github.com/preyforum/preyforum/preyforum"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
	"github.com/preyforum/preyforum/preyforum/database"
	"github.com/preyforum/preyforum/preyforum/database/repositories"
	"github.com/preyforum/preyforum/preyforum/logger"
	"github.com/preyforum/preyforum/preyforum/progression"
	"github.com/preyforum/preyforum/preyforum/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncDB := flag.Bool("sync-db", false, "Whether to sync the database schema")
	configPath := flag.String("config", "config.toml", "Path to the config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	customHandler := logger.NewHandler("Preyforum")
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Preyforum API",
		slog.String("version", version),
		slog.String("commit", commit))

	cfg, err := preyforum.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	webCfg := config.NewWebAppConfig(cfg, *debug)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...")
	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("Database connected successfully")

	if *shouldSyncDB {
		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Failed to initialize schema", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("Database schema synced")
	}

	repos := webmodels.NewRepositories(
		repositories.NewUserRepository(db.BunDB()),
		repositories.NewCategoryRepository(db.BunDB()),
		repositories.NewPostRepository(db.BunDB()),
		repositories.NewCommentRepository(db.BunDB()),
		repositories.NewNotificationRepository(db.BunDB()),
	)

	if err := repos.Category.EnsureSeedCategories(ctx); err != nil {
		slog.Error("Failed to seed categories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	notifier := services.NewRoleChangeNotifier(repos.Notification).
		WithDiscordWebhook(cfg.Notify.WebhookID, cfg.Notify.WebhookToken)

	engine, err := progression.NewEngine(cfg.Progression.EngineConfig(), repos.User, repos.User, notifier)
	if err != nil {
		slog.Error("Failed to build progression engine", slog.String("error", err.Error()))
		os.Exit(1)
	}

	spacesService := services.NewSpacesService(
		cfg.Spaces.Key,
		cfg.Spaces.Secret,
		cfg.Spaces.Region,
		cfg.Spaces.Bucket,
		cfg.Spaces.MediaRoot,
	)

	searchService := services.NewSearchService(repos.Post, repos.Category)
	progressCards := services.NewProgressCardService()
	sessionService := webservices.NewSessionService(webCfg)

	app := fiber.New(fiber.Config{
		AppName:      "Preyforum API",
		ServerHeader: "Preyforum",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.PublicURL,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:        webCfg,
		DB:            db,
		Repos:         repos,
		Engine:        engine,
		Spaces:        spacesService,
		Search:        searchService,
		ProgressCards: progressCards,
		Sessions:      sessionService,
		Version:       version,
	}

	webApp.SetupRoutes(app)

	slog.Info("Starting server", slog.String("address", cfg.Server.Addr))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-sig
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), appconfig.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	db.Close()

	slog.Info("Server shutdown complete")
}
