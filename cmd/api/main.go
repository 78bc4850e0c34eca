package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/schulportal/schulportal-api/internal/config"
	"github.com/schulportal/schulportal-api/internal/database"
	"github.com/schulportal/schulportal-api/internal/handler"
	"github.com/schulportal/schulportal-api/internal/middleware"
	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/repository"
	"github.com/schulportal/schulportal-api/internal/router"
	"github.com/schulportal/schulportal-api/internal/service"
	cloud "github.com/schulportal/schulportal-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Task{},
		&models.Submission{},
		&models.News{},
		&models.Team{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	authorization := service.NewTaskAuthorizationService(courseRepo, lessonRepo, logger)
	taskService := service.NewTaskService(taskRepo, userRepo, authorization, logger)
	submissionService := service.NewSubmissionService(submissionRepo, taskRepo, userRepo, authorization, validate, uploader, logger)
	newsService := service.NewNewsService(newsRepo, userRepo, teamRepo, authorization, redisClient, natsConn, cfg.EventChannelPrefix, validate, logger)
	teamService := service.NewTeamService(teamRepo, userRepo, validate, logger)
	dashboardService := service.NewDashboardService(taskService, redisClient, cfg.DashboardCacheTTL, logger)

	userImportService, err := service.NewUserImportService(userRepo, roleRepo, logger)
	if err != nil {
		log.Fatalf("failed to create user import service: %v", err)
	}

	taskHandler := handler.NewTaskHandler(taskService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, validate, logger)
	newsHandler := handler.NewNewsHandler(newsService, validate, logger)
	teamHandler := handler.NewTeamHandler(teamService, validate, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	userImportHandler := handler.NewUserImportHandler(userImportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TaskHandler:        taskHandler,
		NewsHandler:        newsHandler,
		TeamHandler:        teamHandler,
		SubmissionHandler:  submissionHandler,
		UserImportHandler:  userImportHandler,
		DashboardHandler:   dashboardHandler,
		PermissionResolver: userRepo,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		Redis:              redisClient,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
