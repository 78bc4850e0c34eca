package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/schulportal/schulportal-api/internal/config"
	"github.com/schulportal/schulportal-api/internal/handler"
	"github.com/schulportal/schulportal-api/internal/middleware"
	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TaskHandler        *handler.TaskHandler
	NewsHandler        *handler.NewsHandler
	TeamHandler        *handler.TeamHandler
	SubmissionHandler  *handler.SubmissionHandler
	UserImportHandler  *handler.UserImportHandler
	DashboardHandler   *handler.DashboardHandler
	PermissionResolver middleware.PermissionResolver
	JWTMiddleware      fiber.Handler
	Redis              *redis.Client
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.TaskHandler != nil {
		tasks := app.Group("/api/v1/tasks", jwtMiddleware)
		deps.TaskHandler.Register(tasks)
	}

	if deps.DashboardHandler != nil {
		dashboard := app.Group("/api/v1/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.NewsHandler != nil {
		news := app.Group("/api/v1/news", jwtMiddleware)
		deps.NewsHandler.Register(news)
	}

	if deps.TeamHandler != nil {
		teams := app.Group("/api/v1/teams", jwtMiddleware)
		deps.TeamHandler.Register(teams)
	}

	if deps.SubmissionHandler != nil {
		submissions := app.Group("/api/v1/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.UserImportHandler != nil {
		userImport := app.Group("/api/v1/admin/users/import", jwtMiddleware)
		if deps.PermissionResolver != nil {
			userImport.Use(middleware.RequirePermission(deps.PermissionResolver, models.PermissionUserImport))
		}
		userImport.Use(middleware.RateLimit(deps.Redis, "user_import", 5, time.Minute))
		deps.UserImportHandler.Register(userImport)
	}
}
