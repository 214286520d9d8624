package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/http/handlers"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Tasks      *handlers.TasksHandler
	Users      *handlers.UsersHandler
	Middleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The auth middleware runs on every route
// and only establishes identity; access policy lives in the per-route guards.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Middleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/register", cfg.Auth.Register)
	app.Post("/authenticate", cfg.Auth.Authenticate)

	authGroup := app.Group("/auth")
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	task := app.Group("/task", auth.RequireAuthenticated())
	task.Post("/create", cfg.Tasks.Create)
	task.Patch("/update/:id", cfg.Tasks.Update)
	task.Post("/comment/:id", cfg.Tasks.AddComment)
	task.Get("/comment/:id", cfg.Tasks.ListComments)
	task.Get("/all", cfg.Tasks.List)
	task.Get("/all_users", cfg.Tasks.AllUsers)
	task.Get("/search", cfg.Tasks.Search)

	admin := task.Group("", auth.RequireRole(domain.RoleAdmin))
	admin.Patch("/update_admin/:id", cfg.Tasks.UpdateAdmin)
	admin.Delete("/delete/:id", cfg.Tasks.Delete)
	admin.Put("/assign/:id", cfg.Tasks.Assign)

	user := app.Group("/user", auth.RequireAuthenticated())
	user.Post("/updateInfo", cfg.Users.UpdateInfo)
}
