package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/record-service/internal/api/http/handlers"
	"github.com/spec-kit/record-service/internal/auth"
)

// PublicPaths are exempt from the auth gate: auth entry points, token
// probing, availability checks, health and anything under /api/public.
var PublicPaths = []string{
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/validate",
	"/api/auth/check-username",
	"/api/auth/check-email",
	"/api/auth/check-phone",
	"/api/health",
	"/api/health/ready",
	"/api/public/*",
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Users        *handlers.UsersHandler
	Categories   *handlers.CategoriesHandler
	Transactions *handlers.TransactionsHandler
	Statistics   *handlers.StatisticsHandler
	AuthGate     *auth.AuthGate
	RateLimiter  fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api", cfg.AuthGate.Handle)

	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)

	authGroup := api.Group("/auth")
	if cfg.RateLimiter != nil {
		authGroup.Use(cfg.RateLimiter)
	}
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/validate", cfg.Auth.Validate)
	authGroup.Get("/check-username", cfg.Auth.CheckUserName)
	authGroup.Get("/check-email", cfg.Auth.CheckEmail)
	authGroup.Get("/check-phone", cfg.Auth.CheckPhone)

	userGroup := api.Group("/user")
	userGroup.Get("/profile", cfg.Users.Profile)
	userGroup.Put("/profile", cfg.Users.UpdateProfile)
	userGroup.Get("/status", cfg.Users.Status)

	categoryGroup := api.Group("/category")
	categoryGroup.Get("/list", cfg.Categories.List)
	categoryGroup.Get("/tree", cfg.Categories.Tree)
	categoryGroup.Post("", cfg.Categories.Create)
	categoryGroup.Get("/:id", cfg.Categories.Get)
	categoryGroup.Put("/:id", cfg.Categories.Update)
	categoryGroup.Delete("/:id", cfg.Categories.Delete)

	transactionGroup := api.Group("/transaction")
	transactionGroup.Get("/page", cfg.Transactions.Page)
	transactionGroup.Post("/create", cfg.Transactions.Create)

	statisticsGroup := api.Group("/statistics")
	statisticsGroup.Get("/summary", cfg.Statistics.Summary)
	statisticsGroup.Get("/breakdown", cfg.Statistics.Breakdown)
}
