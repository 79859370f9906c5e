package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/pagos-go-api/internal/config"
	"github.com/noah-isme/pagos-go-api/internal/handler"
	"github.com/noah-isme/pagos-go-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler    *handler.HealthHandler
	DashboardHandler *handler.DashboardHandler
	PaymentHandler   *handler.PaymentHandler
	ExpenseHandler   *handler.ExpenseHandler
	AuditHandler     *handler.AuditHandler
	JWTMiddleware    fiber.Handler
	AuditRoleIDs     []uint
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	if deps.HealthHandler != nil {
		deps.HealthHandler.Register(api)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.DashboardHandler != nil {
		dashboard := app.Group("/api/v1/dashboard", jwtMiddleware)
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.PaymentHandler != nil {
		payments := app.Group("/api/v1/payments", jwtMiddleware)
		deps.PaymentHandler.Register(payments)
	}

	if deps.ExpenseHandler != nil {
		expenses := app.Group("/api/v1/expenses", jwtMiddleware)
		deps.ExpenseHandler.Register(expenses)
	}

	if deps.AuditHandler != nil {
		guard := middleware.WithAuth(func(c *fiber.Ctx) error {
			return c.Next()
		}, middleware.AuthOptions{RoleIDs: deps.AuditRoleIDs})
		audit := app.Group("/api/v1/audit", jwtMiddleware, guard)
		deps.AuditHandler.Register(audit)
	}
}
