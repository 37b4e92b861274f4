package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/happyshop-api/internal/application/auth"
	"github.com/jhoicas/happyshop-api/internal/application/checkout"
	"github.com/jhoicas/happyshop-api/internal/domain/entity"
)

// Roles del token.
const (
	RoleCustomer  = "customer"
	RoleManager   = string(entity.StaffRoleManager)
	RolePicker    = string(entity.StaffRolePicker)
	RoleWarehouse = string(entity.StaffRoleWarehouse)
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	PaymentUC      *checkout.PaymentUseCase
	Sessions       SessionChecker
	MetricsHandler nethttp.Handler
	JWTSecret      string
	ServiceName    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api")
	authHandler := NewAuthHandler(deps.AuthUC)

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (Bearer Token de la sesión activa)
	requireAuth := AuthMiddleware(deps.JWTSecret, deps.Sessions)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	api.Post("/staff", requireAuth, RequireRole(RoleManager), authHandler.RegisterStaff)

	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	api.Post("/checkout/payments", requireAuth, paymentHandler.Pay)
	api.Get("/orders/:orderId/transactions", requireAuth,
		RequireRole(RoleManager, RoleWarehouse, RolePicker), paymentHandler.History)
	api.Get("/transactions/:id/receipt", requireAuth, paymentHandler.Receipt)
}
