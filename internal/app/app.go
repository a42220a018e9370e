package app

import (
	"errors"
	"time"

	"ordersvc/internal/config"
	"ordersvc/internal/handlers"
	"ordersvc/internal/middleware"
	"ordersvc/internal/repositories"
	"ordersvc/internal/services"
	"ordersvc/internal/services/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// NewApp wires the order service on top of db. checkout backs the STRIPE payment method.
func NewApp(cfg config.Config, db *gorm.DB, checkout payment.CheckoutProvider) (*fiber.App, *services.AuthService, error) {
	if err := repositories.Migrate(db); err != nil {
		return nil, nil, err
	}

	// --- Repositories ---
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	payments := payment.NewRegistry()
	payments.Register(payment.MethodStripe, payment.NewStripeCheckout(checkout, cfg.DomainName))

	orderService := services.NewOrderService(orderRepo, payments, services.WithPaymentTimeout(cfg.PaymentTimeout))
	authService := services.NewAuthService(cfg.JWTSecret)

	// --- Handlers ---
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(recover.New())
	app.Use(logger.New())

	api := app.Group("/api")
	orderHandler.RegisterRoutes(api, middleware.AuthRequired(authService))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, authService, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": "Request failed",
		"error":   err.Error(),
	})
}
