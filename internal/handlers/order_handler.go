package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ordersvc/internal/middleware"
	"ordersvc/internal/models"
	"ordersvc/internal/repositories"
	"ordersvc/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	now      func() time.Time
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		now:      time.Now,
	}
}

// RegisterRoutes registers the order routes under /orders. auth guards the routes that act
// on the caller's own orders.
//
// The per-user listing, the full listing, status updates and both stats routes perform no
// ownership or role check; any client reaching the service can call them.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", auth, h.HandleCreateOrder)
	orderRoutes.Get("/", auth, h.HandleGetMyOrders)
	orderRoutes.Get("/all", h.HandleGetAllOrders)
	orderRoutes.Get("/user/:userId", h.HandleGetOrdersByUserID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Get("/stats/user/:userId", h.HandleGetUserStats)
	orderRoutes.Get("/stats/seller/:sellerId", h.HandleGetSellerStats)
}

// CreateOrderRequest is the checkout payload. Identity, status, ID and timestamps are
// never read from the client.
type CreateOrderRequest struct {
	Items           []models.OrderItem      `json:"items"`
	TotalAmount     decimal.Decimal         `json:"totalAmount"`
	PaymentMethod   string                  `json:"paymentMethod" validate:"omitempty,max=64"`
	PaymentDetails  map[string]string       `json:"paymentDetails"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
}

// UpdateStatusRequest is the body of PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleCreateOrder creates an order for the authenticated caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Could not determine the caller's identity",
		})
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		slog.WarnContext(c.UserContext(), "Error parsing create order body", slog.Any("error", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	draft := &models.Order{
		UserID:          identity.UserID,
		CustomerEmail:   identity.Email,
		Items:           req.Items,
		TotalAmount:     req.TotalAmount,
		Status:          models.StatusPending,
		CreatedAt:       h.now(),
		PaymentMethod:   req.PaymentMethod,
		PaymentDetails:  req.PaymentDetails,
		ShippingAddress: req.ShippingAddress,
	}

	createdOrder, err := h.service.CreateOrder(c.UserContext(), draft)
	if err != nil {
		return respondError(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleGetMyOrders lists the authenticated caller's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Could not determine the caller's identity",
		})
	}

	orders, err := h.service.GetOrdersByUserID(c.UserContext(), identity.UserID)
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrdersByUserID lists the orders of any user.
func (h *OrderHandler) HandleGetOrdersByUserID(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersByUserID(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetAllOrders lists every order.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		slog.WarnContext(c.UserContext(), "Error parsing status update body",
			slog.String("order_id", orderID), slog.Any("error", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		return respondError(c, "Order update failed", err)
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), orderID, status)
	if err != nil {
		return respondError(c, "Order update failed", err)
	}
	return c.JSON(order)
}

// HandleGetUserStats returns spend statistics for a buyer.
func (h *OrderHandler) HandleGetUserStats(c *fiber.Ctx) error {
	stats, err := h.service.GetUserStats(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondError(c, "Could not compute user stats", err)
	}
	return c.JSON(stats)
}

// HandleGetSellerStats returns sales statistics for a seller.
func (h *OrderHandler) HandleGetSellerStats(c *fiber.Ctx) error {
	stats, err := h.service.GetSellerStats(c.UserContext(), c.Params("sellerId"))
	if err != nil {
		return respondError(c, "Could not compute seller stats", err)
	}
	return c.JSON(stats)
}

func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}

	var settlementErr *services.SettlementError
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(body)
	case errors.Is(err, models.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &settlementErr):
		// The order exists and stays PENDING; hand its ID back so the client can follow up.
		body["orderId"] = settlementErr.OrderID
		return c.Status(fiber.StatusBadGateway).JSON(body)
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(body)
	}

	slog.ErrorContext(c.UserContext(), message, slog.String("path", c.Path()), slog.Any("error", err))
	return c.Status(fiber.StatusInternalServerError).JSON(body)
}
