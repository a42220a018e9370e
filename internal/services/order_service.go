package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ordersvc/internal/models"
	"ordersvc/internal/repositories"
	"ordersvc/internal/services/payment"

	"github.com/shopspring/decimal"
)

// DefaultPaymentTimeout bounds a single settlement attempt.
const DefaultPaymentTimeout = 15 * time.Second

// ErrSettlementFailed is matched by every *SettlementError.
var ErrSettlementFailed = errors.New("payment settlement failed")

// SettlementError reports a payment strategy failure after the order was first persisted.
// The order stays PENDING with no payment details from this attempt.
type SettlementError struct {
	OrderID string
	Method  string
	Err     error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement of order %s via %s failed: %v", e.OrderID, e.Method, e.Err)
}

func (e *SettlementError) Unwrap() error { return e.Err }

// Is reports ErrSettlementFailed as a match.
func (e *SettlementError) Is(target error) bool { return target == ErrSettlementFailed }

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo      repositories.OrderRepository
	payments       *payment.Registry
	paymentTimeout time.Duration
	now            func() time.Time
}

// OrderServiceOption customises an OrderService.
type OrderServiceOption func(*OrderService)

// WithPaymentTimeout overrides DefaultPaymentTimeout. Non-positive values disable the bound.
func WithPaymentTimeout(d time.Duration) OrderServiceOption {
	return func(s *OrderService) { s.paymentTimeout = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) { s.now = now }
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, payments *payment.Registry, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		orderRepo:      orderRepo,
		payments:       payments,
		paymentTimeout: DefaultPaymentTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder persists a draft, settles it with the strategy for its payment method and
// persists it again with the merged payment details.
//
// The draft is visible in the store as a PENDING order without payment details between
// the two writes. A failed settlement is not rolled back.
func (s *OrderService) CreateOrder(ctx context.Context, draft *models.Order) (*models.Order, error) {
	order := draft.Clone()
	order.Status = models.StatusPending
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	method := order.PaymentMethod
	if method == "" {
		method = payment.DefaultMethod
	}
	result, err := s.settle(ctx, method, order)
	if err != nil {
		slog.ErrorContext(ctx, "order settlement failed",
			slog.String("order_id", order.ID), slog.String("method", method), slog.Any("error", err))
		return nil, &SettlementError{OrderID: order.ID, Method: method, Err: err}
	}
	order.MergePaymentDetails(result)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to store payment details for order %s: %w", order.ID, err)
	}

	slog.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID), slog.String("user_id", order.UserID), slog.String("method", method))
	return order, nil
}

func (s *OrderService) settle(ctx context.Context, method string, order *models.Order) (map[string]string, error) {
	if s.paymentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.paymentTimeout)
		defer cancel()
	}
	// Strategies get a copy so a misbehaving one cannot edit the order behind our back.
	return s.payments.Resolve(method).Process(ctx, order.Clone())
}

// GetOrdersByUserID retrieves the orders placed by a user.
func (s *OrderService) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orderRepo.FindByUserID(ctx, userID)
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

// UpdateOrderStatus overwrites the status of an existing order. Any status may follow
// any other, and concurrent updates to one order are last-writer-wins.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = status
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	slog.InfoContext(ctx, "order status changed",
		slog.String("order_id", id), slog.String("from", string(previous)), slog.String("to", string(status)))
	return order, nil
}

// GetUserStats sums what a user spent over every order they placed, cancelled ones included.
func (s *OrderService) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{TotalSpent: decimal.Zero, TotalOrders: len(orders)}
	for _, o := range orders {
		stats.TotalSpent = stats.TotalSpent.Add(o.TotalAmount)
		if o.Status == models.StatusDelivered {
			stats.CompletedOrders++
		}
	}
	return stats, nil
}

// GetSellerStats scans every order and totals the seller's items from non-cancelled ones.
func (s *OrderService) GetSellerStats(ctx context.Context, sellerID string) (*models.SellerStats, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.SellerStats{TotalSales: decimal.Zero}
	for _, o := range orders {
		if o.Status == models.StatusCancelled {
			continue
		}
		for _, item := range o.Items {
			if item.SellerID != sellerID {
				continue
			}
			stats.TotalSales = stats.TotalSales.Add(item.Subtotal())
			stats.TotalItemsSold += item.Quantity
		}
	}
	return stats, nil
}
