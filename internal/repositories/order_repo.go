package repositories

import (
	"context"
	"errors"

	"ordersvc/internal/models"
)

// ErrOrderNotFound is returned when no order exists for the requested ID.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access.
// Save assigns an ID to a draft order and overwrites the stored document otherwise.
type OrderRepository interface {
	Save(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
}
