package repositories

import (
	"context"
	"fmt"
	"sync"

	"ordersvc/internal/models"

	"github.com/google/uuid"
)

// InMemoryOrderRepository is an in-memory implementation of OrderRepository.
// Reads return orders in the order they were first saved.
type InMemoryOrderRepository struct {
	orders map[string]*models.Order
	ids    []string
	mu     sync.RWMutex
}

// NewInMemoryOrderRepository creates a new instance of InMemoryOrderRepository.
func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: make(map[string]*models.Order),
	}
}

// Save stores a copy of the order, generating an ID for drafts.
func (r *InMemoryOrderRepository) Save(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if _, ok := r.orders[order.ID]; !ok {
		r.ids = append(r.ids, order.ID)
	}
	r.orders[order.ID] = order.Clone()
	return nil
}

// FindByID returns an order by its ID.
func (r *InMemoryOrderRepository) FindByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
	}
	return order.Clone(), nil
}

// FindByUserID returns all orders placed by the user.
func (r *InMemoryOrderRepository) FindByUserID(_ context.Context, userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, id := range r.ids {
		if o := r.orders[id]; o.UserID == userID {
			orderList = append(orderList, *o.Clone())
		}
	}
	return orderList, nil
}

// FindAll returns all orders.
func (r *InMemoryOrderRepository) FindAll(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.ids))
	for _, id := range r.ids {
		orderList = append(orderList, *r.orders[id].Clone())
	}
	return orderList, nil
}
