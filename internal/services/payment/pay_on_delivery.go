package payment

import (
	"context"

	"ordersvc/internal/models"
)

// PayOnDelivery needs no external step; the buyer pays the courier.
type PayOnDelivery struct{}

// Process always returns an empty result.
func (PayOnDelivery) Process(_ context.Context, _ *models.Order) (map[string]string, error) {
	return map[string]string{}, nil
}
