// Package payment settles orders through pluggable payment backends.
//
// A Strategy is selected by the payment method key stored on the order. Unknown keys
// settle as pay-on-delivery instead of failing.
package payment

import (
	"context"

	"ordersvc/internal/models"
)

// Payment method keys.
const (
	MethodPayOnDelivery = "PAY_ON_DELIVERY"
	MethodStripe        = "STRIPE"

	DefaultMethod = MethodPayOnDelivery
)

// Strategy attempts settlement for an order and describes the outcome as string pairs,
// e.g. a provider session ID and a redirect URL. An empty map means nothing else is needed.
type Strategy interface {
	Process(ctx context.Context, order *models.Order) (map[string]string, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(ctx context.Context, order *models.Order) (map[string]string, error)

// Process calls f.
func (f StrategyFunc) Process(ctx context.Context, order *models.Order) (map[string]string, error) {
	return f(ctx, order)
}

// Registry maps payment method keys to strategies.
type Registry struct {
	strategies map[string]Strategy
	fallback   Strategy
}

// NewRegistry creates a registry holding pay-on-delivery under its own key.
func NewRegistry() *Registry {
	pod := PayOnDelivery{}
	return &Registry{
		strategies: map[string]Strategy{MethodPayOnDelivery: pod},
		fallback:   pod,
	}
}

// Register binds a strategy to a method key, replacing any previous binding.
func (r *Registry) Register(method string, s Strategy) {
	r.strategies[method] = s
}

// Resolve returns the strategy for method. An empty method means DefaultMethod; a
// method with no registered strategy resolves to pay-on-delivery.
func (r *Registry) Resolve(method string) Strategy {
	if method == "" {
		method = DefaultMethod
	}
	if s, ok := r.strategies[method]; ok {
		return s
	}
	return r.fallback
}
