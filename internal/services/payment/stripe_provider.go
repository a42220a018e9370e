package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// ErrProviderNotConfigured is returned when no Stripe secret key is set.
var ErrProviderNotConfigured = errors.New("stripe secret key is not configured")

// StripeProvider opens checkout sessions through the Stripe API.
type StripeProvider struct {
	client   session.Client
	currency string
	enabled  bool
}

// StripeOption customises the Stripe backend.
type StripeOption func(*stripe.BackendConfig)

// WithAPIURL points the provider at another Stripe-compatible endpoint.
func WithAPIURL(url string) StripeOption {
	return func(c *stripe.BackendConfig) { c.URL = stripe.String(url) }
}

// WithMaxNetworkRetries overrides how often stripe-go retries a failed request.
func WithMaxNetworkRetries(n int64) StripeOption {
	return func(c *stripe.BackendConfig) { c.MaxNetworkRetries = stripe.Int64(n) }
}

// NewStripeProvider creates a provider authenticated with secretKey. stripe-go's own log
// lines go through slog.
func NewStripeProvider(secretKey string, opts ...StripeOption) *StripeProvider {
	cfg := &stripe.BackendConfig{LeveledLogger: slogLeveledLogger{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return &StripeProvider{
		client:   session.Client{B: stripe.GetBackendWithConfig(stripe.APIBackend, cfg), Key: secretKey},
		currency: string(stripe.CurrencyUSD),
		enabled:  secretKey != "",
	}
}

// CreateSession creates a payment-mode checkout session.
func (p *StripeProvider) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if !p.enabled {
		return nil, ErrProviderNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	for _, item := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		})
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata("orderId", req.CorrelationID)
	params.Context = ctx

	s, err := p.client.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// slogLeveledLogger implements stripe.LeveledLoggerInterface on the default slog logger.
type slogLeveledLogger struct{}

func (slogLeveledLogger) Debugf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (slogLeveledLogger) Infof(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (slogLeveledLogger) Warnf(format string, v ...interface{}) {
	slog.Warn(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (slogLeveledLogger) Errorf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}
