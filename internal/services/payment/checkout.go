package payment

import (
	"context"
	"fmt"
	"strings"

	"ordersvc/internal/models"

	"github.com/shopspring/decimal"
)

// Result keys written by StripeCheckout.
const (
	DetailSessionID = "sessionId"
	DetailStripeURL = "stripeUrl"
)

var centsPerUnit = decimal.NewFromInt(100)

// LineItem is one entry of a hosted-checkout manifest. UnitAmount is in minor currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// CheckoutRequest asks a provider to open a hosted checkout session.
type CheckoutRequest struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CorrelationID string
	CustomerEmail string
}

// CheckoutSession is what the provider hands back.
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutProvider creates hosted checkout sessions with an external payment provider.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// StripeCheckout settles an order by opening a hosted checkout session for it.
type StripeCheckout struct {
	provider    CheckoutProvider
	frontendURL string
}

// NewStripeCheckout creates a StripeCheckout strategy. domain selects where the buyer is
// sent back after checkout.
func NewStripeCheckout(provider CheckoutProvider, domain string) *StripeCheckout {
	return &StripeCheckout{
		provider:    provider,
		frontendURL: FrontendURL(domain),
	}
}

// FrontendURL returns the storefront base URL for a deployment domain. An empty domain is
// treated as localhost.
func FrontendURL(domain string) string {
	if domain == "" || domain == "localhost" {
		return "http://localhost:4200"
	}
	return "https://app." + strings.TrimPrefix(domain, ".")
}

// ToMinorUnits converts a unit price into cents, truncating any fraction of a cent.
func ToMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(centsPerUnit).IntPart()
}

// Process requests a checkout session for the order and returns its ID and URL.
func (s *StripeCheckout) Process(ctx context.Context, order *models.Order) (map[string]string, error) {
	lineItems := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		lineItems = append(lineItems, LineItem{
			Name:       item.Name,
			UnitAmount: ToMinorUnits(item.Price),
			Quantity:   int64(item.Quantity),
		})
	}

	session, err := s.provider.CreateSession(ctx, CheckoutRequest{
		LineItems:     lineItems,
		SuccessURL:    s.frontendURL + "/orders",
		CancelURL:     s.frontendURL + "/cart",
		CorrelationID: order.ID,
		CustomerEmail: order.CustomerEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session for order %s: %w", order.ID, err)
	}

	return map[string]string{
		DetailStripeURL: session.URL,
		DetailSessionID: session.ID,
	}, nil
}
