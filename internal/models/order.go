package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// ErrInvalidStatus is returned when a string does not name a known OrderStatus.
var ErrInvalidStatus = errors.New("invalid order status")

// ParseOrderStatus converts an enum name into an OrderStatus. Matching is exact.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// OrderItem represents a single line within an order.
type OrderItem struct {
	ProductID string          `json:"productId"`
	SellerID  string          `json:"sellerId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"` // unit price at checkout time
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price × quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ShippingAddress is passed through untouched.
type ShippingAddress struct {
	FullName string `json:"fullName" validate:"omitempty,max=200"`
	Address  string `json:"address" validate:"omitempty,max=500"`
	City     string `json:"city" validate:"omitempty,max=100"`
	ZipCode  string `json:"zipCode" validate:"omitempty,max=20"`
	Country  string `json:"country" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=40"`
}

// Order represents a customer order. It is persisted as a single document keyed by ID;
// items, payment details and the shipping address are stored as JSON columns.
type Order struct {
	ID              string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string            `json:"userId" gorm:"index;type:varchar(64)"`
	CustomerEmail   string            `json:"customerEmail" gorm:"type:varchar(255)"`
	Items           []OrderItem       `json:"items" gorm:"type:text;serializer:json"`
	TotalAmount     decimal.Decimal   `json:"totalAmount" gorm:"type:text"`
	Status          OrderStatus       `json:"status" gorm:"index;type:varchar(20)"`
	CreatedAt       time.Time         `json:"createdAt"`
	PaymentMethod   string            `json:"paymentMethod" gorm:"type:varchar(64)"`
	PaymentDetails  map[string]string `json:"paymentDetails" gorm:"type:text;serializer:json"`
	ShippingAddress *ShippingAddress  `json:"shippingAddress" gorm:"type:text;serializer:json"`
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	c := *o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	if o.PaymentDetails != nil {
		c.PaymentDetails = make(map[string]string, len(o.PaymentDetails))
		for k, v := range o.PaymentDetails {
			c.PaymentDetails[k] = v
		}
	}
	if o.ShippingAddress != nil {
		addr := *o.ShippingAddress
		c.ShippingAddress = &addr
	}
	return &c
}

// MergePaymentDetails copies details into the order, overwriting keys that already exist.
func (o *Order) MergePaymentDetails(details map[string]string) {
	if o.PaymentDetails == nil {
		o.PaymentDetails = make(map[string]string, len(details))
	}
	for k, v := range details {
		o.PaymentDetails[k] = v
	}
}
