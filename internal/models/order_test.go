package models_test

import (
	"encoding/json"
	"testing"

	"ordersvc/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"} {
		st, err := models.ParseOrderStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatus(s), st)
	}

	_, err := models.ParseOrderStatus("delivered")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	_, err = models.ParseOrderStatus("")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

func TestOrder_CloneDoesNotAlias(t *testing.T) {
	original := &models.Order{
		ID:              "o-1",
		Items:           []models.OrderItem{{ProductID: "p-1", Quantity: 1}},
		PaymentDetails:  map[string]string{"a": "1"},
		ShippingAddress: &models.ShippingAddress{City: "Tallinn"},
	}

	c := original.Clone()
	c.Items[0].Quantity = 5
	c.PaymentDetails["a"] = "2"
	c.ShippingAddress.City = "Tartu"

	assert.Equal(t, 1, original.Items[0].Quantity)
	assert.Equal(t, "1", original.PaymentDetails["a"])
	assert.Equal(t, "Tallinn", original.ShippingAddress.City)
}

func TestOrder_MergePaymentDetails(t *testing.T) {
	o := &models.Order{}
	o.MergePaymentDetails(map[string]string{})
	assert.NotNil(t, o.PaymentDetails)
	assert.Empty(t, o.PaymentDetails)

	o.PaymentDetails["note"] = "leave at door"
	o.PaymentDetails["sessionId"] = "old"
	o.MergePaymentDetails(map[string]string{"sessionId": "cs_1", "stripeUrl": "https://pay"})

	assert.Equal(t, map[string]string{
		"note":      "leave at door",
		"sessionId": "cs_1",
		"stripeUrl": "https://pay",
	}, o.PaymentDetails)
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := models.OrderItem{Price: decimal.RequireFromString("10.10"), Quantity: 3}
	assert.True(t, decimal.RequireFromString("30.30").Equal(item.Subtotal()))
}

func TestOrder_JSONShape(t *testing.T) {
	body := `{"id":"x","userId":"u","items":[{"productId":"p","sellerId":"s","name":"Mug","price":"0.10","quantity":2}],
		"totalAmount":0.20,"status":"PENDING","paymentMethod":"STRIPE","shippingAddress":{"city":"Riga"}}`

	var o models.Order
	require.NoError(t, json.Unmarshal([]byte(body), &o))

	assert.Equal(t, "u", o.UserID)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.True(t, decimal.RequireFromString("0.20").Equal(o.TotalAmount))
	assert.True(t, decimal.RequireFromString("0.10").Equal(o.Items[0].Price))
	assert.Equal(t, "Riga", o.ShippingAddress.City)
}
