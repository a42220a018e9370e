package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// UserStats summarises a buyer's order history.
type UserStats struct {
	TotalSpent      decimal.Decimal `json:"totalSpent"`
	CompletedOrders int64           `json:"completedOrders"`
	TotalOrders     int             `json:"totalOrders"`
}

// MarshalJSON writes TotalSpent with at least two fraction digits, so 100 goes out as 100.00.
func (s UserStats) MarshalJSON() ([]byte, error) {
	type alias UserStats
	return json.Marshal(struct {
		alias
		TotalSpent json.Number `json:"totalSpent"`
	}{alias: alias(s), TotalSpent: scaledNumber(s.TotalSpent)})
}

// SellerStats summarises what a seller sold across non-cancelled orders.
type SellerStats struct {
	TotalSales     decimal.Decimal `json:"totalSales"`
	TotalItemsSold int             `json:"totalItemsSold"`
}

// MarshalJSON writes TotalSales like UserStats.TotalSpent.
func (s SellerStats) MarshalJSON() ([]byte, error) {
	type alias SellerStats
	return json.Marshal(struct {
		alias
		TotalSales json.Number `json:"totalSales"`
	}{alias: alias(s), TotalSales: scaledNumber(s.TotalSales)})
}

// moneyScale is the minimum number of fraction digits a stats amount is written with.
const moneyScale = 2

func scaledNumber(d decimal.Decimal) json.Number {
	places := int32(moneyScale)
	if exp := -d.Exponent(); exp > places {
		places = exp
	}
	return json.Number(d.StringFixed(places))
}
