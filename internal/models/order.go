package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// OrderRequest represents an incoming order request
type OrderRequest struct {
	Items         []OrderItem `json:"items"`
	CustomerEmail string      `json:"customerEmail,omitempty" validate:"omitempty,email"`
}

// OrderItem represents a single item in an order
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UnmarshalJSON accepts any integral JSON number as a quantity, so 2.0 and
// 2e1 decode like 2. Values beyond the int range saturate at math.MaxInt or
// math.MinInt; fractional values are an error.
func (it *OrderItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID string      `json:"productId"`
		Quantity  json.Number `json:"quantity"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	it.ProductID = raw.ProductID
	it.Quantity = 0
	if raw.Quantity == "" {
		return nil
	}

	s := raw.Quantity.String()
	if n, err := strconv.ParseInt(s, 10, 0); err == nil || errors.Is(err, strconv.ErrRange) {
		it.Quantity = int(n)
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("invalid quantity %s: %w", s, err)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("quantity %s is not an integer", s)
	}
	switch {
	case f >= math.MaxInt:
		it.Quantity = math.MaxInt
	case f <= math.MinInt:
		it.Quantity = math.MinInt
	default:
		it.Quantity = int(f)
	}
	return nil
}

// Order represents a confirmed order
type Order struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	TotalAmount   float64     `json:"totalAmount"`
	Currency      string      `json:"currency"`
	CreatedAt     time.Time   `json:"createdAt"`
}
