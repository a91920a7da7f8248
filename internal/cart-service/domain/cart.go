package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrCartNotFound = errors.New("cart not found")

// Cart is a shopper's active cart. Owner is the session subject.
type Cart struct {
	ID        string     `json:"id"`
	Owner     string     `json:"owner"`
	LineItems []LineItem `json:"lineItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type LineItem struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// ValidationError describes a rejected line item list.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// ValidateLineItems rejects empty lists, non-positive product ids and
// quantities below one.
func ValidateLineItems(items []LineItem) error {
	if len(items) == 0 {
		return &ValidationError{Detail: "lineItems must contain at least one item"}
	}
	for i, it := range items {
		if it.ProductID <= 0 {
			return &ValidationError{Detail: fmt.Sprintf("lineItems[%d].productId must be positive", i)}
		}
		if it.Quantity < 1 {
			return &ValidationError{Detail: fmt.Sprintf("lineItems[%d].quantity must be at least 1", i)}
		}
	}
	return nil
}

// AddItems merges items into the cart: an existing product has its quantity
// increased, a new product is appended at the end.
func (c *Cart) AddItems(items []LineItem, now time.Time) {
	index := make(map[int]int, len(c.LineItems))
	for i, it := range c.LineItems {
		index[it.ProductID] = i
	}
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			c.LineItems[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(c.LineItems)
		c.LineItems = append(c.LineItems, it)
	}
	c.UpdatedAt = now
}

// Quantity returns the total quantity of productID in the cart.
func (c *Cart) Quantity(productID int) int {
	for _, it := range c.LineItems {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}
