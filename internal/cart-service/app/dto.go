package app

import (
	"time"

	"github.com/jcmexdev/quick-order/internal/cart-service/domain"
)

type LineItemsRequest struct {
	LineItems []LineItemDTO `json:"lineItems"`
}

type LineItemDTO struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type CartResponse struct {
	ID          string        `json:"id"`
	LineItems   []LineItemDTO `json:"lineItems"`
	CreatedTime time.Time     `json:"createdTime"`
	UpdatedTime time.Time     `json:"updatedTime"`
}

// ProblemResponse is the error body of every non-2xx answer.
type ProblemResponse struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func toDomain(in []LineItemDTO) []domain.LineItem {
	out := make([]domain.LineItem, len(in))
	for i, it := range in {
		out[i] = domain.LineItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return out
}

func mapCart(c *domain.Cart) CartResponse {
	items := make([]LineItemDTO, len(c.LineItems))
	for i, it := range c.LineItems {
		items[i] = LineItemDTO{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return CartResponse{
		ID:          c.ID,
		LineItems:   items,
		CreatedTime: c.CreatedAt,
		UpdatedTime: c.UpdatedAt,
	}
}
