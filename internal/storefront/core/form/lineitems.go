package form

import "github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"

// BuildLineItems projects the items with a positive quantity, in order.
// An empty result is valid; callers decide what it means.
func BuildLineItems(items []entity.Item) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		out = append(out, entity.LineItem{ProductID: it.ID, Quantity: it.Quantity})
	}
	return out
}
