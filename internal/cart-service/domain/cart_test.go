package domain

import (
	"errors"
	"testing"
	"time"
)

func TestValidateLineItems(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		ok    bool
	}{
		{"valid", []LineItem{{ProductID: 1, Quantity: 2}}, true},
		{"empty", nil, false},
		{"zero product", []LineItem{{ProductID: 0, Quantity: 1}}, false},
		{"zero quantity", []LineItem{{ProductID: 1, Quantity: 0}}, false},
		{"negative quantity", []LineItem{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: -3}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineItems(tt.items)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			}
		})
	}
}

func TestCart_AddItems_mergesByProduct(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &Cart{LineItems: []LineItem{{ProductID: 1, Quantity: 2}}}

	c.AddItems([]LineItem{{ProductID: 3, Quantity: 1}, {ProductID: 1, Quantity: 5}}, now)

	if len(c.LineItems) != 2 {
		t.Fatalf("expected 2 lines, got %v", c.LineItems)
	}
	if c.Quantity(1) != 7 || c.Quantity(3) != 1 {
		t.Errorf("unexpected quantities %v", c.LineItems)
	}
	if c.LineItems[1].ProductID != 3 {
		t.Errorf("expected new product appended last, got %v", c.LineItems)
	}
	if !c.UpdatedAt.Equal(now) {
		t.Errorf("expected UpdatedAt %s, got %s", now, c.UpdatedAt)
	}
	if c.Quantity(99) != 0 {
		t.Error("expected 0 for absent product")
	}
}
