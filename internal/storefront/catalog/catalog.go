// Package catalog loads the orderable items shown on a quick-order form.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/quick-order/internal/storefront/core/domain/entity"
)

var ErrInvalidItem = errors.New("invalid catalog item")

type itemYAML struct {
	ID    int    `koanf:"id"`
	Name  string `koanf:"name"`
	Image string `koanf:"image"`
	Price string `koanf:"price"`
}

// Load reads a YAML catalog of the form
//
//	items:
//	  - id: 101
//	    name: Espresso Beans 1kg
//	    image: /img/espresso-beans.jpg
//	    price: "24.50"
//
// and returns the items in file order with formatted prices.
func Load(path, currency string) ([]entity.Item, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	var raw []itemYAML
	if err := k.Unmarshal("items", &raw); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	items := make([]entity.Item, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for i, r := range raw {
		if r.ID <= 0 || strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("%w: entry %d needs a positive id and a name", ErrInvalidItem, i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: id %d appears twice", ErrInvalidItem, r.ID)
		}
		seen[r.ID] = struct{}{}

		price, err := FormatPrice(r.Price, currency)
		if err != nil {
			return nil, fmt.Errorf("%w: id %d: %v", ErrInvalidItem, r.ID, err)
		}
		items = append(items, entity.Item{
			ID:             entity.ItemID(r.ID),
			DisplayName:    r.Name,
			ImageReference: r.Image,
			FormattedPrice: price,
		})
	}
	return items, nil
}

// FormatPrice renders a decimal amount with two places: "5" -> "$5.00".
func FormatPrice(amount, currency string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", fmt.Errorf("parse price %q: %w", amount, err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("negative price %s", d)
	}
	return currency + d.StringFixed(2), nil
}
