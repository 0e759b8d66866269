package mockapi

import (
	"time"

	"github.com/example/shopadmin/internal/model"
)

func seedCategories() []model.Category {
	return []model.Category{
		{ID: "cat-electronics", Name: "Electronics"},
		{ID: "cat-clothing", Name: "Clothing"},
		{ID: "cat-furniture", Name: "Furniture"},
		{ID: "cat-books", Name: "Books"},
	}
}

// seedProducts returns the initial catalog, newest first to match the
// list endpoint's ordering.
func seedProducts(categories []model.Category) []model.Product {
	base := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	byID := map[string]model.Category{}
	for _, c := range categories {
		byID[c.ID] = c
	}

	return []model.Product{
		{
			ID:          "prod-0003",
			Slug:        "walnut-desk",
			Name:        "Walnut Desk",
			Description: "Solid walnut writing desk with two drawers.",
			Price:       449.00,
			Category:    byID["cat-furniture"],
			Images:      []string{"/images/walnut-desk.jpg"},
			CreatedAt:   base.Add(48 * time.Hour),
			UpdatedAt:   base.Add(48 * time.Hour),
		},
		{
			ID:          "prod-0002",
			Slug:        "wireless-headphones",
			Name:        "Wireless Headphones",
			Description: "Over-ear wireless headphones with active noise cancelling.",
			Price:       199.99,
			Category:    byID["cat-electronics"],
			Images:      []string{"/images/wireless-headphones.jpg"},
			CreatedAt:   base.Add(24 * time.Hour),
			UpdatedAt:   base.Add(24 * time.Hour),
		},
		{
			ID:          "prod-0001",
			Slug:        "linen-shirt",
			Name:        "Linen Shirt",
			Description: "Lightweight linen shirt, relaxed fit, machine washable.",
			Price:       39.50,
			Category:    byID["cat-clothing"],
			Images:      []string{"/images/linen-shirt.jpg"},
			CreatedAt:   base,
			UpdatedAt:   base,
		},
	}
}
