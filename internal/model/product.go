package model

import "time"

// Category is owned by the remote API; the client never mutates one.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product mirrors the remote API's product resource. Slug is the URL-safe
// identifier used for detail lookups; ID is the opaque identifier used for
// mutations. Both are server-generated.
type Product struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    Category  `json:"category"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateProductDto is the payload for POST /products. The server fills in
// id, slug and timestamps.
type CreateProductDto struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	CategoryID  string   `json:"categoryId"`
	Images      []string `json:"images"`
}

// UpdateProductDto is the payload for PUT /products/{id}. The admin form
// always submits the full field set, so the shape matches create.
type UpdateProductDto struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	CategoryID  string   `json:"categoryId"`
	Images      []string `json:"images"`
}
