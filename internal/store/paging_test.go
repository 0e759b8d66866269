package store

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopadmin/internal/apiclient"
	"github.com/example/shopadmin/internal/model"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int
		perPage  int
		expected int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{24, 12, 2},
		{25, 12, 3},
		{100, 12, 9},
		{5, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, totalPages(tt.total, tt.perPage),
			"totalPages(%d, %d)", tt.total, tt.perPage)
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		name          string
		total, page   int
		start, end    int
	}{
		{"first page", 30, 1, 0, 12},
		{"middle page", 30, 2, 12, 24},
		{"short last page", 30, 3, 24, 30},
		{"page below range clamps to 1", 30, 0, 0, 12},
		{"page above range clamps to last", 30, 99, 24, 30},
		{"empty collection", 0, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := pageBounds(tt.total, tt.page, 12)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestProductsStore_DerivedPagination(t *testing.T) {
	products := make([]model.Product, 30)
	for i := range products {
		products[i] = testProduct(
			string(rune('a'+i)), "slug", "Product")
	}

	store := newTestProducts(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, products)
	})
	require.NoError(t, store.Fetch(context.Background(), FetchParams{Limit: 100}))

	assert.Equal(t, 3, store.TotalPages())

	store.SetCurrentPage(1)
	assert.Len(t, store.Visible(), 12)

	store.SetCurrentPage(3)
	visible := store.Visible()
	assert.Len(t, visible, 6)
	assert.Equal(t, products[24].ID, visible[0].ID)

	// A stale page selection cannot slice out of range.
	store.SetCurrentPage(99)
	assert.Len(t, store.Visible(), 6)
	store.SetCurrentPage(-1)
	assert.Len(t, store.Visible(), 12)
}

func TestProductsStore_VisibleEmptyCollection(t *testing.T) {
	store := NewProductsStore(apiclient.New("http://unused"), 12, time.Minute)

	assert.Equal(t, 0, store.TotalPages())
	assert.Empty(t, store.Visible())
}
