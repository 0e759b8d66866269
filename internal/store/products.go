package store

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/shopadmin/internal/apiclient"
	"github.com/example/shopadmin/internal/model"
)

// Defaults for the products store.
const (
	DefaultProductsTTL  = 5 * time.Minute
	DefaultItemsPerPage = 12
)

// FetchParams selects the window of products to load. CategoryID filters
// server-side when non-empty.
type FetchParams struct {
	Offset     int
	Limit      int
	CategoryID string
}

// ProductsStore holds the product collection, the selected detail product
// and the list view state. Operations apply whichever response arrives in
// arrival order; overlapping calls are not sequenced or cancelled.
type ProductsStore struct {
	client *apiclient.Client

	mu           sync.RWMutex
	items        []model.Product
	current      *model.Product
	searchQuery  string
	currentPage  int
	itemsPerPage int
	loading      bool
	err          string
	cache        marker
	now          func() time.Time
}

// NewProductsStore creates a products store. itemsPerPage <= 0 and
// ttl <= 0 fall back to the defaults.
func NewProductsStore(client *apiclient.Client, itemsPerPage int, ttl time.Duration) *ProductsStore {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	if ttl <= 0 {
		ttl = DefaultProductsTTL
	}
	return &ProductsStore{
		client:       client,
		currentPage:  1,
		itemsPerPage: itemsPerPage,
		cache:        marker{ttl: ttl},
		now:          time.Now,
	}
}

func (s *ProductsStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *ProductsStore) reject(apiErr *apiclient.APIError) {
	s.mu.Lock()
	s.loading = false
	s.err = apiErr.Message
	s.mu.Unlock()
}

// Fetch replaces the collection wholesale with the server's window, in
// server order. Pagination state is untouched; the view manages the
// current page separately. On failure the previous items are kept.
func (s *ProductsStore) Fetch(ctx context.Context, params FetchParams) error {
	s.begin()

	endpoint := fmt.Sprintf("/products?offset=%d&limit=%d", params.Offset, params.Limit)
	if params.CategoryID != "" {
		endpoint += "&categoryId=" + url.QueryEscape(params.CategoryID)
	}

	resp := s.client.Get(ctx, endpoint)

	var items []model.Product
	if apiErr := resp.Decode(&items); apiErr != nil {
		s.reject(apiErr)
		logrus.Warnf("[Store] Failed to fetch products: %s", apiErr.Message)
		return apiErr
	}

	s.mu.Lock()
	s.loading = false
	s.items = items
	s.cache.stamp(s.now())
	s.mu.Unlock()

	logrus.Debugf("[Store] Fetched %d products", len(items))
	return nil
}

// Search replaces the collection with the server's search results. Search
// results are not a canonical cache of all products, so the staleness
// marker is left alone.
func (s *ProductsStore) Search(ctx context.Context, text string) error {
	s.begin()

	resp := s.client.Get(ctx, "/products/search?searchedText="+url.QueryEscape(text))

	var items []model.Product
	if apiErr := resp.Decode(&items); apiErr != nil {
		s.reject(apiErr)
		logrus.Warnf("[Store] Search failed: %s", apiErr.Message)
		return apiErr
	}

	s.mu.Lock()
	s.loading = false
	s.items = items
	s.mu.Unlock()

	logrus.Debugf("[Store] Search %q matched %d products", text, len(items))
	return nil
}

// FetchBySlug populates the current detail product. The collection is
// untouched either way, and a prior detail product survives a failure;
// callers clear it on navigation via ClearCurrentProduct.
func (s *ProductsStore) FetchBySlug(ctx context.Context, slug string) (*model.Product, error) {
	s.begin()

	resp := s.client.Get(ctx, "/products/"+url.PathEscape(slug))

	var product model.Product
	if apiErr := resp.Decode(&product); apiErr != nil {
		s.reject(apiErr)
		logrus.Warnf("[Store] Failed to fetch product %s: %s", slug, apiErr.Message)
		return nil, apiErr
	}

	s.mu.Lock()
	s.loading = false
	s.current = &product
	s.mu.Unlock()

	return &product, nil
}

// Create POSTs the DTO. On success the server-completed product (id, slug,
// timestamps) is inserted at the front of the collection and the cache is
// invalidated. The created product is returned for navigation.
func (s *ProductsStore) Create(ctx context.Context, dto model.CreateProductDto) (*model.Product, error) {
	s.begin()

	resp := s.client.Post(ctx, "/products", dto)

	var product model.Product
	if apiErr := resp.Decode(&product); apiErr != nil {
		s.reject(apiErr)
		logrus.Warnf("[Store] Failed to create product: %s", apiErr.Message)
		return nil, apiErr
	}

	s.mu.Lock()
	s.loading = false
	s.items = append([]model.Product{product}, s.items...)
	s.cache.invalidate()
	s.mu.Unlock()

	logrus.Infof("[Store] Created product %s (%s)", product.ID, product.Slug)
	return &product, nil
}

// Update PUTs the DTO. On success the matching element of the collection
// is replaced when present (a miss is a no-op for the list), the detail
// product is set to the returned value and the cache is invalidated.
func (s *ProductsStore) Update(ctx context.Context, id string, dto model.UpdateProductDto) (*model.Product, error) {
	s.begin()

	resp := s.client.Put(ctx, "/products/"+url.PathEscape(id), dto)

	var product model.Product
	if apiErr := resp.Decode(&product); apiErr != nil {
		s.reject(apiErr)
		logrus.Warnf("[Store] Failed to update product %s: %s", id, apiErr.Message)
		return nil, apiErr
	}

	s.mu.Lock()
	s.loading = false
	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items[i] = product
			break
		}
	}
	s.current = &product
	s.cache.invalidate()
	s.mu.Unlock()

	logrus.Infof("[Store] Updated product %s", product.ID)
	return &product, nil
}

// Delete removes the product server-side first; the matching element only
// leaves the collection after the server confirms. On failure the
// collection is unchanged.
func (s *ProductsStore) Delete(ctx context.Context, id string) error {
	s.begin()

	resp := s.client.Delete(ctx, "/products/"+url.PathEscape(id), nil)
	if resp.Err != nil {
		s.reject(resp.Err)
		logrus.Warnf("[Store] Failed to delete product %s: %s", id, resp.Err.Message)
		return resp.Err
	}

	s.mu.Lock()
	s.loading = false
	kept := s.items[:0:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.cache.invalidate()
	s.mu.Unlock()

	logrus.Infof("[Store] Deleted product %s", id)
	return nil
}

// SetSearchQuery records the view's search text. No network effect.
func (s *ProductsStore) SetSearchQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = text
}

// SetCurrentPage records the view's page selection. No network effect and
// no clamping; the pagination view keeps the value in range.
func (s *ProductsStore) SetCurrentPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = n
}

// ClearCurrentProduct drops the detail product, used on navigation away.
func (s *ProductsStore) ClearCurrentProduct() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Invalidate forces the next fetch to be treated as a cold load.
func (s *ProductsStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.invalidate()
}

// Items returns a copy of the collection in server order.
func (s *ProductsStore) Items() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]model.Product, len(s.items))
	copy(items, s.items)
	return items
}

// Current returns the detail product, nil when none is loaded.
func (s *ProductsStore) Current() *model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	product := *s.current
	return &product
}

// SearchQuery returns the recorded search text.
func (s *ProductsStore) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

// CurrentPage returns the recorded page selection.
func (s *ProductsStore) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage
}

// ItemsPerPage returns the fixed page size.
func (s *ProductsStore) ItemsPerPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsPerPage
}

// Loading reports whether an operation is in flight.
func (s *ProductsStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last operation's error message, empty when none.
func (s *ProductsStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Fresh reports whether the cached collection is inside its validity
// window. Create, update and delete all invalidate it.
func (s *ProductsStore) Fresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.fresh(s.now())
}

// TotalPages derives the page count from whatever window of data was last
// fetched. This is client-side pagination, not a total-count-aware pager.
func (s *ProductsStore) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPages(len(s.items), s.itemsPerPage)
}

// Visible returns the slice of the collection for the current page,
// bounds-safe for any recorded page value.
func (s *ProductsStore) Visible() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start, end := pageBounds(len(s.items), s.currentPage, s.itemsPerPage)
	items := make([]model.Product, end-start)
	copy(items, s.items[start:end])
	return items
}
