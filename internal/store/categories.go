package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/shopadmin/internal/apiclient"
	"github.com/example/shopadmin/internal/model"
)

// DefaultCategoriesTTL is how long a fetched category list stays fresh.
// Categories change rarely, so the window is wider than for products.
const DefaultCategoriesTTL = 10 * time.Minute

// CategoriesStore holds the category collection. The list is fetched in
// bulk and replaced wholesale on each successful fetch.
type CategoriesStore struct {
	client *apiclient.Client

	mu      sync.RWMutex
	items   []model.Category
	loading bool
	err     string
	cache   marker
	now     func() time.Time
}

// NewCategoriesStore creates a categories store with the given cache
// validity window; ttl <= 0 means DefaultCategoriesTTL.
func NewCategoriesStore(client *apiclient.Client, ttl time.Duration) *CategoriesStore {
	if ttl <= 0 {
		ttl = DefaultCategoriesTTL
	}
	return &CategoriesStore{
		client: client,
		cache:  marker{ttl: ttl},
		now:    time.Now,
	}
}

// Fetch always performs the GET; a fresh cache only suppresses the loading
// flag so callers don't flash a spinner over data they already have. On
// failure the previously loaded collection is kept.
func (s *CategoriesStore) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if !s.cache.fresh(s.now()) {
		s.loading = true
	}
	s.err = ""
	s.mu.Unlock()

	resp := s.client.Get(ctx, "/categories")

	var items []model.Category
	if apiErr := resp.Decode(&items); apiErr != nil {
		s.mu.Lock()
		s.loading = false
		s.err = apiErr.Message
		s.mu.Unlock()
		logrus.Warnf("[Store] Failed to fetch categories: %s", apiErr.Message)
		return apiErr
	}

	s.mu.Lock()
	s.loading = false
	s.items = items
	s.cache.stamp(s.now())
	s.mu.Unlock()

	logrus.Debugf("[Store] Fetched %d categories", len(items))
	return nil
}

// FetchIfFresh skips the network call entirely when the cache is fresh.
func (s *CategoriesStore) FetchIfFresh(ctx context.Context) error {
	s.mu.RLock()
	fresh := s.cache.fresh(s.now())
	s.mu.RUnlock()

	if fresh {
		return nil
	}
	return s.Fetch(ctx)
}

// Items returns a copy of the category collection.
func (s *CategoriesStore) Items() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]model.Category, len(s.items))
	copy(items, s.items)
	return items
}

// Loading reports whether a fetch is in flight with a stale cache.
func (s *CategoriesStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last fetch error message, empty when none.
func (s *CategoriesStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Fresh reports whether the cached list is inside its validity window.
func (s *CategoriesStore) Fresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache.fresh(s.now())
}

// Invalidate forces the next Fetch to be treated as a cold load.
func (s *CategoriesStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.invalidate()
}
