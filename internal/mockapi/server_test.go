package mockapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopadmin/internal/apiclient"
	"github.com/example/shopadmin/internal/model"
	"github.com/example/shopadmin/internal/session"
	"github.com/example/shopadmin/internal/store"
)

type memStorage map[string]string

func (m memStorage) Get(key string) (string, bool) { v, ok := m[key]; return v, ok }
func (m memStorage) Set(key, value string) error   { m[key] = value; return nil }
func (m memStorage) Delete(key string) error       { delete(m, key); return nil }

type fixture struct {
	client     *apiclient.Client
	session    *session.Store
	categories *store.CategoriesStore
	products   *store.ProductsStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	server := httptest.NewServer(NewServer("test-secret").Router())
	t.Cleanup(server.Close)

	client := apiclient.New(server.URL)
	return &fixture{
		client:     client,
		session:    session.NewStore(client, memStorage{}),
		categories: store.NewCategoriesStore(client, 10*time.Minute),
		products:   store.NewProductsStore(client, 12, 5*time.Minute),
	}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.session.Login(context.Background(), "admin@example.com"))
}

// ============================================
// Auth Tests
// ============================================

func TestMockAPI_AuthRequired(t *testing.T) {
	f := newFixture(t)

	err := f.categories.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Unauthorized", f.categories.Err())
}

func TestMockAPI_LoginIssuesUsableToken(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	assert.True(t, f.session.IsAuthenticated())
	require.NoError(t, f.categories.Fetch(context.Background()))
	assert.NotEmpty(t, f.categories.Items())
}

func TestMockAPI_InvalidTokenRejected(t *testing.T) {
	f := newFixture(t)
	f.client.SetToken("not-a-real-token")

	err := f.categories.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Invalid token", f.categories.Err())
}

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	token, err := tokens.Issue("admin@example.com")
	require.NoError(t, err)

	email, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)
}

func TestTokenService_RejectsForeignAndExpired(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	other := NewTokenService("other-secret", time.Hour)

	token, err := other.Issue("admin@example.com")
	require.NoError(t, err)
	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expiring := NewTokenService("test-secret", -time.Minute)
	token, err = expiring.Issue("admin@example.com")
	require.NoError(t, err)
	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

// ============================================
// Product Lifecycle Tests
// ============================================

func TestMockAPI_ProductLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	// List the seed catalog.
	require.NoError(t, f.products.Fetch(ctx, store.FetchParams{Offset: 0, Limit: 100}))
	seeded := len(f.products.Items())
	require.NotZero(t, seeded)

	require.NoError(t, f.categories.Fetch(ctx))
	categoryID := f.categories.Items()[0].ID

	// Create.
	created, err := f.products.Create(ctx, model.CreateProductDto{
		Name:        "Standing Lamp",
		Description: "A floor-standing lamp with a dimmable bulb.",
		Price:       89.90,
		CategoryID:  categoryID,
		Images:      []string{"/images/standing-lamp.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "standing-lamp", created.Slug)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Len(t, f.products.Items(), seeded+1)
	assert.Equal(t, created.ID, f.products.Items()[0].ID)

	// The new product is first in a fresh list.
	require.NoError(t, f.products.Fetch(ctx, store.FetchParams{Offset: 0, Limit: 100}))
	assert.Equal(t, created.ID, f.products.Items()[0].ID)

	// Get by slug.
	detail, err := f.products.FetchBySlug(ctx, "standing-lamp")
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.ID)

	// Search.
	require.NoError(t, f.products.Search(ctx, "lamp"))
	require.Len(t, f.products.Items(), 1)
	assert.Equal(t, created.ID, f.products.Items()[0].ID)

	// Update renames and re-slugs.
	updated, err := f.products.Update(ctx, created.ID, model.UpdateProductDto{
		Name:        "Arc Floor Lamp",
		Description: "A floor-standing lamp with a dimmable bulb.",
		Price:       99.90,
		CategoryID:  categoryID,
		Images:      []string{"/images/arc-floor-lamp.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "arc-floor-lamp", updated.Slug)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	// Delete.
	require.NoError(t, f.products.Delete(ctx, created.ID))
	require.NoError(t, f.products.Fetch(ctx, store.FetchParams{Offset: 0, Limit: 100}))
	for _, p := range f.products.Items() {
		assert.NotEqual(t, created.ID, p.ID)
	}
}

func TestMockAPI_ListFiltersAndWindows(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	require.NoError(t, f.categories.Fetch(ctx))
	categoryID := f.categories.Items()[0].ID

	require.NoError(t, f.products.Fetch(ctx, store.FetchParams{Offset: 0, Limit: 100, CategoryID: categoryID}))
	for _, p := range f.products.Items() {
		assert.Equal(t, categoryID, p.Category.ID)
	}

	require.NoError(t, f.products.Fetch(ctx, store.FetchParams{Offset: 1, Limit: 1}))
	assert.Len(t, f.products.Items(), 1)
}

func TestMockAPI_GetUnknownSlug(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_, err := f.products.FetchBySlug(context.Background(), "no-such-product")
	require.Error(t, err)
	assert.Equal(t, "Product not found", f.products.Err())
}

func TestMockAPI_CreateRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_, err := f.products.Create(context.Background(), model.CreateProductDto{
		Name:        "Orphan Product",
		Description: "This product points at no known category.",
		Price:       10,
		CategoryID:  "cat-nope",
		Images:      []string{"/images/x.jpg"},
	})
	require.Error(t, err)
	assert.Equal(t, "Unknown category", f.products.Err())
}

func TestMockAPI_SlugCollisionsGetSuffixes(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	require.NoError(t, f.categories.Fetch(ctx))
	categoryID := f.categories.Items()[0].ID

	dto := model.CreateProductDto{
		Name:        "Same Name",
		Description: "Two products sharing one name need distinct slugs.",
		Price:       10,
		CategoryID:  categoryID,
		Images:      []string{"/images/x.jpg"},
	}

	first, err := f.products.Create(ctx, dto)
	require.NoError(t, err)
	second, err := f.products.Create(ctx, dto)
	require.NoError(t, err)

	assert.Equal(t, "same-name", first.Slug)
	assert.Equal(t, "same-name-2", second.Slug)
}
