package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/models"
)

type mockProductRepo struct {
	products  map[models.ProductKind][]models.Product
	listCalls int
}

func (m *mockProductRepo) List(ctx context.Context, kind models.ProductKind) ([]models.Product, error) {
	m.listCalls++
	return append([]models.Product{}, m.products[kind]...), nil
}

func (m *mockProductRepo) FindByID(ctx context.Context, kind models.ProductKind, id int64) (*models.Product, error) {
	for _, p := range m.products[kind] {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockProductRepo) Create(ctx context.Context, kind models.ProductKind, product *models.Product) error {
	product.ID = int64(len(m.products[kind]) + 1)
	m.products[kind] = append(m.products[kind], *product)
	return nil
}

func newProductServiceForTest(repo *mockProductRepo) (*ProductService, *memoryCache) {
	cache := newMemoryCache()
	metrics := NewMetricsService()
	cacheSvc := NewCacheService(cache, metrics, time.Minute, zap.NewNop(), true)
	return NewProductService(repo, cacheSvc, metrics, time.Minute, nil, zap.NewNop()), cache
}

func TestProductListCachesPerKind(t *testing.T) {
	repo := &mockProductRepo{products: map[models.ProductKind][]models.Product{
		models.ProductLaptops: {{ID: 1, Name: "ThinkPad", Cost: 900, Quantity: 3}},
	}}
	svc, cache := newProductServiceForTest(repo)
	ctx := context.Background()

	products, hit, err := svc.List(ctx, "LAPTOPS")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, products, 1)

	products, hit, err = svc.List(ctx, "laptops")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "ThinkPad", products[0].Name)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Create(ctx, "laptops", ProductRequest{Name: "XPS", Cost: 1200, Quantity: 2})
	require.NoError(t, err)
	assert.Contains(t, cache.deleted, "catalog:laptops")

	products, hit, err = svc.List(ctx, "laptops")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, products, 2)
}

func TestProductUnknownKindAndMissing(t *testing.T) {
	svc, _ := newProductServiceForTest(&mockProductRepo{products: map[models.ProductKind][]models.Product{}})
	ctx := context.Background()

	_, _, err := svc.List(ctx, "tablets")
	assertAppError(t, err, http.StatusNotFound, "Unknown catalog")

	_, err = svc.Get(ctx, "mobiles", 4)
	assertAppError(t, err, http.StatusNotFound, "Product not found")

	_, err = svc.Create(ctx, "mobiles", ProductRequest{Name: "", Cost: 10})
	assertAppError(t, err, http.StatusBadRequest, "")

	image := "not a url"
	_, err = svc.Create(ctx, "mobiles", ProductRequest{Name: "Pixel", Cost: 10, Image: &image})
	assertAppError(t, err, http.StatusBadRequest, "")
}
