package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/models"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
)

const catalogCachePrefix = "catalog:"

type productRepository interface {
	List(ctx context.Context, kind models.ProductKind) ([]models.Product, error)
	FindByID(ctx context.Context, kind models.ProductKind, id int64) (*models.Product, error)
	Create(ctx context.Context, kind models.ProductKind, product *models.Product) error
}

// ProductRequest is the admin upload payload. pimage must be an already hosted URL.
type ProductRequest struct {
	Name     string  `json:"pname" validate:"required"`
	Cost     int     `json:"pcost" validate:"gte=0"`
	Quantity int     `json:"pqty" validate:"gte=0"`
	Image    *string `json:"pimage" validate:"omitempty,url"`
}

// ProductService serves the retail catalog with Redis-backed listings.
type ProductService struct {
	repo      productRepository
	cache     *CacheService
	metrics   *MetricsService
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProductService constructs a ProductService.
func NewProductService(repo productRepository, cache *CacheService, metrics *MetricsService, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *ProductService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, validator: validate, logger: logger}
}

func parseKind(raw string) (models.ProductKind, error) {
	kind, err := models.ParseProductKind(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "Unknown catalog")
	}
	return kind, nil
}

// List returns all products of a kind. The boolean reports a cache hit.
func (s *ProductService) List(ctx context.Context, rawKind string) ([]models.Product, bool, error) {
	kind, err := parseKind(rawKind)
	if err != nil {
		return nil, false, err
	}
	products, hit, err := cachedLoad(ctx, s.cache, catalogCachePrefix+kind.String(), s.ttl, func(ctx context.Context) ([]models.Product, error) {
		start := time.Now()
		products, err := s.repo.List(ctx, kind)
		s.metrics.ObserveDBQuery("catalog_list", time.Since(start))
		return products, err
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list products")
	}
	return products, hit, nil
}

// Get returns one product of a kind.
func (s *ProductService) Get(ctx context.Context, rawKind string, id int64) (*models.Product, error) {
	kind, err := parseKind(rawKind)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	return product, nil
}

// Create stores a product and drops the cached listing of its kind.
func (s *ProductService) Create(ctx context.Context, rawKind string, req ProductRequest) (*models.Product, error) {
	kind, err := parseKind(rawKind)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}
	product := &models.Product{Name: req.Name, Cost: req.Cost, Quantity: req.Quantity, Image: req.Image}
	if err := s.repo.Create(ctx, kind, product); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create product")
	}
	if err := s.cache.Invalidate(ctx, catalogCachePrefix+kind.String()); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.String("kind", kind.String()), zap.Error(err))
	}
	return product, nil
}
