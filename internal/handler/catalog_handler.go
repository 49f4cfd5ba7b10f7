package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulearn-api/internal/middleware"
	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/internal/service"
	"github.com/noah-isme/edulearn-api/pkg/response"
)

type productService interface {
	List(ctx context.Context, rawKind string) ([]models.Product, bool, error)
	Get(ctx context.Context, rawKind string, id int64) (*models.Product, error)
	Create(ctx context.Context, rawKind string, req service.ProductRequest) (*models.Product, error)
}

// CatalogHandler serves the retail catalog.
type CatalogHandler struct {
	products productService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(products productService) *CatalogHandler {
	return &CatalogHandler{products: products}
}

// List godoc
// @Summary List catalog products
// @Tags Catalog
// @Produce json
// @Param kind path string true "laptops, mobiles or headphones"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/{kind} [get]
func (h *CatalogHandler) List(c *gin.Context) {
	products, hit, err := h.products.List(c.Request.Context(), c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, products, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get catalog product
// @Tags Catalog
// @Produce json
// @Param kind path string true "laptops, mobiles or headphones"
// @Param pid path int true "Product ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/{kind}/{pid} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := pathID(c, "pid")
	if err != nil {
		response.Error(c, err)
		return
	}
	product, err := h.products.Get(c.Request.Context(), c.Param("kind"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, product, nil)
}

// Upload godoc
// @Summary Add catalog product
// @Description pimage must be an already hosted image URL
// @Tags Catalog
// @Accept json
// @Produce json
// @Param kind path string true "laptops, mobiles or headphones"
// @Param payload body service.ProductRequest true "Product payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/upload/{kind} [post]
func (h *CatalogHandler) Upload(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	product, err := h.products.Create(c.Request.Context(), c.Param("kind"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, product)
}
