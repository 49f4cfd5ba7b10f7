package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/internal/service"
)

type auditRecorder struct {
	logs []*models.AuditLog
}

func (a *auditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestAuditRecordsSuccessfulRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &auditRecorder{}
	router := gin.New()
	router.Use(withIdentity(&models.Identity{UserID: 1, Role: models.RoleAdmin}))
	router.POST("/api/admin/upload/:kind", Audit(store, "PRODUCT_CREATE", "products", nil), func(c *gin.Context) {
		if c.Param("kind") == "tablets" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/api/admin/upload/laptops", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "/api/admin/upload/tablets", "").Code)

	require.Len(t, store.logs, 1)
	entry := store.logs[0]
	assert.Equal(t, "PRODUCT_CREATE", entry.Action)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, int64(1), *entry.UserID)
	assert.Contains(t, string(entry.NewValues), "/api/admin/upload/:kind")
}

func TestMetricsAndResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics), WithResponseMeta())
	var meta map[string]interface{}
	router.GET("/api/user/:kind", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusNoContent)
	})

	router.GET("/api/public/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := serve(router, http.MethodGet, "/api/user/laptops", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "HIT", recorder.Header().Get("X-Cache"))
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
	assert.Equal(t, uint64(1), metrics.Snapshot().RequestsTotal)

	serve(router, http.MethodGet, "/api/public/metrics", "")
	assert.Equal(t, uint64(1), metrics.Snapshot().RequestsTotal)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/wp-login.php", "").Code)
	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)
}

func TestExtractMetaWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))

	SetCacheHit(c, false)
	meta := ExtractMeta(c)
	assert.Equal(t, false, meta["cache_hit"])
	assert.NotContains(t, meta, "processing_time_ms")
}
