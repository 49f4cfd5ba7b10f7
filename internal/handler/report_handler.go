package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulearn-api/internal/dto"
	"github.com/noah-isme/edulearn-api/internal/middleware"
	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/pkg/response"
)

type reportService interface {
	EnrollmentStats(ctx context.Context) (*dto.EnrollmentStats, bool, error)
	UserStats(ctx context.Context) (*dto.UserStats, bool, error)
	CourseStats(ctx context.Context) (*dto.CourseStats, bool, error)
	RevenueStats(ctx context.Context) (*dto.RevenueStats, bool, error)
	System() models.SystemMetrics
}

// ReportHandler exposes dashboard statistics.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Enrollments godoc
// @Summary Enrollment statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /reports/enrollments [get]
func (h *ReportHandler) Enrollments(c *gin.Context) {
	stats, hit, err := h.service.EnrollmentStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondStats(c, stats, hit)
}

// Users godoc
// @Summary User statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /reports/users [get]
func (h *ReportHandler) Users(c *gin.Context) {
	stats, hit, err := h.service.UserStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondStats(c, stats, hit)
}

// Courses godoc
// @Summary Course statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /reports/courses [get]
func (h *ReportHandler) Courses(c *gin.Context) {
	stats, hit, err := h.service.CourseStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondStats(c, stats, hit)
}

// Revenue godoc
// @Summary Revenue statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /reports/revenue [get]
func (h *ReportHandler) Revenue(c *gin.Context) {
	stats, hit, err := h.service.RevenueStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondStats(c, stats, hit)
}

// System godoc
// @Summary Process metrics snapshot
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/system [get]
func (h *ReportHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.System(), nil)
}

func respondStats(c *gin.Context, stats interface{}, hit bool) {
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats, nil, middleware.ExtractMeta(c))
}
