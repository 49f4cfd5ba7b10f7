package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/internal/service"
	"github.com/noah-isme/edulearn-api/pkg/response"
)

type videoService interface {
	List(ctx context.Context) ([]models.Video, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Video, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]models.Video, error)
	Get(ctx context.Context, id int64) (*models.Video, error)
	Create(ctx context.Context, req service.VideoRequest) (*models.Video, error)
	Update(ctx context.Context, id int64, req service.VideoRequest) (*models.Video, error)
	Delete(ctx context.Context, id int64) error
}

// VideoHandler exposes course video endpoints.
type VideoHandler struct {
	service videoService
}

// NewVideoHandler constructs the handler.
func NewVideoHandler(svc videoService) *VideoHandler {
	return &VideoHandler{service: svc}
}

// List godoc
// @Summary List videos
// @Tags Videos
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	videos, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, videos, nil)
}

// Get godoc
// @Summary Get video
// @Tags Videos
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	video, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, video, nil)
}

// ListByCourse godoc
// @Summary List a course's videos
// @Tags Videos
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /videos/course/{courseId} [get]
func (h *VideoHandler) ListByCourse(c *gin.Context) {
	id, err := pathID(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	videos, err := h.service.ListByCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, videos, nil)
}

// ListByInstructor godoc
// @Summary List videos across an instructor's courses
// @Tags Videos
// @Produce json
// @Param instructorId path int true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /videos/instructor/{instructorId} [get]
func (h *VideoHandler) ListByInstructor(c *gin.Context) {
	id, err := pathID(c, "instructorId")
	if err != nil {
		response.Error(c, err)
		return
	}
	videos, err := h.service.ListByInstructor(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, videos, nil)
}

// Create godoc
// @Summary Create video
// @Tags Videos
// @Accept json
// @Produce json
// @Param payload body service.VideoRequest true "Video payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /videos [post]
func (h *VideoHandler) Create(c *gin.Context) {
	var req service.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	video, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, video)
}

// Update godoc
// @Summary Update video
// @Tags Videos
// @Accept json
// @Produce json
// @Param id path int true "Video ID"
// @Param payload body service.VideoRequest true "Video payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /videos/{id} [put]
func (h *VideoHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	video, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, video, nil)
}

// Delete godoc
// @Summary Delete video
// @Tags Videos
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
