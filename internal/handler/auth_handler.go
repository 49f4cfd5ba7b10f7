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

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req service.RegisterRequest, meta models.RequestMeta) (*models.RegisterResponse, error)
	VerifyToken(ctx context.Context, token string) (*models.TokenReport, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password and issue a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Raw(c, http.StatusOK, res)
}

// Register godoc
// @Summary Register user
// @Description Create a student account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Register payload"
// @Success 201 {object} models.RegisterResponse
// @Failure 400 {object} response.Envelope
// @Router /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}

	res, err := h.service.Register(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Raw(c, http.StatusCreated, res)
}

// VerifyToken godoc
// @Summary Inspect bearer token
// @Description Reports how the bearer token resolves to a user
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /users/verify-token [get]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	token, _ := middleware.BearerToken(c.GetHeader("Authorization"))

	report, err := h.service.VerifyToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if !report.Valid() {
		status = http.StatusUnauthorized
	}
	response.JSON(c, status, report, nil)
}
