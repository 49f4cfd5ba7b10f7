package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edulearn-api/internal/middleware"
	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/internal/service"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
)

type authServiceMock struct {
	lastToken    string
	lastLogin    models.LoginRequest
	lastRegister service.RegisterRequest
	lastMeta     models.RequestMeta
	report       *models.TokenReport
	loginErr     error
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.lastLogin = req
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.LoginResponse{Login: "success", Token: "t", Role: models.RoleStudent, UserID: 1}, nil
}

func (m *authServiceMock) Register(ctx context.Context, req service.RegisterRequest, meta models.RequestMeta) (*models.RegisterResponse, error) {
	m.lastRegister = req
	m.lastMeta = meta
	return &models.RegisterResponse{Register: "success", UserID: 9}, nil
}

func (m *authServiceMock) VerifyToken(ctx context.Context, token string) (*models.TokenReport, error) {
	m.lastToken = token
	return m.report, nil
}

func TestVerifyTokenStatusFollowsValidity(t *testing.T) {
	valid := true
	svc := &authServiceMock{report: &models.TokenReport{TokenPresent: true, TokenValid: &valid}}
	handler := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodGet, "/api/users/verify-token", nil)
	c.Request.Header.Set("Authorization", "Bearer abc")
	handler.VerifyToken(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.lastToken)

	svc.report = &models.TokenReport{TokenPresent: false, Message: "No token provided in Authorization header"}
	c, w = newGinContext(http.MethodGet, "/api/users/verify-token", nil)
	handler.VerifyToken(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "", svc.lastToken)
	assert.Contains(t, w.Body.String(), "No token provided")
}

func TestLoginHandler(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodPost, "/api/users/login", []byte(`{"email":"ana@example.com","password":"x"}`))
	c.Request.Header.Set("User-Agent", "test-agent")
	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-agent", svc.lastLogin.UserAgent)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "t", body["token"])
	assert.Equal(t, "success", body["login"])
	assert.Equal(t, "STUDENT", body["role"])
	assert.EqualValues(t, 1, body["userId"])
	assert.NotContains(t, body, "data")

	svc.loginErr = appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid email or password")
	c, w = newGinContext(http.MethodPost, "/api/users/login", []byte(`{"email":"ana@example.com","password":"bad"}`))
	handler.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decodeEnvelope(t, w).Message)

	c, w = newGinContext(http.MethodPost, "/api/users/login", []byte(`{`))
	handler.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsUnknownRoleAndCapturesActor(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc)

	c, w := newGinContext(http.MethodPost, "/api/users/register", []byte(`{"name":"Ana","email":"ana@example.com","password":"x","role":"wizard"}`))
	handler.Register(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodPost, "/api/users/register", []byte(`{"name":"Ana","email":"ana@example.com","password":"x","role":"instructor"}`))
	c.Set(middleware.ContextUserKey, &models.Identity{UserID: 3, Role: models.RoleAdmin})
	handler.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body["register"])
	assert.EqualValues(t, 9, body["userId"])
	assert.NotContains(t, body, "data")
	require.NotNil(t, svc.lastRegister.Role)
	assert.Equal(t, models.RoleInstructor, *svc.lastRegister.Role)
	require.NotNil(t, svc.lastMeta.ActorID)
	assert.Equal(t, int64(3), *svc.lastMeta.ActorID)
}

type userServiceMock struct {
	deleted    []int64
	lastFilter models.UserFilter
	lastStatus string
}

func (m *userServiceMock) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	m.lastFilter = filter
	return []models.User{{ID: 1}}, nil, nil
}

func (m *userServiceMock) Get(ctx context.Context, id int64) (*models.User, error) {
	if id != 1 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
	}
	return &models.User{ID: 1, PasswordHash: "secret-hash"}, nil
}

func (m *userServiceMock) Create(ctx context.Context, req service.CreateUserRequest, meta models.RequestMeta) (*models.User, error) {
	return &models.User{ID: 2, Role: req.Role}, nil
}

func (m *userServiceMock) Update(ctx context.Context, id int64, req service.UpdateUserRequest, meta models.RequestMeta) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (m *userServiceMock) UpdateStatus(ctx context.Context, id int64, raw string, meta models.RequestMeta) (*models.User, error) {
	m.lastStatus = raw
	return &models.User{ID: id}, nil
}

func (m *userServiceMock) Delete(ctx context.Context, id int64, meta models.RequestMeta) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func TestUserHandlerGetHidesPassword(t *testing.T) {
	handler := NewUserHandler(&userServiceMock{})

	c, w := newGinContext(http.MethodGet, "/api/users/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")

	c, w = newGinContext(http.MethodGet, "/api/users/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/api/users/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandlerListAndDelete(t *testing.T) {
	svc := &userServiceMock{}
	handler := NewUserHandler(svc)

	c, w := newGinContext(http.MethodGet, "/api/users?role=admin&status=bogus&search=ana", nil)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.Role)
	assert.Equal(t, models.RoleAdmin, *svc.lastFilter.Role)
	assert.Nil(t, svc.lastFilter.Status)
	assert.Equal(t, 0, svc.lastFilter.PageSize)
	assert.Equal(t, "ana", svc.lastFilter.Search)

	c, w = newGinContext(http.MethodDelete, "/api/users/4", nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{4}, svc.deleted)
	assert.Equal(t, "User deleted successfully", decodeEnvelope(t, w).Message)

	c, w = newGinContext(http.MethodPut, "/api/users/4/status", []byte(`{"status":"blocked"}`))
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	handler.UpdateStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "blocked", svc.lastStatus)
}
