package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/internal/service"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
)

type courseServiceMock struct {
	lastStatus string
	created    service.CourseRequest
}

func (m *courseServiceMock) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	return []models.Course{{ID: 1, Title: "Go"}}, nil
}

func (m *courseServiceMock) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Course, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "Instructor not found")
}

func (m *courseServiceMock) ListByCategory(ctx context.Context, categoryID int64) ([]models.Course, error) {
	return []models.Course{}, nil
}

func (m *courseServiceMock) ListByStatus(ctx context.Context, raw string) ([]models.Course, error) {
	m.lastStatus = raw
	if _, err := models.ParseCourseStatus(raw); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid course status")
	}
	return []models.Course{}, nil
}

func (m *courseServiceMock) Get(ctx context.Context, id int64) (*models.Course, error) {
	return &models.Course{ID: id}, nil
}

func (m *courseServiceMock) Create(ctx context.Context, req service.CourseRequest) (*models.Course, error) {
	m.created = req
	return &models.Course{ID: 5, Title: req.Title, Status: models.CourseStatusDraft}, nil
}

func (m *courseServiceMock) Update(ctx context.Context, id int64, req service.CourseRequest) (*models.Course, error) {
	return &models.Course{ID: id, Title: req.Title}, nil
}

func (m *courseServiceMock) UpdateStatus(ctx context.Context, id int64, raw string) (*models.Course, error) {
	return &models.Course{ID: id}, nil
}

func (m *courseServiceMock) Delete(ctx context.Context, id int64) error {
	return nil
}

func TestCourseHandlerStatusAndInstructor(t *testing.T) {
	svc := &courseServiceMock{}
	handler := NewCourseHandler(svc)

	c, w := newGinContext(http.MethodGet, "/api/courses/status/published", nil)
	c.Params = gin.Params{{Key: "status", Value: "published"}}
	handler.ListByStatus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "published", svc.lastStatus)

	c, w = newGinContext(http.MethodGet, "/api/courses/status/live", nil)
	c.Params = gin.Params{{Key: "status", Value: "live"}}
	handler.ListByStatus(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/api/courses/instructor/9", nil)
	c.Params = gin.Params{{Key: "instructorId", Value: "9"}}
	handler.ListByInstructor(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Instructor not found", decodeEnvelope(t, w).Message)
}

func TestCourseHandlerCreate(t *testing.T) {
	svc := &courseServiceMock{}
	handler := NewCourseHandler(svc)

	c, w := newGinContext(http.MethodPost, "/api/courses", []byte(`{"title":"Go","instructorId":3,"categoryId":1,"price":19.99}`))
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 19.99, svc.created.Price)

	c, w = newGinContext(http.MethodPost, "/api/courses", []byte(`{"title":"Go","status":"LIVE"}`))
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type enrollmentServiceMock struct {
	req       service.CreateEnrollmentRequest
	update    service.UpdateEnrollmentRequest
	updatedID int64
	err       error
}

func (m *enrollmentServiceMock) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	return []models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) ListByUser(ctx context.Context, userID int64) ([]models.EnrollmentDetail, error) {
	return []models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) ListByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	return []models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	return &models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) Enroll(ctx context.Context, req service.CreateEnrollmentRequest, meta models.RequestMeta) (*models.EnrollmentDetail, error) {
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: 1, UserID: req.UserID.Int64(), CourseID: req.CourseID.Int64()}}, nil
}

func (m *enrollmentServiceMock) UpdateStatus(ctx context.Context, id int64, raw string, meta models.RequestMeta) (*models.EnrollmentDetail, error) {
	return &models.EnrollmentDetail{}, nil
}

func (m *enrollmentServiceMock) Update(ctx context.Context, id int64, req service.UpdateEnrollmentRequest, meta models.RequestMeta) (*models.EnrollmentDetail, error) {
	m.updatedID, m.update = id, req
	if m.err != nil {
		return nil, m.err
	}
	return &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: id}}, nil
}

func (m *enrollmentServiceMock) Delete(ctx context.Context, id int64) error {
	return nil
}

func TestEnrollmentHandlerAcceptsStringIDs(t *testing.T) {
	svc := &enrollmentServiceMock{}
	handler := NewEnrollmentHandler(svc)

	c, w := newGinContext(http.MethodPost, "/api/enrollments", []byte(`{"userId":"4","courseId":7}`))
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(4), svc.req.UserID.Int64())
	assert.Equal(t, int64(7), svc.req.CourseID.Int64())

	svc.err = appErrors.Clone(appErrors.ErrConflict, "User is already enrolled in this course")
	c, w = newGinContext(http.MethodPost, "/api/enrollments", []byte(`{"userId":4,"courseId":7}`))
	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	c, w = newGinContext(http.MethodGet, "/api/enrollments?status=paused", nil)
	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Message, "IN_PROGRESS, COMPLETED, DROPPED")
}

func TestEnrollmentHandlerUpdate(t *testing.T) {
	svc := &enrollmentServiceMock{}
	handler := NewEnrollmentHandler(svc)

	c, w := newGinContext(http.MethodPut, "/api/enrollments/5", []byte(`{"status":"COMPLETED","completionDate":"2024-06-15T00:00:00Z"}`))
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.updatedID)
	assert.Equal(t, "COMPLETED", svc.update.Status)
	require.NotNil(t, svc.update.CompletionDate)

	c, w = newGinContext(http.MethodPut, "/api/enrollments/x", []byte(`{}`))
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	handler.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = appErrors.Clone(appErrors.ErrNotFound, "Enrollment not found")
	c, w = newGinContext(http.MethodPut, "/api/enrollments/9", []byte(`{"status":"DROPPED"}`))
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	handler.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type videoServiceMock struct{}

func (videoServiceMock) List(ctx context.Context) ([]models.Video, error) { return nil, nil }
func (videoServiceMock) ListByCourse(ctx context.Context, courseID int64) ([]models.Video, error) {
	return nil, nil
}
func (videoServiceMock) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Video, error) {
	return nil, nil
}
func (videoServiceMock) Get(ctx context.Context, id int64) (*models.Video, error) {
	return &models.Video{ID: id}, nil
}
func (videoServiceMock) Create(ctx context.Context, req service.VideoRequest) (*models.Video, error) {
	return &models.Video{ID: 1}, nil
}
func (videoServiceMock) Update(ctx context.Context, id int64, req service.VideoRequest) (*models.Video, error) {
	return &models.Video{ID: id}, nil
}
func (videoServiceMock) Delete(ctx context.Context, id int64) error {
	if id != 1 {
		return appErrors.Clone(appErrors.ErrNotFound, "Video not found")
	}
	return nil
}

func TestVideoHandlerDelete(t *testing.T) {
	handler := NewVideoHandler(videoServiceMock{})

	c, w := newGinContext(http.MethodDelete, "/api/videos/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":true}`, string(decodeEnvelope(t, w).Data))

	c, w = newGinContext(http.MethodDelete, "/api/videos/2", nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
