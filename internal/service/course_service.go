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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	UpdateStatus(ctx context.Context, id int64, status models.CourseStatus) error
	Delete(ctx context.Context, id int64) error
}

type userExistenceChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CourseRequest is the payload for creating or replacing a course.
type CourseRequest struct {
	Title        string               `json:"title" validate:"required"`
	Description  *string              `json:"description"`
	InstructorID int64                `json:"instructorId" validate:"required"`
	CategoryID   int64                `json:"categoryId" validate:"required"`
	Price        float64              `json:"price" validate:"gte=0"`
	Thumbnail    *string              `json:"thumbnail"`
	Status       *models.CourseStatus `json:"status"`
}

// UpdateCourseStatusRequest carries the raw status string.
type UpdateCourseStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CourseService orchestrates course workflows.
type CourseService struct {
	repo      courseRepository
	users     userExistenceChecker
	reports   reportInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, users userExistenceChecker, reports reportInvalidator, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, users: users, reports: reports, validator: validate, logger: logger}
}

// List returns every course matching the filter.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	courses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ListByInstructor returns the instructor's courses, failing when the instructor is unknown.
func (s *CourseService) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Course, error) {
	exists, err := s.users.ExistsByID(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Instructor not found")
	}
	return s.List(ctx, models.CourseFilter{InstructorID: &instructorID})
}

// ListByCategory returns the courses filed under a category.
func (s *CourseService) ListByCategory(ctx context.Context, categoryID int64) ([]models.Course, error) {
	return s.List(ctx, models.CourseFilter{CategoryID: &categoryID})
}

// ListByStatus parses the status case-insensitively and lists matching courses.
func (s *CourseService) ListByStatus(ctx context.Context, raw string) ([]models.Course, error) {
	status, err := models.ParseCourseStatus(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid course status")
	}
	return s.List(ctx, models.CourseFilter{Status: &status})
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create validates the instructor and stores a new course.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if req.InstructorID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Instructor is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.ensureInstructor(ctx, req.InstructorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		CategoryID:   req.CategoryID,
		Price:        req.Price,
		Thumbnail:    req.Thumbnail,
		Status:       models.CourseStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Status != nil {
		course.Status = *req.Status
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	invalidateReports(ctx, s.reports, ReportCourses)
	return s.Get(ctx, course.ID)
}

// Update replaces a course keeping its creation time and, when none is supplied, its thumbnail.
func (s *CourseService) Update(ctx context.Context, id int64, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.InstructorID != existing.InstructorID {
		if err := s.ensureInstructor(ctx, req.InstructorID); err != nil {
			return nil, err
		}
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.InstructorID = req.InstructorID
	existing.CategoryID = req.CategoryID
	existing.Price = req.Price
	if req.Thumbnail != nil && *req.Thumbnail != "" {
		existing.Thumbnail = req.Thumbnail
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	invalidateReports(ctx, s.reports, ReportCourses, ReportRevenue)
	return s.Get(ctx, id)
}

// UpdateStatus changes the publication state, rejecting unknown values.
func (s *CourseService) UpdateStatus(ctx context.Context, id int64, raw string) (*models.Course, error) {
	status, err := models.ParseCourseStatus(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid course status")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}
	invalidateReports(ctx, s.reports, ReportCourses)
	return s.Get(ctx, id)
}

// Delete removes a course. Deleting an unknown id succeeds.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	invalidateReports(ctx, s.reports, ReportCourses, ReportRevenue)
	return nil
}

func (s *CourseService) ensureInstructor(ctx context.Context, instructorID int64) error {
	exists, err := s.users.ExistsByID(ctx, instructorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check instructor")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrValidation, "Instructor not found")
	}
	return nil
}
