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

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	ExistsByUserAndCourse(ctx context.Context, userID, courseID int64) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus, completionDate *time.Time) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id int64) error
}

type courseExistenceChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// CreateEnrollmentRequest accepts ids as JSON numbers or numeric strings.
type CreateEnrollmentRequest struct {
	UserID   models.FlexibleID `json:"userId"`
	CourseID models.FlexibleID `json:"courseId"`
	Status   string            `json:"status"`
}

// UpdateEnrollmentStatusRequest carries the raw status string.
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateEnrollmentRequest merges into an existing enrollment. Absent fields keep their value.
type UpdateEnrollmentRequest struct {
	Status         string     `json:"status"`
	CompletionDate *time.Time `json:"completionDate"`
}

// EnrollmentService orchestrates enrollment workflows.
type EnrollmentService struct {
	repo      enrollmentRepository
	users     userExistenceChecker
	courses   courseExistenceChecker
	audit     auditRecorder
	reports   reportInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, users userExistenceChecker, courses courseExistenceChecker, audit auditRecorder, reports reportInvalidator, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:      repo,
		users:     users,
		courses:   courses,
		audit:     audit,
		reports:   reports,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns enrollments matching the filter.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// ListByUser returns the enrollments of a user.
func (s *EnrollmentService) ListByUser(ctx context.Context, userID int64) ([]models.EnrollmentDetail, error) {
	return s.List(ctx, models.EnrollmentFilter{UserID: &userID})
}

// ListByCourse returns the enrollments of a course.
func (s *EnrollmentService) ListByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentDetail, error) {
	return s.List(ctx, models.EnrollmentFilter{CourseID: &courseID})
}

// Get returns an enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Enroll creates an enrollment after checking both parties exist and the pair is new.
// The uniqueness check and the insert are not atomic.
func (s *EnrollmentService) Enroll(ctx context.Context, req CreateEnrollmentRequest, meta models.RequestMeta) (*models.EnrollmentDetail, error) {
	userID, courseID := req.UserID.Int64(), req.CourseID.Int64()
	if userID == 0 || courseID == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "userId and courseId are required")
	}

	status := models.EnrollmentStatusInProgress
	if req.Status != "" {
		parsed, err := models.ParseEnrollmentStatus(req.Status)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				"Invalid status value. Valid values are: "+models.JoinEnrollmentStatuses())
		}
		status = parsed
	}

	userExists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check user")
	}
	courseExists, err := s.courses.ExistsByID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course")
	}
	if !userExists || !courseExists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "User or course not found")
	}

	enrolled, err := s.repo.ExistsByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "User is already enrolled in this course")
	}

	now := s.now().UTC()
	enrollment := &models.Enrollment{
		UserID:         userID,
		CourseID:       courseID,
		EnrollmentDate: now,
		Status:         status,
	}
	if status == models.EnrollmentStatusCompleted {
		enrollment.CompletionDate = &now
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	recordAudit(ctx, s.audit, s.logger, meta, models.AuditActionEnrollmentCreate, "enrollments", enrollment.ID, nil, enrollment)
	invalidateReports(ctx, s.reports, ReportEnrollments, ReportCourses, ReportRevenue)
	return s.Get(ctx, enrollment.ID)
}

// UpdateStatus moves an enrollment to a new status. Only COMPLETED stamps the completion date.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id int64, raw string, meta models.RequestMeta) (*models.EnrollmentDetail, error) {
	status, err := models.ParseEnrollmentStatus(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"Invalid status value. Valid values are: "+models.JoinEnrollmentStatuses())
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	completion := existing.CompletionDate
	if status == models.EnrollmentStatusCompleted {
		now := s.now().UTC()
		completion = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, status, completion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment status")
	}

	recordAudit(ctx, s.audit, s.logger, meta, models.AuditActionEnrollmentStatus, "enrollments", id,
		map[string]models.EnrollmentStatus{"status": existing.Status}, map[string]models.EnrollmentStatus{"status": status})
	invalidateReports(ctx, s.reports, ReportEnrollments)

	existing.Status = status
	existing.CompletionDate = completion
	return existing, nil
}

// Update merges status and completion date into an enrollment. The user, course
// and enrollment date never change.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req UpdateEnrollmentRequest, meta models.RequestMeta) (*models.EnrollmentDetail, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := existing.Enrollment

	updated := existing.Enrollment
	if req.Status != "" {
		status, err := models.ParseEnrollmentStatus(req.Status)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				"Invalid status value. Valid values are: "+models.JoinEnrollmentStatuses())
		}
		updated.Status = status
	}
	if req.CompletionDate != nil {
		completion := req.CompletionDate.UTC()
		updated.CompletionDate = &completion
	} else if updated.Status == models.EnrollmentStatusCompleted && updated.CompletionDate == nil {
		now := s.now().UTC()
		updated.CompletionDate = &now
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}

	recordAudit(ctx, s.audit, s.logger, meta, models.AuditActionEnrollmentUpdate, "enrollments", id, before, updated)
	invalidateReports(ctx, s.reports, ReportEnrollments)

	existing.Enrollment = updated
	return existing, nil
}

// Delete removes an enrollment. Deleting an unknown id succeeds.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	invalidateReports(ctx, s.reports, ReportEnrollments, ReportCourses, ReportRevenue)
	return nil
}
