package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/models"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
)

type videoRepository interface {
	List(ctx context.Context) ([]models.Video, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Video, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]models.Video, error)
	FindByID(ctx context.Context, id int64) (*models.Video, error)
	Create(ctx context.Context, video *models.Video) error
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// VideoRequest is the payload for creating or updating a video.
type VideoRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	VideoLink   *string `json:"videoLink"`
	NotesLink   *string `json:"notesLink"`
	CourseID    int64   `json:"courseId" validate:"required"`
}

// VideoService orchestrates video workflows.
type VideoService struct {
	repo      videoRepository
	courses   courseExistenceChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVideoService constructs a VideoService.
func NewVideoService(repo videoRepository, courses courseExistenceChecker, validate *validator.Validate, logger *zap.Logger) *VideoService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns every video.
func (s *VideoService) List(ctx context.Context) ([]models.Video, error) {
	videos, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list videos")
	}
	return videos, nil
}

// ListByCourse returns the videos of a course.
func (s *VideoService) ListByCourse(ctx context.Context, courseID int64) ([]models.Video, error) {
	videos, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course videos")
	}
	return videos, nil
}

// ListByInstructor returns the videos of every course an instructor teaches.
func (s *VideoService) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Video, error) {
	videos, err := s.repo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructor videos")
	}
	return videos, nil
}

// Get returns a video by id.
func (s *VideoService) Get(ctx context.Context, id int64) (*models.Video, error) {
	video, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Video not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load video")
	}
	return video, nil
}

// Create attaches a new video to an existing course.
func (s *VideoService) Create(ctx context.Context, req VideoRequest) (*models.Video, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid video payload")
	}
	if err := s.ensureCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}
	video := &models.Video{
		Title:       req.Title,
		Description: req.Description,
		VideoLink:   req.VideoLink,
		NotesLink:   req.NotesLink,
		CourseID:    req.CourseID,
	}
	if err := s.repo.Create(ctx, video); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create video")
	}
	return video, nil
}

// Update overwrites a video keeping its creation time.
func (s *VideoService) Update(ctx context.Context, id int64, req VideoRequest) (*models.Video, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid video payload")
	}
	video, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CourseID != video.CourseID {
		if err := s.ensureCourse(ctx, req.CourseID); err != nil {
			return nil, err
		}
	}
	video.Title = req.Title
	video.Description = req.Description
	video.VideoLink = req.VideoLink
	video.NotesLink = req.NotesLink
	video.CourseID = req.CourseID
	if err := s.repo.Update(ctx, video); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update video")
	}
	return video, nil
}

// Delete removes a video, failing with NotFound when it does not exist.
func (s *VideoService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete video")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "Video not found")
	}
	return nil
}

func (s *VideoService) ensureCourse(ctx context.Context, courseID int64) error {
	exists, err := s.courses.ExistsByID(ctx, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "Course not found")
	}
	return nil
}
