package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/pkg/database"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error
	Delete(ctx context.Context, id int64) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CreateUserRequest represents an administrator creating an account with any role.
type CreateUserRequest struct {
	Name         string             `json:"name" validate:"required"`
	Email        string             `json:"email" validate:"required,email"`
	Password     string             `json:"password" validate:"required"`
	Role         models.UserRole    `json:"role"`
	Status       *models.UserStatus `json:"status"`
	ProfileImage *string            `json:"profileImage"`
}

// UpdateUserRequest merges the provided fields into an existing user.
type UpdateUserRequest struct {
	Name         *string            `json:"name"`
	Email        *string            `json:"email" validate:"omitempty,email"`
	Password     *string            `json:"password"`
	Role         *models.UserRole   `json:"role"`
	Status       *models.UserStatus `json:"status"`
	ProfileImage *string            `json:"profileImage"`
}

// UpdateUserStatusRequest carries the raw status string.
type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UserService handles user management workflows.
type UserService struct {
	repo      userRepository
	reports   reportInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, reports reportInvalidator, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, reports: reports, validator: validate, logger: logger}
}

// List returns users. Pagination is only reported when a page size was requested.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if filter.PageSize <= 0 {
		return users, nil, nil
	}
	return users, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Create registers a user on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest, meta models.RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if err := s.ensureEmailAvailable(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       models.UserStatusActive,
		ProfileImage: req.ProfileImage,
		JoinDate:     time.Now().UTC(),
	}
	if user.Role == "" {
		user.Role = models.RoleStudent
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, emailWriteError(err, "failed to create user")
	}

	recordAudit(ctx, s.repo, s.logger, meta, models.AuditActionRegister, "users", user.ID, nil, user)
	invalidateReports(ctx, s.reports, ReportUsers)
	return user, nil
}

// Update merges the request into the stored user. join_date is preserved.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest, meta models.RequestMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *user

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" && *req.Email != user.Email {
		if err := s.ensureEmailAvailable(ctx, *req.Email, id); err != nil {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.ProfileImage != nil {
		user.ProfileImage = req.ProfileImage
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, emailWriteError(err, "failed to update user")
	}

	recordAudit(ctx, s.repo, s.logger, meta, models.AuditActionUserUpdate, "users", id, before, user)
	invalidateReports(ctx, s.reports, ReportUsers)
	return user, nil
}

// UpdateStatus changes the account status, rejecting unknown values.
func (s *UserService) UpdateStatus(ctx context.Context, id int64, raw string, meta models.RequestMeta) (*models.User, error) {
	status, err := models.ParseUserStatus(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid status value")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := user.Status

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user status")
	}
	user.Status = status

	recordAudit(ctx, s.repo, s.logger, meta, models.AuditActionUserStatus, "users", id,
		map[string]models.UserStatus{"status": previous}, map[string]models.UserStatus{"status": status})
	invalidateReports(ctx, s.reports, ReportUsers)
	return user, nil
}

// Delete removes a user. Deleting an unknown id succeeds.
func (s *UserService) Delete(ctx context.Context, id int64, meta models.RequestMeta) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	recordAudit(ctx, s.repo, s.logger, meta, models.AuditActionUserDelete, "users", id, nil, nil)
	invalidateReports(ctx, s.reports, ReportUsers)
	return nil
}

func (s *UserService) ensureEmailAvailable(ctx context.Context, email string, ownerID int64) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if existing.ID != ownerID {
		return appErrors.Clone(appErrors.ErrConflict, "Email already in use")
	}
	return nil
}

// emailWriteError maps a unique violation that slipped past ensureEmailAvailable
// to the same conflict the pre-check reports.
func emailWriteError(err error, message string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Email already in use")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
