package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/pkg/database"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastActive(ctx context.Context, id int64, ts time.Time) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type tokenIssuer interface {
	Issue(subject string) (string, error)
	Validate(token, subject string) bool
	ExtractSubject(token string) (string, bool)
}

// RegisterRequest is the self-registration payload.
type RegisterRequest struct {
	Name         string             `json:"name" validate:"required"`
	Email        string             `json:"email" validate:"required,email"`
	Password     string             `json:"password" validate:"required"`
	Role         *models.UserRole   `json:"role"`
	Status       *models.UserStatus `json:"status"`
	ProfileImage *string            `json:"profileImage"`
}

// SeedAdmin describes the administrator ensured at startup.
type SeedAdmin struct {
	Email    string
	Password string
	Name     string
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authUserRepository
	tokens    tokenIssuer
	reports   reportInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, tokens tokenIssuer, reports reportInvalidator, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, tokens: tokens, reports: reports, validator: validate, logger: logger, now: time.Now}
}

// Login authenticates a user and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid email or password")
	}

	if !user.Active() {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is not active")
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Authentication error")
	}

	if err := s.repo.UpdateLastActive(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to update last active", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	recordAudit(ctx, s.repo, s.logger, models.RequestMeta{ActorID: &user.ID, IP: req.IP, UserAgent: req.UserAgent},
		models.AuditActionLogin, "auth", user.ID, nil, map[string]string{"status": "success"})

	return &models.LoginResponse{
		Login:  "success",
		Token:  token,
		Role:   user.Role,
		UserID: user.ID,
		Name:   user.Name,
	}, nil
}

// Register creates a new account with STUDENT and ACTIVE defaults.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, meta models.RequestMeta) (*models.RegisterResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.New(appErrors.ErrConflict.Code, appErrors.ErrValidation.Status, "Email already in use")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Status:       models.UserStatusActive,
		ProfileImage: req.ProfileImage,
		JoinDate:     s.now().UTC(),
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrValidation.Status, "Email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	recordAudit(ctx, s.repo, s.logger, meta, models.AuditActionRegister, "users", user.ID, nil, user)
	invalidateReports(ctx, s.reports, ReportUsers)

	return &models.RegisterResponse{Register: "success", UserID: user.ID}, nil
}

// VerifyToken introspects a bearer token and reports each resolution step.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*models.TokenReport, error) {
	if token == "" {
		return &models.TokenReport{TokenPresent: false, Message: "No token provided in Authorization header"}, nil
	}

	report := &models.TokenReport{TokenPresent: true}
	email, ok := s.tokens.ExtractSubject(token)
	if !ok {
		report.Message = "Could not extract email from token"
		return report, nil
	}
	report.Email = email

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
		}
		found := false
		report.UserFound = &found
		report.Message = "User not found with email: " + email
		return report, nil
	}

	found := true
	report.UserFound = &found
	report.UserID = user.ID
	report.UserRole = user.Role

	valid := s.tokens.Validate(token, email)
	report.TokenValid = &valid
	if !valid {
		report.Message = "Token is invalid or expired"
	}
	return report, nil
}

// EnsureAdmin creates the administrator account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, seed SeedAdmin) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}
	_, err := s.repo.FindByEmail(ctx, seed.Email)
	if err == nil {
		s.logger.Debug("admin account already present", zap.String("email", seed.Email))
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash admin password")
	}
	name := seed.Name
	if name == "" {
		name = "Admin User"
	}
	admin := &models.User{
		Name:         name,
		Email:        seed.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
		JoinDate:     s.now().UTC(),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}
	s.logger.Info("admin account created", zap.String("email", seed.Email), zap.Int64("user_id", admin.ID))
	return nil
}
