package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edulearn-api/internal/models"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
)

type mockAuthRepo struct {
	users          map[string]*models.User
	findByEmailErr error
	createErr      error
	nextID         int64
	auditLogs      []*models.AuditLog
	lastActive     map[int64]time.Time
}

func newMockAuthRepo(users ...*models.User) *mockAuthRepo {
	repo := &mockAuthRepo{users: map[string]*models.User{}, nextID: 100, lastActive: map[int64]time.Time{}}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	return repo
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if user, ok := m.users[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Email] = user
	return nil
}

func (m *mockAuthRepo) UpdateLastActive(ctx context.Context, id int64, ts time.Time) error {
	m.lastActive[id] = ts
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type recordingInvalidator struct {
	reports []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, reports ...string) {
	r.reports = append(r.reports, reports...)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthServiceForTest(t *testing.T, repo *mockAuthRepo) (*AuthService, *TokenService, *recordingInvalidator) {
	t.Helper()
	tokens, err := NewTokenService(TokenConfig{Secret: "secret"})
	require.NoError(t, err)
	invalidator := &recordingInvalidator{}
	return NewAuthService(repo, tokens, invalidator, nil, zap.NewNop()), tokens, invalidator
}

func assertAppError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected app error, got %v", err)
	assert.Equal(t, status, appErr.Status)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: 1, Name: "Ana", Email: "ana@example.com", PasswordHash: hashPassword(t, "secret"), Role: models.RoleStudent, Status: models.UserStatusActive})
	svc, tokens, _ := newAuthServiceForTest(t, repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Login)
	assert.Equal(t, int64(1), resp.UserID)
	assert.Equal(t, models.RoleStudent, resp.Role)
	assert.Equal(t, "Ana", resp.Name)
	assert.True(t, tokens.Validate(resp.Token, "ana@example.com"))
	assert.Contains(t, repo.lastActive, int64(1))
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)
}

func TestLoginFailures(t *testing.T) {
	repo := newMockAuthRepo(
		&models.User{ID: 1, Email: "ana@example.com", PasswordHash: hashPassword(t, "secret"), Role: models.RoleStudent, Status: models.UserStatusActive},
		&models.User{ID: 2, Email: "blocked@example.com", PasswordHash: hashPassword(t, "secret"), Role: models.RoleStudent, Status: models.UserStatusBlocked},
	)
	svc, _, _ := newAuthServiceForTest(t, repo)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Email: "ana@example.com"})
	assertAppError(t, err, http.StatusBadRequest, "Email and password are required")

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assertAppError(t, err, http.StatusUnauthorized, "Invalid email or password")

	_, err = svc.Login(ctx, models.LoginRequest{Email: "missing@example.com", Password: "secret"})
	assertAppError(t, err, http.StatusUnauthorized, "Invalid email or password")

	_, err = svc.Login(ctx, models.LoginRequest{Email: "blocked@example.com", Password: "secret"})
	assertAppError(t, err, http.StatusForbidden, "")
}

func TestRegisterDefaultsAndDuplicate(t *testing.T) {
	repo := newMockAuthRepo()
	svc, _, invalidator := newAuthServiceForTest(t, repo)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{Name: "Ben", Email: "ben@example.com", Password: "pw"}, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Register)

	stored := repo.users["ben@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, models.RoleStudent, stored.Role)
	assert.Equal(t, models.UserStatusActive, stored.Status)
	assert.False(t, stored.JoinDate.IsZero())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw")))
	assert.Equal(t, []string{ReportUsers}, invalidator.reports)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Ben", Email: "ben@example.com", Password: "pw"}, models.RequestMeta{})
	assertAppError(t, err, http.StatusBadRequest, "Email already in use")
}

func TestRegisterConcurrentDuplicateIsBadRequest(t *testing.T) {
	repo := newMockAuthRepo()
	repo.createErr = fmt.Errorf("insert user: %w", &pq.Error{Code: "23505", Constraint: "users_email_key"})
	svc, _, invalidator := newAuthServiceForTest(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Ben", Email: "ben@example.com", Password: "pw"}, models.RequestMeta{})
	assertAppError(t, err, http.StatusBadRequest, "Email already in use")
	assert.Empty(t, repo.auditLogs)
	assert.Empty(t, invalidator.reports)

	repo.createErr = errors.New("connection reset")
	_, err = svc.Register(ctx, RegisterRequest{Name: "Ben", Email: "ben@example.com", Password: "pw"}, models.RequestMeta{})
	assertAppError(t, err, http.StatusInternalServerError, "failed to create user")
}

func TestVerifyTokenReport(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: 5, Email: "ana@example.com", Role: models.RoleAdmin, Status: models.UserStatusActive})
	svc, tokens, _ := newAuthServiceForTest(t, repo)
	ctx := context.Background()

	report, err := svc.VerifyToken(ctx, "")
	require.NoError(t, err)
	assert.False(t, report.TokenPresent)
	assert.Equal(t, "No token provided in Authorization header", report.Message)

	report, err = svc.VerifyToken(ctx, "garbage")
	require.NoError(t, err)
	assert.Equal(t, "Could not extract email from token", report.Message)

	orphan, err := tokens.Issue("ghost@example.com")
	require.NoError(t, err)
	report, err = svc.VerifyToken(ctx, orphan)
	require.NoError(t, err)
	assert.Equal(t, "User not found with email: ghost@example.com", report.Message)
	assert.False(t, *report.UserFound)

	token, err := tokens.Issue("ana@example.com")
	require.NoError(t, err)
	report, err = svc.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, report.Valid())
	assert.Equal(t, int64(5), report.UserID)
	assert.Equal(t, models.RoleAdmin, report.UserRole)
}

func TestEnsureAdminCreatesOnce(t *testing.T) {
	repo := newMockAuthRepo()
	svc, _, _ := newAuthServiceForTest(t, repo)
	seed := SeedAdmin{Email: "admin@edulearn.com", Password: "admin123"}

	require.NoError(t, svc.EnsureAdmin(context.Background(), seed))
	admin := repo.users["admin@edulearn.com"]
	require.NotNil(t, admin)
	assert.Equal(t, "Admin User", admin.Name)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, models.UserStatusActive, admin.Status)
	firstID := admin.ID

	require.NoError(t, svc.EnsureAdmin(context.Background(), seed))
	assert.Equal(t, firstID, repo.users["admin@edulearn.com"].ID)
	assert.Len(t, repo.users, 1)
}
