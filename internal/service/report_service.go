package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/dto"
	"github.com/noah-isme/edulearn-api/internal/models"
	"github.com/noah-isme/edulearn-api/internal/repository"
	appErrors "github.com/noah-isme/edulearn-api/pkg/errors"
	"github.com/noah-isme/edulearn-api/pkg/jobs"
)

// Report names double as cache key suffixes.
const (
	ReportEnrollments = "enrollments"
	ReportUsers       = "users"
	ReportCourses     = "courses"
	ReportRevenue     = "revenue"

	// ReportWarmupJobType identifies queue jobs that recompute cached statistics.
	ReportWarmupJobType = "reports.warmup"

	reportCachePrefix = "reports:"
	reportTopLimit    = 5
)

// ReportNames lists every statistics report.
var ReportNames = []string{ReportEnrollments, ReportUsers, ReportCourses, ReportRevenue}

type reportStore interface {
	CountEnrollments(ctx context.Context) (int, error)
	EnrollmentsByStatus(ctx context.Context) ([]dto.LabelCount, error)
	MonthlyEnrollments(ctx context.Context) ([]dto.MonthlyCount, error)
	RecentEnrollments(ctx context.Context, limit int) ([]dto.RecentEnrollment, error)
	CountUsers(ctx context.Context, status string) (int, error)
	UsersByRole(ctx context.Context) ([]dto.LabelCount, error)
	MonthlyUserGrowth(ctx context.Context) ([]dto.MonthlyCount, error)
	RecentUsers(ctx context.Context, limit int) ([]dto.RecentUser, error)
	CountCourses(ctx context.Context, status string) (int, error)
	CategoryNames(ctx context.Context) ([]string, error)
	CoursesByCategory(ctx context.Context) ([]dto.LabelCount, error)
	PopularCourses(ctx context.Context, limit int) ([]dto.PopularCourse, error)
	RecentCourses(ctx context.Context, limit int) ([]dto.RecentCourse, error)
	TotalRevenue(ctx context.Context) (float64, error)
	MonthlyRevenue(ctx context.Context) ([]dto.MonthlyAmount, error)
	RevenueByCategory(ctx context.Context) ([]dto.LabelAmount, error)
}

// ReportService computes dashboard statistics and keeps them cached.
type ReportService struct {
	repo    reportStore
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(repo reportStore, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// EnrollmentStats returns enrollment totals, status split, monthly counts and the newest enrollments.
// The flag reports whether the payload was served from the cache.
func (s *ReportService) EnrollmentStats(ctx context.Context) (*dto.EnrollmentStats, bool, error) {
	stats, hit, err := cachedLoad(ctx, s.cache, reportCachePrefix+ReportEnrollments, s.ttl, s.computeEnrollmentStats)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to retrieve enrollment statistics")
	}
	return &stats, hit, nil
}

// UserStats returns user totals, role split, monthly growth and the newest registrations.
func (s *ReportService) UserStats(ctx context.Context) (*dto.UserStats, bool, error) {
	stats, hit, err := cachedLoad(ctx, s.cache, reportCachePrefix+ReportUsers, s.ttl, s.computeUserStats)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to retrieve user statistics")
	}
	return &stats, hit, nil
}

// CourseStats returns course totals, category split, the most popular and the newest courses.
func (s *ReportService) CourseStats(ctx context.Context) (*dto.CourseStats, bool, error) {
	stats, hit, err := cachedLoad(ctx, s.cache, reportCachePrefix+ReportCourses, s.ttl, s.computeCourseStats)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to retrieve course statistics")
	}
	return &stats, hit, nil
}

// RevenueStats returns revenue derived from the price of enrolled courses.
func (s *ReportService) RevenueStats(ctx context.Context) (*dto.RevenueStats, bool, error) {
	stats, hit, err := cachedLoad(ctx, s.cache, reportCachePrefix+ReportRevenue, s.ttl, s.computeRevenueStats)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to retrieve revenue statistics")
	}
	return &stats, hit, nil
}

// System returns the process level counters collected by the metrics service.
func (s *ReportService) System() models.SystemMetrics {
	return s.metrics.Snapshot()
}

// Invalidate drops the cached copies of the named reports. A nil service is a no-op.
func (s *ReportService) Invalidate(ctx context.Context, reports ...string) {
	if s == nil {
		return
	}
	for _, name := range reports {
		if err := s.cache.Invalidate(ctx, reportCachePrefix+name); err != nil {
			s.logger.Warn("failed to invalidate report cache", zap.String("report", name), zap.Error(err))
		}
	}
}

// Refresh recomputes the named reports, or every report when none is named, and stores them in cache.
func (s *ReportService) Refresh(ctx context.Context, reports ...string) error {
	if len(reports) == 0 {
		reports = ReportNames
	}
	for _, name := range reports {
		var (
			value interface{}
			err   error
		)
		switch name {
		case ReportEnrollments:
			value, err = s.computeEnrollmentStats(ctx)
		case ReportUsers:
			value, err = s.computeUserStats(ctx)
		case ReportCourses:
			value, err = s.computeCourseStats(ctx)
		case ReportRevenue:
			value, err = s.computeRevenueStats(ctx)
		default:
			return fmt.Errorf("unknown report %q", name)
		}
		if err != nil {
			return fmt.Errorf("refresh %s report: %w", name, err)
		}
		if err := s.cache.Set(ctx, reportCachePrefix+name, value, s.ttl); err != nil {
			s.logger.Warn("failed to store report", zap.String("report", name), zap.Error(err))
		}
	}
	return nil
}

// WarmupJob builds a queue job that refreshes the named reports.
func WarmupJob(reports ...string) jobs.Job {
	return jobs.Job{Type: ReportWarmupJobType, Payload: reports}
}

// HandleJob is the queue handler for warm-up jobs.
func (s *ReportService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != ReportWarmupJobType {
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
	reports, _ := job.Payload.([]string)
	start := time.Now()
	err := s.Refresh(ctx, reports...)
	s.metrics.ObserveJob(job.Type, err)
	if err != nil {
		return err
	}
	s.logger.Debug("reports refreshed", zap.String("job_id", job.ID), zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *ReportService) observe(label string, start time.Time) {
	s.metrics.ObserveDBQuery(label, time.Since(start))
}

func (s *ReportService) computeEnrollmentStats(ctx context.Context) (dto.EnrollmentStats, error) {
	defer s.observe("report_enrollments", time.Now())
	var stats dto.EnrollmentStats

	total, err := s.repo.CountEnrollments(ctx)
	if err != nil {
		return stats, err
	}
	byStatus, err := s.repo.EnrollmentsByStatus(ctx)
	if err != nil {
		return stats, err
	}
	monthly, err := s.repo.MonthlyEnrollments(ctx)
	if err != nil {
		return stats, err
	}
	recent, err := s.repo.RecentEnrollments(ctx, reportTopLimit)
	if err != nil {
		return stats, err
	}

	stats.TotalEnrollments = total
	stats.EnrollmentByStatus = make(map[string]int, len(models.EnrollmentStatuses))
	for _, status := range models.EnrollmentStatuses {
		stats.EnrollmentByStatus[status.String()] = 0
	}
	for _, row := range byStatus {
		stats.EnrollmentByStatus[row.Label] += row.Count
	}
	stats.MonthlyEnrollments = monthlyCounts(monthly)
	stats.RecentEnrollments = nonNil(recent)
	return stats, nil
}

func (s *ReportService) computeUserStats(ctx context.Context) (dto.UserStats, error) {
	defer s.observe("report_users", time.Now())
	var stats dto.UserStats

	total, err := s.repo.CountUsers(ctx, "")
	if err != nil {
		return stats, err
	}
	active, err := s.repo.CountUsers(ctx, models.UserStatusActive.String())
	if err != nil {
		return stats, err
	}
	byRole, err := s.repo.UsersByRole(ctx)
	if err != nil {
		return stats, err
	}
	growth, err := s.repo.MonthlyUserGrowth(ctx)
	if err != nil {
		return stats, err
	}
	recent, err := s.repo.RecentUsers(ctx, reportTopLimit)
	if err != nil {
		return stats, err
	}

	stats.TotalUsers = total
	stats.ActiveUsers = active
	stats.UsersByRole = make(map[string]int, len(models.UserRoles))
	for _, role := range models.UserRoles {
		stats.UsersByRole[role.String()] = 0
	}
	for _, row := range byRole {
		stats.UsersByRole[row.Label] += row.Count
	}
	stats.UserGrowth = monthlyCounts(growth)
	stats.RecentUsers = nonNil(recent)
	return stats, nil
}

func (s *ReportService) computeCourseStats(ctx context.Context) (dto.CourseStats, error) {
	defer s.observe("report_courses", time.Now())
	var stats dto.CourseStats

	total, err := s.repo.CountCourses(ctx, "")
	if err != nil {
		return stats, err
	}
	published, err := s.repo.CountCourses(ctx, models.CourseStatusPublished.String())
	if err != nil {
		return stats, err
	}
	names, err := s.repo.CategoryNames(ctx)
	if err != nil {
		return stats, err
	}
	byCategory, err := s.repo.CoursesByCategory(ctx)
	if err != nil {
		return stats, err
	}
	popular, err := s.repo.PopularCourses(ctx, reportTopLimit)
	if err != nil {
		return stats, err
	}
	recent, err := s.repo.RecentCourses(ctx, reportTopLimit)
	if err != nil {
		return stats, err
	}

	stats.TotalCourses = total
	stats.ActiveCourses = published
	stats.CoursesByCategory = make(map[string]int, len(names)+1)
	for _, name := range categoryLabels(names) {
		stats.CoursesByCategory[name] = 0
	}
	for _, row := range byCategory {
		stats.CoursesByCategory[row.Label] += row.Count
	}
	stats.PopularCourses = nonNil(popular)
	stats.RecentCourses = nonNil(recent)
	return stats, nil
}

func (s *ReportService) computeRevenueStats(ctx context.Context) (dto.RevenueStats, error) {
	defer s.observe("report_revenue", time.Now())
	var stats dto.RevenueStats

	total, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return stats, err
	}
	monthly, err := s.repo.MonthlyRevenue(ctx)
	if err != nil {
		return stats, err
	}
	names, err := s.repo.CategoryNames(ctx)
	if err != nil {
		return stats, err
	}
	byCategory, err := s.repo.RevenueByCategory(ctx)
	if err != nil {
		return stats, err
	}

	stats.TotalRevenue = total
	for _, row := range monthly {
		if row.Month >= 1 && row.Month <= 12 {
			stats.MonthlyRevenue[row.Month-1] += row.Amount
		}
	}
	stats.RevenueByCategory = make(map[string]float64, len(names)+1)
	for _, name := range categoryLabels(names) {
		stats.RevenueByCategory[name] = 0
	}
	for _, row := range byCategory {
		stats.RevenueByCategory[row.Label] += row.Amount
	}
	return stats, nil
}

func monthlyCounts(rows []dto.MonthlyCount) [12]int {
	var out [12]int
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			out[row.Month-1] += row.Count
		}
	}
	return out
}

// categoryLabels returns the seed keys for per-category maps; Uncategorized is always present.
func categoryLabels(names []string) []string {
	labels := make([]string, 0, len(names)+1)
	for _, name := range names {
		if name == "" {
			name = repository.UncategorizedLabel
		}
		labels = append(labels, name)
	}
	return append(labels, repository.UncategorizedLabel)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
