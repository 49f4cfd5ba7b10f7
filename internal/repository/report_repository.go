package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edulearn-api/internal/dto"
)

// UncategorizedLabel groups courses whose category row is missing.
const UncategorizedLabel = "Uncategorized"

// ReportRepository runs the aggregate queries behind the statistics reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) count(ctx context.Context, label, query string, args ...interface{}) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return total, nil
}

// CountEnrollments returns the number of enrollments.
func (r *ReportRepository) CountEnrollments(ctx context.Context) (int, error) {
	return r.count(ctx, "count enrollments", `SELECT COUNT(*) FROM enrollments`)
}

// EnrollmentsByStatus groups enrollments by status.
func (r *ReportRepository) EnrollmentsByStatus(ctx context.Context) ([]dto.LabelCount, error) {
	rows := []dto.LabelCount{}
	const query = `SELECT status AS label, COUNT(*) AS count FROM enrollments GROUP BY status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("enrollments by status: %w", err)
	}
	return rows, nil
}

// MonthlyEnrollments groups enrollments by calendar month regardless of year.
func (r *ReportRepository) MonthlyEnrollments(ctx context.Context) ([]dto.MonthlyCount, error) {
	rows := []dto.MonthlyCount{}
	const query = `SELECT EXTRACT(MONTH FROM enrollment_date)::int AS month, COUNT(*) AS count
FROM enrollments GROUP BY 1`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly enrollments: %w", err)
	}
	return rows, nil
}

// RecentEnrollments returns the newest enrollments.
func (r *ReportRepository) RecentEnrollments(ctx context.Context, limit int) ([]dto.RecentEnrollment, error) {
	rows := []dto.RecentEnrollment{}
	const query = `SELECT e.id AS enrollment_id, e.user_id, COALESCE(u.name, 'Unknown') AS user_name,
COALESCE(c.title, 'Unknown') AS course_name, e.enrollment_date, e.status
FROM enrollments e
LEFT JOIN users u ON u.id = e.user_id
LEFT JOIN courses c ON c.id = e.course_id
ORDER BY e.enrollment_date DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("recent enrollments: %w", err)
	}
	return rows, nil
}

// CountUsers returns the number of users, optionally restricted to a status.
func (r *ReportRepository) CountUsers(ctx context.Context, status string) (int, error) {
	if status == "" {
		return r.count(ctx, "count users", `SELECT COUNT(*) FROM users`)
	}
	return r.count(ctx, "count users by status", `SELECT COUNT(*) FROM users WHERE status = $1`, status)
}

// UsersByRole groups users by role.
func (r *ReportRepository) UsersByRole(ctx context.Context) ([]dto.LabelCount, error) {
	rows := []dto.LabelCount{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT role AS label, COUNT(*) AS count FROM users GROUP BY role`); err != nil {
		return nil, fmt.Errorf("users by role: %w", err)
	}
	return rows, nil
}

// MonthlyUserGrowth groups users by join month regardless of year.
func (r *ReportRepository) MonthlyUserGrowth(ctx context.Context) ([]dto.MonthlyCount, error) {
	rows := []dto.MonthlyCount{}
	const query = `SELECT EXTRACT(MONTH FROM join_date)::int AS month, COUNT(*) AS count FROM users GROUP BY 1`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly user growth: %w", err)
	}
	return rows, nil
}

// RecentUsers returns the newest accounts.
func (r *ReportRepository) RecentUsers(ctx context.Context, limit int) ([]dto.RecentUser, error) {
	rows := []dto.RecentUser{}
	const query = `SELECT id, name, email, role, status, join_date FROM users ORDER BY join_date DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	return rows, nil
}

// CountCourses returns the number of courses, optionally restricted to a status.
func (r *ReportRepository) CountCourses(ctx context.Context, status string) (int, error) {
	if status == "" {
		return r.count(ctx, "count courses", `SELECT COUNT(*) FROM courses`)
	}
	return r.count(ctx, "count courses by status", `SELECT COUNT(*) FROM courses WHERE status = $1`, status)
}

// CategoryNames returns the name of every category.
func (r *ReportRepository) CategoryNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, `SELECT name FROM categories ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("category names: %w", err)
	}
	return names, nil
}

// CoursesByCategory groups courses by category name.
func (r *ReportRepository) CoursesByCategory(ctx context.Context) ([]dto.LabelCount, error) {
	rows := []dto.LabelCount{}
	query := `SELECT COALESCE(cat.name, '` + UncategorizedLabel + `') AS label, COUNT(*) AS count
FROM courses c LEFT JOIN categories cat ON cat.id = c.category_id GROUP BY 1`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("courses by category: %w", err)
	}
	return rows, nil
}

// PopularCourses ranks courses by enrollment count.
func (r *ReportRepository) PopularCourses(ctx context.Context, limit int) ([]dto.PopularCourse, error) {
	rows := []dto.PopularCourse{}
	const query = `SELECT c.id, c.title, COUNT(e.id) AS enrollments
FROM courses c LEFT JOIN enrollments e ON e.course_id = c.id
GROUP BY c.id, c.title ORDER BY enrollments DESC, c.id ASC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("popular courses: %w", err)
	}
	return rows, nil
}

// RecentCourses returns the newest courses.
func (r *ReportRepository) RecentCourses(ctx context.Context, limit int) ([]dto.RecentCourse, error) {
	rows := []dto.RecentCourse{}
	const query = `SELECT c.id, c.title, COALESCE(u.name, 'Unknown') AS instructor_name, c.created_at
FROM courses c LEFT JOIN users u ON u.id = c.instructor_id
ORDER BY c.created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("recent courses: %w", err)
	}
	return rows, nil
}

// TotalRevenue sums the price of every enrolled course.
func (r *ReportRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	const query = `SELECT COALESCE(SUM(c.price), 0) FROM enrollments e JOIN courses c ON c.id = e.course_id`
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("total revenue: %w", err)
	}
	return total, nil
}

// MonthlyRevenue sums enrolled course prices by enrollment month regardless of year.
func (r *ReportRepository) MonthlyRevenue(ctx context.Context) ([]dto.MonthlyAmount, error) {
	rows := []dto.MonthlyAmount{}
	const query = `SELECT EXTRACT(MONTH FROM e.enrollment_date)::int AS month, COALESCE(SUM(c.price), 0) AS amount
FROM enrollments e JOIN courses c ON c.id = e.course_id GROUP BY 1`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	return rows, nil
}

// RevenueByCategory sums enrolled course prices by category name.
func (r *ReportRepository) RevenueByCategory(ctx context.Context) ([]dto.LabelAmount, error) {
	rows := []dto.LabelAmount{}
	query := `SELECT COALESCE(cat.name, '` + UncategorizedLabel + `') AS label, COALESCE(SUM(c.price), 0) AS amount
FROM enrollments e
JOIN courses c ON c.id = e.course_id
LEFT JOIN categories cat ON cat.id = c.category_id
GROUP BY 1`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("revenue by category: %w", err)
	}
	return rows, nil
}
