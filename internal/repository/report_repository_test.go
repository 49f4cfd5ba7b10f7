package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepositoryCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE status = $1")).
		WithArgs("ACTIVE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	active, err := repo.CountUsers(context.Background(), "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, 6, active)

	courses, err := repo.CountCourses(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryMonthlyRevenue(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXTRACT(MONTH FROM e.enrollment_date)::int AS month")).
		WillReturnRows(sqlmock.NewRows([]string{"month", "amount"}).AddRow(1, "30.00").AddRow(12, "10.50"))

	rows, err := repo.MonthlyRevenue(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 12, rows[1].Month)
	assert.InDelta(t, 10.5, rows[1].Amount, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryCoursesByCategoryFallsBackToUncategorized(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(cat.name, 'Uncategorized') AS label")).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}).AddRow("Uncategorized", 2))

	rows, err := repo.CoursesByCategory(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, UncategorizedLabel, rows[0].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}
