package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edulearn-api/internal/models"
)

var courseRowColumns = []string{"id", "title", "description", "instructor_id", "instructor_name", "category_id", "price", "thumbnail", "status", "created_at", "updated_at"}

func TestCourseRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	status := models.CourseStatusPublished
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users u ON u.id = c.instructor_id WHERE c.status = $1 ORDER BY c.id ASC")).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow(1, "Go Basics", nil, 2, "Ada", 3, "49.99", nil, "PUBLISHED", now, now))

	courses, err := repo.List(context.Background(), models.CourseFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Ada", courses[0].InstructorName)
	assert.InDelta(t, 49.99, courses[0].Price, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.id = $1")).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO courses")).
		WithArgs("Go Basics", nil, int64(2), int64(3), 10.0, nil, models.CourseStatusDraft, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	course := &models.Course{Title: "Go Basics", InstructorID: 2, CategoryID: 3, Price: 10, Status: models.CourseStatusDraft}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.Equal(t, int64(7), course.ID)
	assert.False(t, course.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryListActiveFullQuery(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, active FROM categories WHERE active = TRUE ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).AddRow(1, "Programming", true))

	categories, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.True(t, categories[0].Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories (name, active) VALUES ($1, $2) RETURNING id")).
		WithArgs("Design", true).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	category := &models.Category{Name: "Design", Active: true}
	require.NoError(t, repo.Create(context.Background(), category))
	assert.Equal(t, int64(4), category.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
