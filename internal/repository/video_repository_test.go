package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edulearn-api/internal/models"
)

func TestVideoRepositoryListByInstructor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM videos v JOIN courses c ON c.id = v.course_id WHERE c.instructor_id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "video_link", "notes_link", "course_id", "created_at", "updated_at"}).
			AddRow(1, "Intro", nil, "https://cdn.example.com/intro.mp4", nil, 2, now, now))

	videos, err := repo.ListByInstructor(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Intro", videos[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepositoryDeleteReportsMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewVideoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM videos WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM videos WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepositoryUsesKindTable(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT pid, pname, pcost, pqty, pimage FROM headphones ORDER BY pid ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"pid", "pname", "pcost", "pqty", "pimage"}).AddRow(1, "Studio", 150, 4, nil))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO laptops (pname, pcost, pqty, pimage) VALUES ($1, $2, $3, $4) RETURNING pid")).
		WithArgs("Ultrabook", 900, 2, nil).
		WillReturnRows(sqlmock.NewRows([]string{"pid"}).AddRow(3))

	products, err := repo.List(context.Background(), models.ProductHeadphones)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Studio", products[0].Name)

	product := &models.Product{Name: "Ultrabook", Cost: 900, Quantity: 2}
	require.NoError(t, repo.Create(context.Background(), models.ProductLaptops, product))
	assert.Equal(t, int64(3), product.ID)

	_, err = repo.List(context.Background(), models.ProductKind("tablets"))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
