package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edulearn-api/internal/models"
)

const videoColumns = `v.id, v.title, v.description, v.video_link, v.notes_link, v.course_id, v.created_at, v.updated_at`

// VideoRepository manages course videos.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository constructs a VideoRepository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// List returns every video.
func (r *VideoRepository) List(ctx context.Context) ([]models.Video, error) {
	videos := []models.Video{}
	if err := r.db.SelectContext(ctx, &videos, `SELECT `+videoColumns+` FROM videos v ORDER BY v.id ASC`); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// ListByCourse returns videos attached to a course.
func (r *VideoRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Video, error) {
	videos := []models.Video{}
	query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.course_id = $1 ORDER BY v.id ASC`
	if err := r.db.SelectContext(ctx, &videos, query, courseID); err != nil {
		return nil, fmt.Errorf("list videos by course: %w", err)
	}
	return videos, nil
}

// ListByInstructor returns videos of every course taught by the instructor.
func (r *VideoRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Video, error) {
	videos := []models.Video{}
	query := `SELECT ` + videoColumns + ` FROM videos v JOIN courses c ON c.id = v.course_id WHERE c.instructor_id = $1 ORDER BY v.id ASC`
	if err := r.db.SelectContext(ctx, &videos, query, instructorID); err != nil {
		return nil, fmt.Errorf("list videos by instructor: %w", err)
	}
	return videos, nil
}

// FindByID returns a video by id.
func (r *VideoRepository) FindByID(ctx context.Context, id int64) (*models.Video, error) {
	var video models.Video
	if err := r.db.GetContext(ctx, &video, `SELECT `+videoColumns+` FROM videos v WHERE v.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return &video, nil
}

// Create inserts a video.
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	now := time.Now().UTC()
	video.CreatedAt = now
	video.UpdatedAt = now
	const query = `INSERT INTO videos (title, description, video_link, notes_link, course_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		video.Title, video.Description, video.VideoLink, video.NotesLink, video.CourseID, video.CreatedAt, video.UpdatedAt,
	).Scan(&video.ID); err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

// Update overwrites the video fields except created_at.
func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	video.UpdatedAt = time.Now().UTC()
	const query = `UPDATE videos SET title = :title, description = :description, video_link = :video_link,
        notes_link = :notes_link, course_id = :course_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, video); err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return nil
}

// Delete removes the video and reports whether a row was deleted.
func (r *VideoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete video: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete video rows affected: %w", err)
	}
	return affected > 0, nil
}
