package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/edulearn-api/internal/models"
)

type mockVideoRepo struct {
	videos map[int64]*models.Video
	nextID int64
}

func (m *mockVideoRepo) List(ctx context.Context) ([]models.Video, error) {
	out := []models.Video{}
	for _, v := range m.videos {
		out = append(out, *v)
	}
	return out, nil
}

func (m *mockVideoRepo) ListByCourse(ctx context.Context, courseID int64) ([]models.Video, error) {
	return m.List(ctx)
}

func (m *mockVideoRepo) ListByInstructor(ctx context.Context, instructorID int64) ([]models.Video, error) {
	return m.List(ctx)
}

func (m *mockVideoRepo) FindByID(ctx context.Context, id int64) (*models.Video, error) {
	if v, ok := m.videos[id]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockVideoRepo) Create(ctx context.Context, video *models.Video) error {
	m.nextID++
	video.ID = m.nextID
	stored := *video
	m.videos[video.ID] = &stored
	return nil
}

func (m *mockVideoRepo) Update(ctx context.Context, video *models.Video) error {
	stored := *video
	m.videos[video.ID] = &stored
	return nil
}

func (m *mockVideoRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.videos[id]; !ok {
		return false, nil
	}
	delete(m.videos, id)
	return true, nil
}

func TestVideoCreateRequiresCourse(t *testing.T) {
	repo := &mockVideoRepo{videos: map[int64]*models.Video{}}
	svc := NewVideoService(repo, existenceSet{2: true}, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, VideoRequest{Title: "Intro", CourseID: 7})
	assertAppError(t, err, http.StatusNotFound, "Course not found")

	video, err := svc.Create(ctx, VideoRequest{Title: "Intro", CourseID: 2, VideoLink: strPtr("https://cdn.example.com/v.mp4")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), video.ID)
}

func TestVideoDeleteMissingReturnsNotFound(t *testing.T) {
	repo := &mockVideoRepo{videos: map[int64]*models.Video{1: {ID: 1, Title: "Intro", CourseID: 2}}}
	svc := NewVideoService(repo, existenceSet{2: true}, nil, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 1))
	err := svc.Delete(ctx, 1)
	assertAppError(t, err, http.StatusNotFound, "Video not found")
}

func TestVideoUpdate(t *testing.T) {
	repo := &mockVideoRepo{videos: map[int64]*models.Video{1: {ID: 1, Title: "Intro", CourseID: 2}}}
	svc := NewVideoService(repo, existenceSet{2: true}, nil, zap.NewNop())

	updated, err := svc.Update(context.Background(), 1, VideoRequest{Title: "Welcome", CourseID: 2, NotesLink: strPtr("https://cdn.example.com/n.pdf")})
	require.NoError(t, err)
	assert.Equal(t, "Welcome", updated.Title)
	require.NotNil(t, repo.videos[1].NotesLink)

	_, err = svc.Update(context.Background(), 3, VideoRequest{Title: "x", CourseID: 2})
	assertAppError(t, err, http.StatusNotFound, "Video not found")
}
