package models

import "time"

// Video is a lesson attached to a course.
type Video struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	VideoLink   *string   `db:"video_link" json:"videoLink,omitempty"`
	NotesLink   *string   `db:"notes_link" json:"notesLink,omitempty"`
	CourseID    int64     `db:"course_id" json:"courseId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
