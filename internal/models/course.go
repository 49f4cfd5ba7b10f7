package models

import (
	"fmt"
	"strings"
	"time"
)

// CourseStatus represents the publication state of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusArchived  CourseStatus = "ARCHIVED"
)

// CourseStatuses lists every accepted course status.
var CourseStatuses = []CourseStatus{CourseStatusDraft, CourseStatusPublished, CourseStatusArchived}

// ParseCourseStatus converts raw input into a CourseStatus, ignoring case.
func ParseCourseStatus(raw string) (CourseStatus, error) {
	candidate := CourseStatus(strings.ToUpper(raw))
	for _, status := range CourseStatuses {
		if status == candidate {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid course status %q", raw)
}

func (s CourseStatus) String() string { return string(s) }

// UnmarshalText rejects unknown statuses during binding.
func (s *CourseStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseCourseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Course is a unit of teaching content owned by an instructor.
type Course struct {
	ID             int64        `db:"id" json:"id"`
	Title          string       `db:"title" json:"title"`
	Description    *string      `db:"description" json:"description,omitempty"`
	InstructorID   int64        `db:"instructor_id" json:"instructorId"`
	InstructorName string       `db:"instructor_name" json:"instructorName,omitempty"`
	CategoryID     int64        `db:"category_id" json:"categoryId"`
	Price          float64      `db:"price" json:"price"`
	Thumbnail      *string      `db:"thumbnail" json:"thumbnail,omitempty"`
	Status         CourseStatus `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updatedAt"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	InstructorID *int64
	CategoryID   *int64
	Status       *CourseStatus
}
