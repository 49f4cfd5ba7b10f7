package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentStatusCompleted  EnrollmentStatus = "COMPLETED"
	EnrollmentStatusDropped    EnrollmentStatus = "DROPPED"
)

// EnrollmentStatuses lists every accepted enrollment status.
var EnrollmentStatuses = []EnrollmentStatus{EnrollmentStatusInProgress, EnrollmentStatusCompleted, EnrollmentStatusDropped}

// ParseEnrollmentStatus converts raw input into an EnrollmentStatus, ignoring case.
func ParseEnrollmentStatus(raw string) (EnrollmentStatus, error) {
	candidate := EnrollmentStatus(strings.ToUpper(raw))
	for _, status := range EnrollmentStatuses {
		if status == candidate {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid enrollment status %q, valid values are %s", raw, JoinEnrollmentStatuses())
}

// JoinEnrollmentStatuses renders the accepted statuses for error messages.
func JoinEnrollmentStatuses() string {
	names := make([]string, len(EnrollmentStatuses))
	for i, status := range EnrollmentStatuses {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}

func (s EnrollmentStatus) String() string { return string(s) }

// UnmarshalText rejects unknown statuses during binding.
func (s *EnrollmentStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseEnrollmentStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Enrollment links one user to one course.
type Enrollment struct {
	ID             int64            `db:"id" json:"id"`
	UserID         int64            `db:"user_id" json:"userId"`
	CourseID       int64            `db:"course_id" json:"courseId"`
	EnrollmentDate time.Time        `db:"enrollment_date" json:"enrollmentDate"`
	CompletionDate *time.Time       `db:"completion_date" json:"completionDate,omitempty"`
	Status         EnrollmentStatus `db:"status" json:"status"`
}

// EnrollmentDetail enriches Enrollment with user and course info.
type EnrollmentDetail struct {
	Enrollment
	UserName    string  `db:"user_name" json:"userName"`
	CourseTitle string  `db:"course_title" json:"courseTitle"`
	CoursePrice float64 `db:"course_price" json:"coursePrice"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	UserID   *int64
	CourseID *int64
	Status   *EnrollmentStatus
}

// FlexibleID accepts identifiers sent either as JSON numbers or numeric strings.
type FlexibleID int64

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		data = []byte(raw)
	}
	value, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid identifier %s", string(data))
	}
	*id = FlexibleID(value)
	return nil
}

// Int64 returns the identifier as int64.
func (id FlexibleID) Int64() int64 { return int64(id) }
