package dto

import "time"

// RecentEnrollment is a row of the enrollment statistics report.
type RecentEnrollment struct {
	EnrollmentID   int64     `json:"enrollmentId" db:"enrollment_id"`
	UserID         int64     `json:"userId" db:"user_id"`
	UserName       string    `json:"userName" db:"user_name"`
	CourseName     string    `json:"courseName" db:"course_name"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"`
	Status         string    `json:"status" db:"status"`
}

// EnrollmentStats summarises enrollments.
type EnrollmentStats struct {
	TotalEnrollments   int                `json:"totalEnrollments"`
	EnrollmentByStatus map[string]int     `json:"enrollmentByStatus"`
	MonthlyEnrollments [12]int            `json:"monthlyEnrollments"`
	RecentEnrollments  []RecentEnrollment `json:"recentEnrollments"`
}

// RecentUser is a row of the user statistics report.
type RecentUser struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	Role             string    `json:"role" db:"role"`
	Status           string    `json:"status" db:"status"`
	RegistrationDate time.Time `json:"registrationDate" db:"join_date"`
}

// UserStats summarises the user base.
type UserStats struct {
	TotalUsers  int            `json:"totalUsers"`
	ActiveUsers int            `json:"activeUsers"`
	UsersByRole map[string]int `json:"usersByRole"`
	UserGrowth  [12]int        `json:"userGrowth"`
	RecentUsers []RecentUser   `json:"recentUsers"`
}

// PopularCourse ranks a course by enrollment count.
type PopularCourse struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Enrollments int    `json:"enrollments" db:"enrollments"`
}

// RecentCourse is a row of the course statistics report.
type RecentCourse struct {
	ID             int64     `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	InstructorName string    `json:"instructorName" db:"instructor_name"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// CourseStats summarises the course catalogue.
type CourseStats struct {
	TotalCourses      int             `json:"totalCourses"`
	ActiveCourses     int             `json:"activeCourses"`
	CoursesByCategory map[string]int  `json:"coursesByCategory"`
	PopularCourses    []PopularCourse `json:"popularCourses"`
	RecentCourses     []RecentCourse  `json:"recentCourses"`
}

// RevenueStats summarises revenue derived from enrolled course prices.
type RevenueStats struct {
	TotalRevenue      float64            `json:"totalRevenue"`
	MonthlyRevenue    [12]float64        `json:"monthlyRevenue"`
	RevenueByCategory map[string]float64 `json:"revenueByCategory"`
}

// MonthlyCount is an aggregate row keyed by calendar month (1-12).
type MonthlyCount struct {
	Month int `db:"month"`
	Count int `db:"count"`
}

// MonthlyAmount is an aggregate row keyed by calendar month (1-12).
type MonthlyAmount struct {
	Month  int     `db:"month"`
	Amount float64 `db:"amount"`
}

// LabelCount is an aggregate row keyed by label.
type LabelCount struct {
	Label string `db:"label"`
	Count int    `db:"count"`
}

// LabelAmount is an aggregate row keyed by label.
type LabelAmount struct {
	Label  string  `db:"label"`
	Amount float64 `db:"amount"`
}
