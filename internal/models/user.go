package models

import (
	"fmt"
	"strings"
	"time"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent    UserRole = "STUDENT"
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleAdmin      UserRole = "ADMIN"
)

// UserRoles lists every accepted role.
var UserRoles = []UserRole{RoleStudent, RoleInstructor, RoleAdmin}

// ParseUserRole converts raw input into a UserRole, ignoring case.
func ParseUserRole(raw string) (UserRole, error) {
	candidate := UserRole(strings.ToUpper(raw))
	for _, role := range UserRoles {
		if role == candidate {
			return role, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", raw)
}

func (r UserRole) String() string { return string(r) }

// UnmarshalText rejects unknown roles during binding.
func (r *UserRole) UnmarshalText(text []byte) error {
	parsed, err := ParseUserRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Authority returns the granted authority name for the role.
func (r UserRole) Authority() string {
	return "ROLE_" + string(r)
}

// UserStatus represents whether an account may sign in.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusBlocked  UserStatus = "BLOCKED"
)

// UserStatuses lists every accepted account status.
var UserStatuses = []UserStatus{UserStatusActive, UserStatusInactive, UserStatusBlocked}

// ParseUserStatus converts raw input into a UserStatus, ignoring case.
func ParseUserStatus(raw string) (UserStatus, error) {
	candidate := UserStatus(strings.ToUpper(raw))
	for _, status := range UserStatuses {
		if status == candidate {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid user status %q", raw)
}

func (s UserStatus) String() string { return string(s) }

// UnmarshalText rejects unknown statuses during binding.
func (s *UserStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseUserStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// User represents an application user stored in the users table.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	Status       UserStatus `db:"status" json:"status"`
	ProfileImage *string    `db:"profile_image" json:"profileImage,omitempty"`
	JoinDate     time.Time  `db:"join_date" json:"joinDate"`
	LastActive   *time.Time `db:"last_active" json:"lastActive,omitempty"`
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool {
	return u != nil && u.Status == UserStatusActive
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Status    *UserStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
