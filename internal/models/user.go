package models

import "time"

const (
	// RoleStudent can enroll, submit work and take quizzes.
	RoleStudent = "student"
	// RoleTeacher owns courses and grades submissions.
	RoleTeacher = "teacher"
	// RoleAdmin manages accounts.
	RoleAdmin = "admin"
)

// User is an account able to log in. The role is fixed at creation.
type User struct {
	Username       string    `gorm:"primaryKey;size:64" json:"username"`
	PasswordDigest string    `gorm:"size:255;not null" json:"-"`
	Role           string    `gorm:"size:16;not null;index" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsValidRole reports whether role is one of the known account roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}
