package models

import "time"

// Course is owned by a single teacher.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Teacher     string    `gorm:"size:64;not null;index" json:"teacher"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_course_student" json:"course_id"`
	Student   string    `gorm:"size:64;not null;uniqueIndex:idx_enrollment_course_student;index:idx_enrollments_student" json:"student"`
	CreatedAt time.Time `json:"created_at"`
}
