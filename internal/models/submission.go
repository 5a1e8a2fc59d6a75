package models

import "time"

// AssignmentSubmission is a file handed in by a student. DueDate and Description are copied from the
// definition when the submission is created and are not resynchronized afterwards.
type AssignmentSubmission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CourseID     uint      `gorm:"not null;index" json:"course_id"`
	DefinitionID uint      `gorm:"not null;index" json:"definition_id"`
	Student      string    `gorm:"size:64;not null;index:idx_assignments_student" json:"student"`
	FilePath     string    `gorm:"size:512;not null" json:"file_path"`
	FileType     string    `gorm:"size:128" json:"file_type"`
	Grade        *string   `gorm:"size:32" json:"grade"`
	DueDate      string    `gorm:"size:10" json:"due_date"`
	Description  string    `gorm:"type:text" json:"description"`
	Comment      *string   `gorm:"type:text" json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsGraded reports whether a teacher has assigned a grade.
func (s AssignmentSubmission) IsGraded() bool {
	return s.Grade != nil
}
