package models

import (
	"fmt"
	"time"
)

// DateLayout is the storage and input format of every due date.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight timestamp.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return parsed, nil
}

// DateOf truncates a timestamp to its calendar day, expressed as UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders the calendar day of t in DateLayout.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// AssignmentDefinition is the teacher-authored template students submit against.
type AssignmentDefinition struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;uniqueIndex:idx_definition_course_title" json:"course_id"`
	Title       string    `gorm:"size:255;not null;uniqueIndex:idx_definition_course_title" json:"title"`
	DueDate     string    `gorm:"size:10;not null" json:"due_date"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Label renders the title the way selection lists show it.
func (a AssignmentDefinition) Label() string {
	return fmt.Sprintf("%s (Due: %s)", a.Title, a.DueDate)
}
