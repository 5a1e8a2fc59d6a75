package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizOptionCount is the number of answer options every quiz carries.
const QuizOptionCount = 4

// Quiz is a single multiple-choice question attached to a course.
type Quiz struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	CourseID      uint                        `gorm:"not null;index" json:"course_id"`
	Title         string                      `gorm:"size:255;not null" json:"title"`
	DueDate       string                      `gorm:"size:10;not null" json:"due_date"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectOption int                         `gorm:"not null" json:"-"`
	CreatedAt     time.Time                   `json:"created_at"`
}

// QuizSubmission is written once per (quiz, student) pair.
type QuizSubmission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuizID       uint      `gorm:"not null;uniqueIndex:idx_quiz_submission_student" json:"quiz_id"`
	Student      string    `gorm:"size:64;not null;uniqueIndex:idx_quiz_submission_student;index:idx_quiz_submissions_student" json:"student"`
	ChosenOption int       `gorm:"not null" json:"chosen_option"`
	Score        int       `gorm:"not null" json:"score"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName pins the table name used by hand-written joins.
func (Quiz) TableName() string { return "quizzes" }
