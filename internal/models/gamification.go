package models

import "time"

const (
	// BadgeStarStudent is granted once a student's point total reaches the star threshold.
	BadgeStarStudent = "Star Student"
	// BadgeQuizMaster is granted after enough quiz attempts.
	BadgeQuizMaster = "Quiz Master"
	// BadgeEarlyBird is granted after enough submissions made well ahead of their due date.
	BadgeEarlyBird = "Early Bird"
)

// PointsEntry is one row of the append-only points ledger.
type PointsEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Student   string    `gorm:"size:64;not null;index:idx_points_student" json:"student"`
	Points    int       `gorm:"not null" json:"points"`
	Reason    string    `gorm:"size:255" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Badge is written at most once per (student, name).
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Student     string    `gorm:"size:64;not null;uniqueIndex:idx_badge_student_name" json:"student"`
	Name        string    `gorm:"size:64;not null;uniqueIndex:idx_badge_student_name" json:"name"`
	AwardedDate string    `gorm:"size:10;not null" json:"awarded_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName pins the table name used by hand-written joins.
func (PointsEntry) TableName() string { return "points_entries" }
