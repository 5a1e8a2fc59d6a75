package dto

import "time"

// AwardResult is the outcome of a points award: the new total and any badges granted by it.
type AwardResult struct {
	Total   int64    `json:"total"`
	Granted []string `json:"granted"`
}

// Achieved reports whether the award granted at least one badge.
func (r AwardResult) Achieved() bool {
	return len(r.Granted) > 0
}

// Progress is the completion ratio of a student in one course.
type Progress struct {
	CourseID  uint  `json:"course_id"`
	Completed int64 `json:"completed"`
	Total     int64 `json:"total"`
	Percent   int   `json:"percent"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	Student string `json:"student"`
	Points  int64  `json:"points"`
	Badges  int64  `json:"badges"`
}

// BadgeResponse is a granted badge.
type BadgeResponse struct {
	Name        string `json:"name"`
	AwardedDate string `json:"awarded_date"`
}

// PointsEntryResponse is one ledger line.
type PointsEntryResponse struct {
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
