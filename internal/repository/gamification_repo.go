package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
)

// LeaderboardRow is one student's standing.
type LeaderboardRow struct {
	Student string
	Points  int64
	Badges  int64
}

// GamificationRepository persists the points ledger and badges.
type GamificationRepository interface {
	AddPoints(ctx context.Context, entry *models.PointsEntry) error
	TotalPoints(ctx context.Context, student string) (int64, error)
	ListPoints(ctx context.Context, student string) ([]models.PointsEntry, error)
	HasBadge(ctx context.Context, student, name string) (bool, error)
	CreateBadge(ctx context.Context, badge *models.Badge) error
	ListBadges(ctx context.Context, student string) ([]models.Badge, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
}

type gamificationRepository struct {
	db *gorm.DB
}

// NewGamificationRepository constructs a GORM-backed points and badge repository.
func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db}
}

func (r *gamificationRepository) AddPoints(ctx context.Context, entry *models.PointsEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gamificationRepository) TotalPoints(ctx context.Context, student string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PointsEntry{}).
		Select("COALESCE(SUM(points), 0)").
		Where("student = ?", student).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *gamificationRepository) ListPoints(ctx context.Context, student string) ([]models.PointsEntry, error) {
	var entries []models.PointsEntry
	if err := r.db.WithContext(ctx).Where("student = ?", student).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gamificationRepository) HasBadge(ctx context.Context, student, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Badge{}).
		Where("student = ? AND name = ?", student, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gamificationRepository) CreateBadge(ctx context.Context, badge *models.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}

func (r *gamificationRepository) ListBadges(ctx context.Context, student string) ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.WithContext(ctx).Where("student = ?", student).Order("id ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

// maxLeaderboardLimit caps the number of leaderboard rows returned.
const maxLeaderboardLimit = 100

func (r *gamificationRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	var rows []LeaderboardRow
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.username AS student, COALESCE(SUM(points_entries.points), 0) AS points, "+
			"(SELECT COUNT(*) FROM badges WHERE badges.student = users.username) AS badges").
		Joins("LEFT JOIN points_entries ON points_entries.student = users.username").
		Where("users.role = ?", models.RoleStudent).
		Group("users.username").
		Order("points DESC, users.username ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
