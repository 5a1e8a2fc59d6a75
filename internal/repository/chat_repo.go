package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
)

// ChatRepository persists course chat messages.
type ChatRepository interface {
	Save(ctx context.Context, message *models.ChatMessage) error
	ListByCourse(ctx context.Context, courseID uint, limit int) ([]models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository constructs a chat repository backed by GORM.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Save(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) ListByCourse(ctx context.Context, courseID uint, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var messages []models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}

	// Reverse to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
