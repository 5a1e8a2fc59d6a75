package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
)

// MessageRepository persists direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListByReceiver(ctx context.Context, receiver string) ([]models.Message, error)
	ListConversation(ctx context.Context, a, b string) ([]models.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs a GORM-backed message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) ListByReceiver(ctx context.Context, receiver string) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).Where("receiver = ?", receiver).Order("id DESC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) ListConversation(ctx context.Context, a, b string) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Where("(sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?)", a, b, b, a).
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
