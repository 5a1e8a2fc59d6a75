package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/repository"
)

// MessageService delivers direct messages between users.
type MessageService interface {
	Send(ctx context.Context, session Session, req dto.MessageRequest) (dto.MessageResponse, error)
	Inbox(ctx context.Context, session Session) ([]dto.MessageResponse, error)
	Conversation(ctx context.Context, session Session, other string) ([]dto.MessageResponse, error)
}

type messageService struct {
	repo          repository.MessageRepository
	users         repository.UserRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
}

// NewMessageService constructs the direct message service.
func NewMessageService(repo repository.MessageRepository, users repository.UserRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) MessageService {
	return &messageService{
		repo:          repo,
		users:         users,
		notifications: notifications,
		validator:     validate,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "message_service").Logger(),
	}
}

func (s *messageService) Send(ctx context.Context, session Session, req dto.MessageRequest) (dto.MessageResponse, error) {
	if session.Username == "" {
		return dto.MessageResponse{}, ErrForbidden
	}

	req.Receiver = strings.TrimSpace(req.Receiver)
	req.Body = sanitizeText(s.sanitizer, req.Body)
	if err := s.validator.Struct(req); err != nil {
		return dto.MessageResponse{}, err
	}

	if _, err := s.users.GetByUsername(ctx, req.Receiver); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MessageResponse{}, ErrUserNotFound
		}
		return dto.MessageResponse{}, err
	}

	message := models.Message{Sender: session.Username, Receiver: req.Receiver, Body: req.Body}
	if err := s.repo.Create(ctx, &message); err != nil {
		return dto.MessageResponse{}, fmt.Errorf("save message: %w", err)
	}

	if _, err := s.notifications.Publish(ctx, req.Receiver, fmt.Sprintf("New message from %s", session.Username)); err != nil {
		s.logger.Warn().Err(err).Str("receiver", req.Receiver).Msg("failed to notify message receiver")
	}

	return dto.NewMessageResponse(message), nil
}

func (s *messageService) Inbox(ctx context.Context, session Session) ([]dto.MessageResponse, error) {
	if session.Username == "" {
		return nil, ErrForbidden
	}
	messages, err := s.repo.ListByReceiver(ctx, session.Username)
	if err != nil {
		return nil, err
	}
	return messageResponses(messages), nil
}

func (s *messageService) Conversation(ctx context.Context, session Session, other string) ([]dto.MessageResponse, error) {
	if session.Username == "" {
		return nil, ErrForbidden
	}
	messages, err := s.repo.ListConversation(ctx, session.Username, strings.TrimSpace(other))
	if err != nil {
		return nil, err
	}
	return messageResponses(messages), nil
}

func messageResponses(messages []models.Message) []dto.MessageResponse {
	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.NewMessageResponse(message))
	}
	return responses
}
