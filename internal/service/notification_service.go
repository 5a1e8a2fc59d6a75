package service

import (
	"context"
	"errors"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/observability"
	"github.com/noah-isme/school-lms/internal/repository"
)

const notificationBufferSize = 16

// NotificationPublisher writes notifications on behalf of other services.
type NotificationPublisher interface {
	Publish(ctx context.Context, username, message string) (dto.NotificationResponse, error)
	PublishOnce(ctx context.Context, username, message string) (bool, error)
}

// NotificationService stores notifications and fans them out to in-process subscribers.
type NotificationService interface {
	NotificationPublisher
	List(ctx context.Context, username string) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, username string) (int64, error)
	MarkRead(ctx context.Context, id uint, username string) (dto.NotificationResponse, error)
	Subscribe(username string) (<-chan dto.NotificationResponse, func())
}

type notificationService struct {
	repo      repository.NotificationRepository
	logger    zerolog.Logger
	tracer    trace.Tracer
	sanitizer *bluemonday.Policy
	broker    *notificationBroker
}

type notificationBroker struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan dto.NotificationResponse]struct{}
}

// NewNotificationService constructs a notification service.
func NewNotificationService(repo repository.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		logger:    logger.With().Str("component", "notification_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/school-lms/internal/service/notification"),
		sanitizer: bluemonday.StrictPolicy(),
		broker: &notificationBroker{
			subscribers: make(map[string]map[chan dto.NotificationResponse]struct{}),
		},
	}
}

func (s *notificationService) Publish(ctx context.Context, username, message string) (dto.NotificationResponse, error) {
	cleanMessage := s.clean(message)
	if cleanMessage == "" {
		return dto.NotificationResponse{}, ErrEmptyMessage
	}
	return s.store(ctx, username, cleanMessage)
}

func (s *notificationService) store(ctx context.Context, username, cleanMessage string) (dto.NotificationResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return dto.NotificationResponse{}, errors.New("notification recipient is required")
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.publish", trace.WithAttributes(
		attribute.String("notification.username", username),
	))
	defer span.End()

	model := models.Notification{Username: username, Message: cleanMessage}
	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	response := dto.NewNotificationResponse(model)
	s.broker.broadcast(username, response)
	observability.NotificationsPublished().Inc()

	return response, nil
}

// PublishOnce writes the notification unless the user already has one with the exact same message.
func (s *notificationService) PublishOnce(ctx context.Context, username, message string) (bool, error) {
	cleanMessage := s.clean(message)
	if cleanMessage == "" {
		return false, ErrEmptyMessage
	}

	exists, err := s.repo.ExistsWithMessage(ctx, username, cleanMessage)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := s.store(ctx, username, cleanMessage); err != nil {
		return false, err
	}
	return true, nil
}

func (s *notificationService) List(ctx context.Context, username string) ([]dto.NotificationResponse, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("username is required")
	}

	notifications, err := s.repo.ListByUser(ctx, username)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, dto.NewNotificationResponse(notification))
	}
	return responses, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, username string) (int64, error) {
	return s.repo.CountUnread(ctx, username)
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, username string) (dto.NotificationResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read", trace.WithAttributes(
		attribute.String("notification.username", username),
	))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, username)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

// Subscribe streams notifications published for username until the returned cleanup runs.
// Slow subscribers miss notifications rather than block publishers.
func (s *notificationService) Subscribe(username string) (<-chan dto.NotificationResponse, func()) {
	channel := make(chan dto.NotificationResponse, notificationBufferSize)
	s.broker.subscribe(username, channel)

	var once sync.Once
	cleanup := func() {
		once.Do(func() { s.broker.unsubscribe(username, channel) })
	}
	return channel, cleanup
}

func (s *notificationService) clean(message string) string {
	return sanitizeText(s.sanitizer, message)
}

// sanitizeText strips markup and returns plain text with entities decoded.
func sanitizeText(policy *bluemonday.Policy, value string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(value)))
}

func (b *notificationBroker) subscribe(username string, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[username]; !exists {
		b.subscribers[username] = make(map[chan dto.NotificationResponse]struct{})
	}
	b.subscribers[username][ch] = struct{}{}
}

func (b *notificationBroker) unsubscribe(username string, ch chan dto.NotificationResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[username]; ok {
		delete(subscribers, ch)
		close(ch)
		if len(subscribers) == 0 {
			delete(b.subscribers, username)
		}
	}
}

func (b *notificationBroker) broadcast(username string, notification dto.NotificationResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[username] {
		select {
		case ch <- notification:
		default:
		}
	}
}
