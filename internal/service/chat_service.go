package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/repository"
)

// ErrChatNotAuthorised indicates the sender is neither enrolled in nor teaching the course.
var ErrChatNotAuthorised = errors.New("sender not authorised for course chat")

// ChatService stores and lists course chat messages.
type ChatService interface {
	Post(ctx context.Context, session Session, req dto.ChatPostRequest) (dto.MessageResponse, error)
	History(ctx context.Context, session Session, courseID uint, limit int) ([]dto.MessageResponse, error)
}

type chatService struct {
	repo      repository.ChatRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewChatService constructs the course chat service.
func NewChatService(repo repository.ChatRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) ChatService {
	return &chatService{
		repo:      repo,
		courses:   courses,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "chat_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/school-lms/internal/service/chat"),
	}
}

func (s *chatService) Post(ctx context.Context, session Session, req dto.ChatPostRequest) (dto.MessageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "chat.post", trace.WithAttributes(
		attribute.String("chat.sender", session.Username),
		attribute.Int64("chat.course_id", int64(req.CourseID)),
	))
	defer span.End()

	req.Body = sanitizeText(s.sanitizer, req.Body)
	if err := s.validator.Struct(req); err != nil {
		return dto.MessageResponse{}, err
	}
	if err := s.authorise(ctx, session, req.CourseID); err != nil {
		span.RecordError(err)
		return dto.MessageResponse{}, err
	}

	message := models.ChatMessage{CourseID: req.CourseID, Sender: session.Username, Body: req.Body}
	if err := s.repo.Save(ctx, &message); err != nil {
		span.RecordError(err)
		return dto.MessageResponse{}, fmt.Errorf("save chat message: %w", err)
	}

	return dto.NewChatMessageResponse(message), nil
}

// History returns the latest messages of a course in chronological order.
func (s *chatService) History(ctx context.Context, session Session, courseID uint, limit int) ([]dto.MessageResponse, error) {
	if err := s.authorise(ctx, session, courseID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListByCourse(ctx, courseID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.NewChatMessageResponse(message))
	}
	return responses, nil
}

func (s *chatService) authorise(ctx context.Context, session Session, courseID uint) error {
	err := canViewCourse(ctx, s.courses, session, courseID)
	if errors.Is(err, ErrNotCourseOwner) || errors.Is(err, ErrNotEnrolled) || errors.Is(err, ErrForbidden) {
		return ErrChatNotAuthorised
	}
	return err
}
