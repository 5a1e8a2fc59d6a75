package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/repository"
)

// QuizService manages single-question quizzes and student attempts.
type QuizService interface {
	CreateQuiz(ctx context.Context, session Session, req dto.QuizCreateRequest) (dto.QuizResponse, error)
	ListPending(ctx context.Context, session Session, courseID *uint) ([]dto.QuizResponse, error)
	Attempt(ctx context.Context, session Session, quizID uint, chosen int) (dto.QuizAttemptResult, error)
}

type quizService struct {
	repo          repository.QuizRepository
	courses       repository.CourseRepository
	notifications NotificationPublisher
	points        PointsAwarder
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewQuizService constructs the quiz service.
func NewQuizService(repo repository.QuizRepository, courses repository.CourseRepository, notifications NotificationPublisher, points PointsAwarder, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		repo:          repo,
		courses:       courses,
		notifications: notifications,
		points:        points,
		validator:     validate,
		logger:        logger.With().Str("component", "quiz_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/school-lms/internal/service/quiz"),
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, session Session, req dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return dto.QuizResponse{}, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.DueDate = strings.TrimSpace(req.DueDate)
	req.Question = strings.TrimSpace(req.Question)
	for i := range req.Options {
		req.Options[i] = strings.TrimSpace(req.Options[i])
	}
	if err := validateDefinition(s.validator, req, req.DueDate); err != nil {
		return dto.QuizResponse{}, err
	}

	if _, err := ownedCourse(ctx, s.courses, session, req.CourseID); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz := models.Quiz{
		CourseID:      req.CourseID,
		Title:         req.Title,
		DueDate:       req.DueDate,
		Question:      req.Question,
		Options:       datatypes.NewJSONSlice(req.Options),
		CorrectOption: req.CorrectOption,
	}
	if err := s.repo.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, fmt.Errorf("create quiz: %w", err)
	}

	message := fmt.Sprintf("New quiz '%s' due %s in course ID %d", quiz.Title, quiz.DueDate, quiz.CourseID)
	if err := notifyEnrolled(ctx, s.courses, s.notifications, s.logger, quiz.CourseID, message); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Uint("course_id", quiz.CourseID).Msg("quiz created")
	return dto.NewQuizResponse(quiz), nil
}

// ListPending returns quizzes in the student's enrolled courses that have not been attempted,
// optionally narrowed to one course.
func (s *quizService) ListPending(ctx context.Context, session Session, courseID *uint) ([]dto.QuizResponse, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	if courseID != nil {
		if _, err := enrolledCourse(ctx, s.courses, session, *courseID); err != nil {
			return nil, err
		}
	}

	quizzes, err := s.repo.ListUnattempted(ctx, session.Username, courseID)
	if err != nil {
		return nil, err
	}
	return dto.NewQuizResponseSlice(quizzes), nil
}

func (s *quizService) Attempt(ctx context.Context, session Session, quizID uint, chosen int) (dto.QuizAttemptResult, error) {
	ctx, span := s.tracer.Start(ctx, "quiz.attempt", trace.WithAttributes(
		attribute.String("quiz.student", session.Username),
		attribute.Int64("quiz.id", int64(quizID)),
	))
	defer span.End()

	if err := requireRole(session, models.RoleStudent); err != nil {
		return dto.QuizAttemptResult{}, err
	}
	if chosen < 0 || chosen >= models.QuizOptionCount {
		return dto.QuizAttemptResult{}, ErrInvalidQuizOption
	}

	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizAttemptResult{}, ErrQuizNotFound
		}
		return dto.QuizAttemptResult{}, err
	}
	if _, err := enrolledCourse(ctx, s.courses, session, quiz.CourseID); err != nil {
		return dto.QuizAttemptResult{}, err
	}

	attempted, err := s.repo.HasSubmission(ctx, quizID, session.Username)
	if err != nil {
		return dto.QuizAttemptResult{}, err
	}
	if attempted {
		return dto.QuizAttemptResult{}, ErrQuizAlreadyAttempted
	}

	score := 0
	if chosen == quiz.CorrectOption {
		score = 1
	}

	submission := models.QuizSubmission{QuizID: quizID, Student: session.Username, ChosenOption: chosen, Score: score}
	if err := s.repo.CreateSubmission(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.QuizAttemptResult{}, ErrQuizAlreadyAttempted
		}
		span.RecordError(err)
		return dto.QuizAttemptResult{}, fmt.Errorf("save quiz attempt: %w", err)
	}

	message := fmt.Sprintf("Quiz '%s' completed. Score: %d/1", quiz.Title, score)
	if _, err := s.notifications.Publish(ctx, session.Username, message); err != nil {
		return dto.QuizAttemptResult{}, err
	}

	points := PointsQuizIncorrect
	if score == 1 {
		points = PointsQuizCorrect
	}
	award, err := s.points.AwardPoints(ctx, session.Username, points, ReasonQuizCompletion)
	if err != nil {
		return dto.QuizAttemptResult{}, err
	}

	span.SetAttributes(attribute.Int("quiz.score", score))
	return dto.QuizAttemptResult{QuizID: quizID, Score: score, Award: award}, nil
}
