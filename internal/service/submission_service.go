package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/repository"
	"github.com/noah-isme/school-lms/internal/storage"
)

// SubmissionStorage abstracts where submitted files live.
type SubmissionStorage interface {
	Save(ctx context.Context, student string, courseID, definitionID uint, sourcePath string) (storage.StoredFile, error)
	CopyTo(storedPath, destPath string) (string, error)
	Preview(storedPath string) (storage.Preview, error)
	Remove(storedPath string) error
}

// SubmissionService handles hand-ins, grading and file access.
type SubmissionService interface {
	Submit(ctx context.Context, session Session, req dto.SubmissionCreateRequest) (dto.SubmitResult, error)
	Grade(ctx context.Context, session Session, submissionID uint, req dto.GradeRequest) (dto.SubmissionResponse, error)
	Comment(ctx context.Context, session Session, submissionID uint, req dto.CommentRequest) (dto.SubmissionResponse, error)
	ListForTeacher(ctx context.Context, session Session) ([]dto.SubmissionResponse, error)
	ListForStudent(ctx context.Context, session Session) ([]dto.SubmissionResponse, error)
	Download(ctx context.Context, session Session, submissionID uint, destPath string) (string, error)
	Preview(ctx context.Context, session Session, submissionID uint) (dto.PreviewResponse, error)
}

type submissionService struct {
	repo          repository.SubmissionRepository
	assignments   repository.AssignmentRepository
	courses       repository.CourseRepository
	files         SubmissionStorage
	notifications NotificationPublisher
	points        PointsAwarder
	activity      ActivityRecorder
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(
	repo repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	courses repository.CourseRepository,
	files SubmissionStorage,
	notifications NotificationPublisher,
	points PointsAwarder,
	activity ActivityRecorder,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		repo:          repo,
		assignments:   assignments,
		courses:       courses,
		files:         files,
		notifications: notifications,
		points:        points,
		activity:      activity,
		validator:     validate,
		logger:        logger.With().Str("component", "submission_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/school-lms/internal/service/submission"),
	}
}

func (s *submissionService) Submit(ctx context.Context, session Session, req dto.SubmissionCreateRequest) (dto.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "submission.create", trace.WithAttributes(
		attribute.String("submission.student", session.Username),
		attribute.Int64("submission.course_id", int64(req.CourseID)),
		attribute.Int64("submission.definition_id", int64(req.DefinitionID)),
	))
	defer span.End()

	if err := requireRole(session, models.RoleStudent); err != nil {
		return dto.SubmitResult{}, err
	}

	req.SourcePath = strings.TrimSpace(req.SourcePath)
	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.SubmitResult{}, err
	}

	if _, err := enrolledCourse(ctx, s.courses, session, req.CourseID); err != nil {
		return dto.SubmitResult{}, err
	}

	definition, err := s.assignments.GetByID(ctx, req.DefinitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitResult{}, ErrAssignmentNotFound
		}
		return dto.SubmitResult{}, err
	}
	if definition.CourseID != req.CourseID {
		return dto.SubmitResult{}, ErrAssignmentNotFound
	}

	stored, err := s.files.Save(ctx, session.Username, req.CourseID, definition.ID, req.SourcePath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.SubmitResult{}, fmt.Errorf("store submission: %w", err)
	}
	span.SetAttributes(attribute.String("submission.mime", stored.MimeType))

	submission := models.AssignmentSubmission{
		CourseID:     req.CourseID,
		DefinitionID: definition.ID,
		Student:      session.Username,
		FilePath:     stored.Path,
		FileType:     stored.MimeType,
		DueDate:      definition.DueDate,
		Description:  definition.Description,
	}
	if err := s.repo.Create(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		// A replaced file still backs the earlier submission row.
		if !stored.Replaced {
			if removeErr := s.files.Remove(stored.Path); removeErr != nil {
				s.logger.Warn().Err(removeErr).Str("path", stored.Path).Msg("failed to remove orphaned submission file")
			}
		}
		return dto.SubmitResult{}, fmt.Errorf("save submission: %w", err)
	}

	message := fmt.Sprintf("Submitted %s (Due: %s) for course ID %d", definition.Title, definition.DueDate, req.CourseID)
	if _, err := s.notifications.Publish(ctx, session.Username, message); err != nil {
		return dto.SubmitResult{}, err
	}

	award, err := s.points.AwardPoints(ctx, session.Username, PointsSubmission, ReasonAssignmentSubmission)
	if err != nil {
		return dto.SubmitResult{}, err
	}

	span.SetStatus(codes.Ok, "submitted")
	s.logger.Info().Uint("submission_id", submission.ID).Str("student", session.Username).Msg("assignment submitted")
	return dto.SubmitResult{Submission: dto.NewSubmissionResponse(submission), Award: award}, nil
}

func (s *submissionService) Grade(ctx context.Context, session Session, submissionID uint, req dto.GradeRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.grade", trace.WithAttributes(
		attribute.Int64("submission.id", int64(submissionID)),
	))
	defer span.End()

	req.Grade = strings.TrimSpace(req.Grade)
	if err := s.validator.Struct(req); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.teacherSubmission(ctx, session, submissionID)
	if err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	submission.Grade = &req.Grade
	if err := s.repo.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, fmt.Errorf("save grade: %w", err)
	}

	message := fmt.Sprintf("Your assignment '%s' has been graded: %s", submission.Description, req.Grade)
	if _, err := s.notifications.Publish(ctx, submission.Student, message); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.activity.Record(ctx, ActivityEntry{
		Actor:      session.Username,
		ActorRole:  session.Role,
		Action:     "submission.graded",
		EntityType: "submission",
		EntityID:   strconv.FormatUint(uint64(submission.ID), 10),
		Metadata:   map[string]interface{}{"grade": req.Grade, "student": submission.Student},
	}); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to record grading activity")
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Comment(ctx context.Context, session Session, submissionID uint, req dto.CommentRequest) (dto.SubmissionResponse, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validator.Struct(req); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.teacherSubmission(ctx, session, submissionID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission.Comment = &req.Text
	if err := s.repo.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("save comment: %w", err)
	}

	message := fmt.Sprintf("New comment on '%s': %s", submission.Description, req.Text)
	if _, err := s.notifications.Publish(ctx, submission.Student, message); err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListForTeacher(ctx context.Context, session Session) ([]dto.SubmissionResponse, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return nil, err
	}
	submissions, err := s.repo.ListByTeacher(ctx, session.Username)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListForStudent(ctx context.Context, session Session) ([]dto.SubmissionResponse, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	submissions, err := s.repo.ListByStudent(ctx, session.Username)
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Download copies the stored file to destPath for the course teacher or the submitting student.
func (s *submissionService) Download(ctx context.Context, session Session, submissionID uint, destPath string) (string, error) {
	submission, err := s.readableSubmission(ctx, session, submissionID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(destPath) == "" {
		return "", errors.New("destination path is required")
	}
	return s.files.CopyTo(submission.FilePath, destPath)
}

func (s *submissionService) Preview(ctx context.Context, session Session, submissionID uint) (dto.PreviewResponse, error) {
	submission, err := s.readableSubmission(ctx, session, submissionID)
	if err != nil {
		return dto.PreviewResponse{}, err
	}

	preview, err := s.files.Preview(submission.FilePath)
	if err != nil {
		return dto.PreviewResponse{}, err
	}

	return dto.PreviewResponse{
		SubmissionID: submission.ID,
		Kind:         dto.PreviewKind(preview.Kind),
		MimeType:     preview.MimeType,
		Content:      preview.Content,
	}, nil
}

func (s *submissionService) findSubmission(ctx context.Context, submissionID uint) (models.AssignmentSubmission, error) {
	submission, err := s.repo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AssignmentSubmission{}, ErrSubmissionNotFound
		}
		return models.AssignmentSubmission{}, err
	}
	return submission, nil
}

// teacherSubmission loads a submission of a course taught by the session teacher.
func (s *submissionService) teacherSubmission(ctx context.Context, session Session, submissionID uint) (models.AssignmentSubmission, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return models.AssignmentSubmission{}, err
	}
	submission, err := s.findSubmission(ctx, submissionID)
	if err != nil {
		return models.AssignmentSubmission{}, err
	}
	if _, err := ownedCourse(ctx, s.courses, session, submission.CourseID); err != nil {
		return models.AssignmentSubmission{}, err
	}
	return submission, nil
}

func (s *submissionService) readableSubmission(ctx context.Context, session Session, submissionID uint) (models.AssignmentSubmission, error) {
	if session.IsStudent() {
		submission, err := s.findSubmission(ctx, submissionID)
		if err != nil {
			return models.AssignmentSubmission{}, err
		}
		if submission.Student != session.Username {
			return models.AssignmentSubmission{}, ErrSubmissionNotFound
		}
		return submission, nil
	}
	return s.teacherSubmission(ctx, session, submissionID)
}
