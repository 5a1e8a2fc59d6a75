package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/repository"
)

// AssignmentService manages assignment definitions.
type AssignmentService interface {
	CreateDefinition(ctx context.Context, session Session, req dto.AssignmentDefinitionRequest) (dto.AssignmentDefinitionResponse, error)
	UpdateDefinition(ctx context.Context, session Session, id uint, req dto.AssignmentDefinitionUpdateRequest) (dto.AssignmentDefinitionResponse, error)
	ListByCourse(ctx context.Context, session Session, courseID uint) ([]dto.AssignmentDefinitionResponse, error)
}

type assignmentService struct {
	repo          repository.AssignmentRepository
	courses       repository.CourseRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(repo repository.AssignmentRepository, courses repository.CourseRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		repo:          repo,
		courses:       courses,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) CreateDefinition(ctx context.Context, session Session, req dto.AssignmentDefinitionRequest) (dto.AssignmentDefinitionResponse, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.DueDate = strings.TrimSpace(req.DueDate)
	req.Description = strings.TrimSpace(req.Description)
	if err := validateDefinition(s.validator, req, req.DueDate); err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}

	if _, err := ownedCourse(ctx, s.courses, session, req.CourseID); err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}

	exists, err := s.repo.TitleExists(ctx, req.CourseID, req.Title, 0)
	if err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}
	if exists {
		return dto.AssignmentDefinitionResponse{}, ErrDuplicateAssignmentTitle
	}

	definition := models.AssignmentDefinition{
		CourseID:    req.CourseID,
		Title:       req.Title,
		DueDate:     req.DueDate,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, &definition); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AssignmentDefinitionResponse{}, ErrDuplicateAssignmentTitle
		}
		return dto.AssignmentDefinitionResponse{}, fmt.Errorf("create assignment: %w", err)
	}

	message := fmt.Sprintf("New assignment '%s' due %s in course ID %d", definition.Title, definition.DueDate, definition.CourseID)
	if err := notifyEnrolled(ctx, s.courses, s.notifications, s.logger, definition.CourseID, message); err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", definition.ID).Uint("course_id", definition.CourseID).Msg("assignment created")
	return dto.NewAssignmentDefinitionResponse(definition), nil
}

// UpdateDefinition rewrites a definition. Submissions keep the due date and description they were created with.
func (s *assignmentService) UpdateDefinition(ctx context.Context, session Session, id uint, req dto.AssignmentDefinitionUpdateRequest) (dto.AssignmentDefinitionResponse, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.DueDate = strings.TrimSpace(req.DueDate)
	req.Description = strings.TrimSpace(req.Description)
	if err := validateDefinition(s.validator, req, req.DueDate); err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}

	definition, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentDefinitionResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentDefinitionResponse{}, err
	}
	if _, err := ownedCourse(ctx, s.courses, session, definition.CourseID); err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}

	exists, err := s.repo.TitleExists(ctx, definition.CourseID, req.Title, definition.ID)
	if err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}
	if exists {
		return dto.AssignmentDefinitionResponse{}, ErrDuplicateAssignmentTitle
	}

	definition.Title = req.Title
	definition.DueDate = req.DueDate
	definition.Description = req.Description
	if err := s.repo.Update(ctx, &definition); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AssignmentDefinitionResponse{}, ErrDuplicateAssignmentTitle
		}
		return dto.AssignmentDefinitionResponse{}, fmt.Errorf("update assignment: %w", err)
	}

	message := fmt.Sprintf("Assignment '%s' updated: due %s in course ID %d", definition.Title, definition.DueDate, definition.CourseID)
	if err := notifyEnrolled(ctx, s.courses, s.notifications, s.logger, definition.CourseID, message); err != nil {
		return dto.AssignmentDefinitionResponse{}, err
	}

	return dto.NewAssignmentDefinitionResponse(definition), nil
}

// ListByCourse is open to the course teacher and its enrolled students.
func (s *assignmentService) ListByCourse(ctx context.Context, session Session, courseID uint) ([]dto.AssignmentDefinitionResponse, error) {
	if err := canViewCourse(ctx, s.courses, session, courseID); err != nil {
		return nil, err
	}

	definitions, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return dto.NewAssignmentDefinitionResponseSlice(definitions), nil
}

// validateDefinition runs the struct tags and reports calendar errors on the due date as ErrInvalidDueDate.
func validateDefinition(validate *validator.Validate, req interface{}, dueDate string) error {
	if err := validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fieldErr := range validationErrs {
				if fieldErr.Field() == "DueDate" && fieldErr.Tag() == "datetime" {
					return ErrInvalidDueDate
				}
			}
		}
		return err
	}
	if _, err := models.ParseDate(dueDate); err != nil {
		return ErrInvalidDueDate
	}
	return nil
}

// canViewCourse allows the course teacher and enrolled students.
func canViewCourse(ctx context.Context, courses repository.CourseRepository, session Session, courseID uint) error {
	switch session.Role {
	case models.RoleTeacher:
		_, err := ownedCourse(ctx, courses, session, courseID)
		return err
	case models.RoleStudent:
		_, err := enrolledCourse(ctx, courses, session, courseID)
		return err
	default:
		return ErrForbidden
	}
}
