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

// CourseService manages courses and student enrollment.
type CourseService interface {
	CreateCourse(ctx context.Context, session Session, req dto.CourseCreateRequest) (dto.CourseResponse, error)
	UpdateDescription(ctx context.Context, session Session, courseID uint, req dto.CourseDescriptionRequest) (dto.CourseResponse, error)
	ListTeaching(ctx context.Context, session Session) ([]dto.CourseResponse, error)
	ListAvailable(ctx context.Context, session Session) ([]dto.CourseResponse, error)
	ListEnrolled(ctx context.Context, session Session) ([]dto.CourseResponse, error)
	Enroll(ctx context.Context, session Session, courseID uint) (dto.EnrollResult, error)
}

type courseService struct {
	repo          repository.CourseRepository
	notifications NotificationPublisher
	points        PointsAwarder
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo repository.CourseRepository, notifications NotificationPublisher, points PointsAwarder, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:          repo,
		notifications: notifications,
		points:        points,
		validator:     validate,
		logger:        logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) CreateCourse(ctx context.Context, session Session, req dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return dto.CourseResponse{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{Name: req.Name, Teacher: session.Username, Description: req.Description}
	if err := s.repo.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info().Uint("course_id", course.ID).Str("teacher", session.Username).Msg("course created")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) UpdateDescription(ctx context.Context, session Session, courseID uint, req dto.CourseDescriptionRequest) (dto.CourseResponse, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return dto.CourseResponse{}, err
	}

	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := ownedCourse(ctx, s.repo, session, courseID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	course.Description = req.Description
	if err := s.repo.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, fmt.Errorf("update course: %w", err)
	}
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) ListTeaching(ctx context.Context, session Session) ([]dto.CourseResponse, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return nil, err
	}
	courses, err := s.repo.ListByTeacher(ctx, session.Username)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) ListAvailable(ctx context.Context, session Session) ([]dto.CourseResponse, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	courses, err := s.repo.ListAvailable(ctx, session.Username)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) ListEnrolled(ctx context.Context, session Session) ([]dto.CourseResponse, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	courses, err := s.repo.ListEnrolled(ctx, session.Username)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Enroll(ctx context.Context, session Session, courseID uint) (dto.EnrollResult, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return dto.EnrollResult{}, err
	}

	course, err := findCourse(ctx, s.repo, courseID)
	if err != nil {
		return dto.EnrollResult{}, err
	}

	enrolled, err := s.repo.IsEnrolled(ctx, courseID, session.Username)
	if err != nil {
		return dto.EnrollResult{}, err
	}
	if enrolled {
		return dto.EnrollResult{}, ErrAlreadyEnrolled
	}

	enrollment := models.Enrollment{CourseID: courseID, Student: session.Username}
	if err := s.repo.Enroll(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollResult{}, ErrAlreadyEnrolled
		}
		return dto.EnrollResult{}, fmt.Errorf("enroll: %w", err)
	}

	if _, err := s.notifications.Publish(ctx, session.Username, fmt.Sprintf("Enrolled in %s (ID: %d)", course.Name, course.ID)); err != nil {
		return dto.EnrollResult{}, err
	}

	award, err := s.points.AwardPoints(ctx, session.Username, PointsEnrollment, ReasonEnrollment)
	if err != nil {
		return dto.EnrollResult{}, err
	}

	s.logger.Info().Uint("course_id", courseID).Str("student", session.Username).Msg("student enrolled")
	return dto.EnrollResult{Course: dto.NewCourseResponse(course), Award: award}, nil
}

func findCourse(ctx context.Context, repo repository.CourseRepository, courseID uint) (models.Course, error) {
	course, err := repo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

// ownedCourse loads a course and checks the session teaches it.
func ownedCourse(ctx context.Context, repo repository.CourseRepository, session Session, courseID uint) (models.Course, error) {
	course, err := findCourse(ctx, repo, courseID)
	if err != nil {
		return models.Course{}, err
	}
	if course.Teacher != session.Username {
		return models.Course{}, ErrNotCourseOwner
	}
	return course, nil
}

// enrolledCourse loads a course and checks the session student is enrolled in it.
func enrolledCourse(ctx context.Context, repo repository.CourseRepository, session Session, courseID uint) (models.Course, error) {
	course, err := findCourse(ctx, repo, courseID)
	if err != nil {
		return models.Course{}, err
	}
	enrolled, err := repo.IsEnrolled(ctx, courseID, session.Username)
	if err != nil {
		return models.Course{}, err
	}
	if !enrolled {
		return models.Course{}, ErrNotEnrolled
	}
	return course, nil
}

// notifyEnrolled sends message to every student enrolled in the course. Individual failures are logged.
func notifyEnrolled(ctx context.Context, repo repository.CourseRepository, notifications NotificationPublisher, logger zerolog.Logger, courseID uint, message string) error {
	students, err := repo.ListStudents(ctx, courseID)
	if err != nil {
		return fmt.Errorf("list enrolled students: %w", err)
	}
	for _, student := range students {
		if _, err := notifications.Publish(ctx, student, message); err != nil {
			logger.Warn().Err(err).Str("student", student).Uint("course_id", courseID).Msg("failed to notify student")
		}
	}
	return nil
}
