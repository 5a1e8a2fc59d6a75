package cli

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/repository"
	"github.com/noah-isme/school-lms/internal/service"
	"github.com/noah-isme/school-lms/internal/storage"
)

// Options tunes the reminder behaviour of the wired services.
type Options struct {
	ReminderInterval   time.Duration
	ReminderWindowDays int
}

// NewServices wires repositories and services over one database and submission store.
func NewServices(db *gorm.DB, store *storage.LocalStore, opts Options, logger zerolog.Logger) Services {
	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), logger)
	gamification := service.NewGamificationService(
		repository.NewGamificationRepository(db),
		submissionRepo,
		assignmentRepo,
		quizRepo,
		notifications,
		opts.ReminderWindowDays,
		logger,
	)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db), validate, logger)

	return Services{
		Auth:          service.NewAuthService(userRepo, logger),
		Courses:       service.NewCourseService(courseRepo, notifications, gamification, validate, logger),
		Assignments:   service.NewAssignmentService(assignmentRepo, courseRepo, notifications, validate, logger),
		Submissions:   service.NewSubmissionService(submissionRepo, assignmentRepo, courseRepo, store, notifications, gamification, activity, validate, logger),
		Quizzes:       service.NewQuizService(quizRepo, courseRepo, notifications, gamification, validate, logger),
		Notifications: notifications,
		Gamification:  gamification,
		Messages:      service.NewMessageService(repository.NewMessageRepository(db), userRepo, notifications, validate, logger),
		Chat:          service.NewChatService(repository.NewChatRepository(db), courseRepo, validate, logger),
		Users:         service.NewUserService(userRepo, activity, validate, logger),
		Activity:      activity,
		Scheduler:     service.NewReminderScheduler(gamification, opts.ReminderInterval, logger),
	}
}
