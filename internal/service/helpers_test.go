package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/repository"
	"github.com/noah-isme/school-lms/internal/storage"
	"github.com/noah-isme/school-lms/internal/testutil"
)

var testNow = time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	db            *gorm.DB
	store         *storage.LocalStore
	notifications NotificationService
	gamification  GamificationService
	courses       CourseService
	assignments   AssignmentService
	submissions   SubmissionService
	quizzes       QuizService
	messages      MessageService
	chat          ChatService
	users         UserService
	activity      ActivityService
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.PrepareDB(t)
	logger := testLogger()
	validate := validator.New(validator.WithRequiredStructEnabled())

	store, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "assignments"), logger)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quizRepo := repository.NewQuizRepository(db)

	notifications := NewNotificationService(repository.NewNotificationRepository(db), logger)
	gamification := NewGamificationService(repository.NewGamificationRepository(db), submissionRepo, assignmentRepo, quizRepo, notifications, 3, logger)
	if concrete, ok := gamification.(*gamificationService); ok {
		concrete.now = func() time.Time { return testNow }
	}
	activity := NewActivityService(repository.NewActivityLogRepository(db), validate, logger)

	env := &testEnv{
		db:            db,
		store:         store,
		notifications: notifications,
		gamification:  gamification,
		courses:       NewCourseService(courseRepo, notifications, gamification, validate, logger),
		assignments:   NewAssignmentService(assignmentRepo, courseRepo, notifications, validate, logger),
		submissions:   NewSubmissionService(submissionRepo, assignmentRepo, courseRepo, store, notifications, gamification, activity, validate, logger),
		quizzes:       NewQuizService(quizRepo, courseRepo, notifications, gamification, validate, logger),
		messages:      NewMessageService(repository.NewMessageRepository(db), userRepo, notifications, validate, logger),
		chat:          NewChatService(repository.NewChatRepository(db), courseRepo, validate, logger),
		users:         NewUserService(userRepo, activity, validate, logger),
		activity:      activity,
	}
	if concrete, ok := env.users.(*userService); ok {
		concrete.hash = func(password string) (string, error) { return "digest:" + password, nil }
	}
	return env
}

func studentSession(username string) Session {
	return Session{Username: username, Role: models.RoleStudent, StartedAt: testNow}
}

func teacherSession(username string) Session {
	return Session{Username: username, Role: models.RoleTeacher, StartedAt: testNow}
}

func adminSession(username string) Session {
	return Session{Username: username, Role: models.RoleAdmin, StartedAt: testNow}
}

// dueIn renders the date days after the fixed test clock.
func dueIn(days int) string {
	return models.FormatDate(testNow.AddDate(0, 0, days))
}

func (e *testEnv) seedUser(t *testing.T, username, role string) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.User{Username: username, PasswordDigest: "x", Role: role}).Error)
}

func (e *testEnv) course(t *testing.T, teacher, name string) dto.CourseResponse {
	t.Helper()
	course, err := e.courses.CreateCourse(context.Background(), teacherSession(teacher), dto.CourseCreateRequest{Name: name})
	require.NoError(t, err)
	return course
}

func (e *testEnv) enroll(t *testing.T, student string, courseID uint) dto.EnrollResult {
	t.Helper()
	result, err := e.courses.Enroll(context.Background(), studentSession(student), courseID)
	require.NoError(t, err)
	return result
}

func (e *testEnv) definition(t *testing.T, teacher string, courseID uint, title, due string) dto.AssignmentDefinitionResponse {
	t.Helper()
	definition, err := e.assignments.CreateDefinition(context.Background(), teacherSession(teacher), dto.AssignmentDefinitionRequest{
		CourseID:    courseID,
		Title:       title,
		DueDate:     due,
		Description: title + " description",
	})
	require.NoError(t, err)
	return definition
}

func (e *testEnv) quiz(t *testing.T, teacher string, courseID uint, title, due string) dto.QuizResponse {
	t.Helper()
	quiz, err := e.quizzes.CreateQuiz(context.Background(), teacherSession(teacher), dto.QuizCreateRequest{
		CourseID:      courseID,
		Title:         title,
		DueDate:       due,
		Question:      "Pick B",
		Options:       []string{"A", "B", "C", "D"},
		CorrectOption: 1,
	})
	require.NoError(t, err)
	return quiz
}

func (e *testEnv) submit(t *testing.T, student string, courseID, definitionID uint) dto.SubmitResult {
	t.Helper()
	result, err := e.submissions.Submit(context.Background(), studentSession(student), dto.SubmissionCreateRequest{
		CourseID:     courseID,
		DefinitionID: definitionID,
		SourcePath:   sourceFile(t, "work.txt", "my work"),
	})
	require.NoError(t, err)
	return result
}

func sourceFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (e *testEnv) messagesFor(t *testing.T, username string) []string {
	t.Helper()
	notifications, err := e.notifications.List(context.Background(), username)
	require.NoError(t, err)
	messages := make([]string, 0, len(notifications))
	for _, notification := range notifications {
		messages = append(messages, notification.Message)
	}
	return messages
}
