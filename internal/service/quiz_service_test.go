package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-lms/internal/dto"
)

func TestQuizServiceAttempt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := studentSession("s1")

	course := env.course(t, "teacher1", "Trivia")
	env.enroll(t, "s1", course.ID)
	quiz := env.quiz(t, "teacher1", course.ID, "Capitals", "2026-11-01")
	require.Equal(t, []string{"A", "B", "C", "D"}, quiz.Options)
	require.Contains(t, env.messagesFor(t, "s1"), fmt.Sprintf("New quiz 'Capitals' due 2026-11-01 in course ID %d", course.ID))

	pending, err := env.quizzes.ListPending(ctx, session, nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	result, err := env.quizzes.Attempt(ctx, session, quiz.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, int64(PointsEnrollment+PointsQuizCorrect), result.Award.Total)
	require.Contains(t, env.messagesFor(t, "s1"), "Quiz 'Capitals' completed. Score: 1/1")

	_, err = env.quizzes.Attempt(ctx, session, quiz.ID, 2)
	require.ErrorIs(t, err, ErrQuizAlreadyAttempted)

	pending, err = env.quizzes.ListPending(ctx, session, &course.ID)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestQuizServiceIncorrectAnswer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course := env.course(t, "teacher1", "Trivia")
	env.enroll(t, "s1", course.ID)
	quiz := env.quiz(t, "teacher1", course.ID, "Rivers", "2026-11-01")

	result, err := env.quizzes.Attempt(ctx, studentSession("s1"), quiz.ID, 3)
	require.NoError(t, err)
	require.Zero(t, result.Score)
	require.Equal(t, int64(PointsEnrollment+PointsQuizIncorrect), result.Award.Total)
	require.Contains(t, env.messagesFor(t, "s1"), "Quiz 'Rivers' completed. Score: 0/1")
}

func TestQuizServiceRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course := env.course(t, "teacher1", "Trivia")
	quiz := env.quiz(t, "teacher1", course.ID, "Rivers", "2026-11-01")

	_, err := env.quizzes.Attempt(ctx, studentSession("s1"), quiz.ID, 1)
	require.ErrorIs(t, err, ErrNotEnrolled)

	_, err = env.quizzes.Attempt(ctx, studentSession("s1"), quiz.ID, 4)
	require.ErrorIs(t, err, ErrInvalidQuizOption)

	_, err = env.quizzes.Attempt(ctx, studentSession("s1"), 999, 1)
	require.ErrorIs(t, err, ErrQuizNotFound)

	_, err = env.quizzes.CreateQuiz(ctx, teacherSession("teacher1"), dto.QuizCreateRequest{
		CourseID: course.ID, Title: "Short", DueDate: "2026-11-01", Question: "?", Options: []string{"A", "B"}, CorrectOption: 0,
	})
	require.Error(t, err)

	_, err = env.quizzes.CreateQuiz(ctx, teacherSession("teacher1"), dto.QuizCreateRequest{
		CourseID: course.ID, Title: "Bad index", DueDate: "2026-11-01", Question: "?", Options: []string{"A", "B", "C", "D"}, CorrectOption: 4,
	})
	require.Error(t, err)

	_, err = env.quizzes.CreateQuiz(ctx, teacherSession("teacher1"), dto.QuizCreateRequest{
		CourseID: course.ID, Title: "Bad date", DueDate: "2026-13-01", Question: "?", Options: []string{"A", "B", "C", "D"},
	})
	require.ErrorIs(t, err, ErrInvalidDueDate)

	_, err = env.quizzes.ListPending(ctx, studentSession("s1"), &course.ID)
	require.ErrorIs(t, err, ErrNotEnrolled)
}
