package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/testutil"
)

func seedStudents(t *testing.T, db *gorm.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, db.Create(&models.User{Username: name, PasswordDigest: "x", Role: models.RoleStudent}).Error)
	}
}

func TestCourseRepositoryEnrollmentViews(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	algebra := models.Course{Name: "Algebra", Teacher: "teacher1"}
	biology := models.Course{Name: "Biology", Teacher: "teacher1"}
	chemistry := models.Course{Name: "Chemistry", Teacher: "teacher2"}
	for _, course := range []*models.Course{&algebra, &biology, &chemistry} {
		require.NoError(t, repo.Create(ctx, course))
	}

	require.NoError(t, repo.Enroll(ctx, &models.Enrollment{CourseID: algebra.ID, Student: "s1"}))
	require.NoError(t, repo.Enroll(ctx, &models.Enrollment{CourseID: chemistry.ID, Student: "s1"}))
	require.NoError(t, repo.Enroll(ctx, &models.Enrollment{CourseID: algebra.ID, Student: "s2"}))
	require.Error(t, repo.Enroll(ctx, &models.Enrollment{CourseID: algebra.ID, Student: "s1"}), "unique index rejects duplicates")

	enrolled, err := repo.ListEnrolled(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, enrolled, 2)
	require.Equal(t, "Algebra", enrolled[0].Name)
	require.Equal(t, "Chemistry", enrolled[1].Name)

	available, err := repo.ListAvailable(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, "Biology", available[0].Name)

	fresh, err := repo.ListAvailable(ctx, "nobody")
	require.NoError(t, err)
	require.Len(t, fresh, 3)

	teaching, err := repo.ListByTeacher(ctx, "teacher1")
	require.NoError(t, err)
	require.Len(t, teaching, 2)

	students, err := repo.ListStudents(ctx, algebra.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, students)

	ok, err := repo.IsEnrolled(ctx, biology.ID, "s1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSubmissionRepositoryCountsByDefinitionDueDate(t *testing.T) {
	db := testutil.PrepareDB(t)
	defs := NewAssignmentRepository(db)
	subs := NewSubmissionRepository(db)
	ctx := context.Background()

	early := models.AssignmentDefinition{CourseID: 1, Title: "Early", DueDate: "2026-10-25", Description: "same words"}
	late := models.AssignmentDefinition{CourseID: 1, Title: "Late", DueDate: "2026-10-18", Description: "same words"}
	require.NoError(t, defs.Create(ctx, &early))
	require.NoError(t, defs.Create(ctx, &late))

	// The copied due date is stale on purpose; the count follows the definition.
	require.NoError(t, subs.Create(ctx, &models.AssignmentSubmission{CourseID: 1, DefinitionID: early.ID, Student: "s1", FilePath: "a", DueDate: "2000-01-01"}))
	require.NoError(t, subs.Create(ctx, &models.AssignmentSubmission{CourseID: 1, DefinitionID: late.ID, Student: "s1", FilePath: "b", DueDate: "2099-01-01"}))
	require.NoError(t, subs.Create(ctx, &models.AssignmentSubmission{CourseID: 1, DefinitionID: early.ID, Student: "s2", FilePath: "c"}))

	count, err := subs.CountWithDefinitionDueOnOrAfter(ctx, "s1", "2026-10-20")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	count, err = subs.CountWithDefinitionDueOnOrAfter(ctx, "s1", "2026-10-18")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	exists, err := defs.TitleExists(ctx, 1, "Early", 0)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = defs.TitleExists(ctx, 1, "Early", early.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestSubmissionRepositoryTeacherAndUngradedViews(t *testing.T) {
	db := testutil.PrepareDB(t)
	courses := NewCourseRepository(db)
	subs := NewSubmissionRepository(db)
	ctx := context.Background()

	mine := models.Course{Name: "Mine", Teacher: "teacher1"}
	theirs := models.Course{Name: "Theirs", Teacher: "teacher2"}
	require.NoError(t, courses.Create(ctx, &mine))
	require.NoError(t, courses.Create(ctx, &theirs))

	grade := "B"
	require.NoError(t, subs.Create(ctx, &models.AssignmentSubmission{CourseID: mine.ID, DefinitionID: 1, Student: "s1", FilePath: "a"}))
	require.NoError(t, subs.Create(ctx, &models.AssignmentSubmission{CourseID: mine.ID, DefinitionID: 2, Student: "s1", FilePath: "b", Grade: &grade}))
	require.NoError(t, subs.Create(ctx, &models.AssignmentSubmission{CourseID: theirs.ID, DefinitionID: 3, Student: "s1", FilePath: "c"}))

	owned, err := subs.ListByTeacher(ctx, "teacher1")
	require.NoError(t, err)
	require.Len(t, owned, 2)

	ungraded, err := subs.ListUngradedByStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, ungraded, 2)

	count, err := subs.CountByCourseAndStudent(ctx, mine.ID, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestQuizRepositoryUnattemptedAndCounts(t *testing.T) {
	db := testutil.PrepareDB(t)
	courses := NewCourseRepository(db)
	quizzes := NewQuizRepository(db)
	ctx := context.Background()

	course := models.Course{Name: "Algebra", Teacher: "teacher1"}
	other := models.Course{Name: "Other", Teacher: "teacher1"}
	require.NoError(t, courses.Create(ctx, &course))
	require.NoError(t, courses.Create(ctx, &other))
	require.NoError(t, courses.Enroll(ctx, &models.Enrollment{CourseID: course.ID, Student: "s1"}))

	options := datatypes.NewJSONSlice([]string{"1", "2", "3", "4"})
	first := models.Quiz{CourseID: course.ID, Title: "Q1", DueDate: "2026-10-19", Question: "1+1?", Options: options, CorrectOption: 1}
	second := models.Quiz{CourseID: course.ID, Title: "Q2", DueDate: "2026-10-20", Question: "2+2?", Options: options, CorrectOption: 3}
	foreign := models.Quiz{CourseID: other.ID, Title: "Q3", DueDate: "2026-10-20", Question: "?", Options: options}
	for _, quiz := range []*models.Quiz{&first, &second, &foreign} {
		require.NoError(t, quizzes.Create(ctx, quiz))
	}

	require.NoError(t, quizzes.CreateSubmission(ctx, &models.QuizSubmission{QuizID: first.ID, Student: "s1", ChosenOption: 1, Score: 1}))
	require.Error(t, quizzes.CreateSubmission(ctx, &models.QuizSubmission{QuizID: first.ID, Student: "s1", ChosenOption: 2}))

	pending, err := quizzes.ListUnattempted(ctx, "s1", nil)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "Q2", pending[0].Title)
	require.Equal(t, []string{"1", "2", "3", "4"}, []string(pending[0].Options))

	attempted, err := quizzes.CountAttemptedInCourse(ctx, course.ID, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(1), attempted)

	total, err := quizzes.CountSubmissions(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	has, err := quizzes.HasSubmission(ctx, second.ID, "s1")
	require.NoError(t, err)
	require.False(t, has)
}

func TestGamificationRepositoryTotalsAndLeaderboard(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewGamificationRepository(db)
	ctx := context.Background()

	seedStudents(t, db, "alice", "bob", "carol")
	require.NoError(t, db.Create(&models.User{Username: "teacher1", PasswordDigest: "x", Role: models.RoleTeacher}).Error)

	total, err := repo.TotalPoints(ctx, "alice")
	require.NoError(t, err)
	require.Zero(t, total)

	for _, entry := range []models.PointsEntry{
		{Student: "alice", Points: 10, Reason: "a"},
		{Student: "alice", Points: 20, Reason: "b"},
		{Student: "bob", Points: 30, Reason: "c"},
		{Student: "teacher1", Points: 100, Reason: "ignored"},
	} {
		entry := entry
		require.NoError(t, repo.AddPoints(ctx, &entry))
	}

	require.NoError(t, repo.CreateBadge(ctx, &models.Badge{Student: "bob", Name: models.BadgeStarStudent, AwardedDate: "2026-10-17"}))
	require.Error(t, repo.CreateBadge(ctx, &models.Badge{Student: "bob", Name: models.BadgeStarStudent, AwardedDate: "2026-10-18"}))

	board, err := repo.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []LeaderboardRow{
		{Student: "alice", Points: 30, Badges: 0},
		{Student: "bob", Points: 30, Badges: 1},
		{Student: "carol", Points: 0, Badges: 0},
	}, board)

	has, err := repo.HasBadge(ctx, "bob", models.BadgeStarStudent)
	require.NoError(t, err)
	require.True(t, has)
}

func TestGamificationRepositoryLeaderboardLimits(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewGamificationRepository(db)
	ctx := context.Background()

	names := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("student%02d", i))
	}
	seedStudents(t, db, names...)

	board, err := repo.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 10)

	board, err = repo.Leaderboard(ctx, 500)
	require.NoError(t, err)
	require.Len(t, board, 12)

	board, err = repo.Leaderboard(ctx, 3)
	require.NoError(t, err)
	require.Len(t, board, 3)
}

func TestNotificationRepositoryDedupAndRead(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	note := models.Notification{Username: "s1", Message: "hello"}
	require.NoError(t, repo.Create(ctx, &note))
	require.NoError(t, repo.Create(ctx, &models.Notification{Username: "s2", Message: "hello"}))

	exists, err := repo.ExistsWithMessage(ctx, "s1", "hello")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsWithMessage(ctx, "s1", "hello!")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = repo.MarkRead(ctx, note.ID, "s2")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	read, err := repo.MarkRead(ctx, note.ID, "s1")
	require.NoError(t, err)
	require.True(t, read.Read)

	unread, err := repo.CountUnread(ctx, "s1")
	require.NoError(t, err)
	require.Zero(t, unread)
}

func TestChatAndMessageRepositoriesOrdering(t *testing.T) {
	db := testutil.PrepareDB(t)
	chat := NewChatRepository(db)
	messages := NewMessageRepository(db)
	ctx := context.Background()

	for _, body := range []string{"one", "two", "three"} {
		require.NoError(t, chat.Save(ctx, &models.ChatMessage{CourseID: 1, Sender: "s1", Body: body}))
	}

	history, err := chat.ListByCourse(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "two", history[0].Body)
	require.Equal(t, "three", history[1].Body)

	require.NoError(t, messages.Create(ctx, &models.Message{Sender: "a", Receiver: "b", Body: "hi"}))
	require.NoError(t, messages.Create(ctx, &models.Message{Sender: "b", Receiver: "a", Body: "hey"}))
	require.NoError(t, messages.Create(ctx, &models.Message{Sender: "c", Receiver: "a", Body: "yo"}))

	conversation, err := messages.ListConversation(ctx, "a", "b")
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	require.Equal(t, "hi", conversation[0].Body)

	inbox, err := messages.ListByReceiver(ctx, "a")
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	require.Equal(t, "yo", inbox[0].Body)
}

func TestUserRepositoryDelete(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "s1", PasswordDigest: "x", Role: models.RoleStudent}))
	require.NoError(t, repo.Delete(ctx, "s1"))
	require.ErrorIs(t, repo.Delete(ctx, "s1"), gorm.ErrRecordNotFound)

	_, err := repo.GetByUsername(ctx, "s1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
