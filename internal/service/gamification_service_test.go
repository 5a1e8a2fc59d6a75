package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
)

func TestAwardPointsTotalMatchesLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var last dto.AwardResult
	for _, points := range []int{10, -3, 20} {
		result, err := env.gamification.AwardPoints(ctx, "s1", points, "bonus")
		require.NoError(t, err)
		last = result
	}
	require.Equal(t, int64(27), last.Total)

	history, err := env.gamification.PointsHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	sum := 0
	for _, entry := range history {
		sum += entry.Points
	}
	require.Equal(t, int64(sum), last.Total)

	total, err := env.gamification.TotalPoints(ctx, "nobody")
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestStarStudentGrantedExactlyAtFifty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.gamification.AwardPoints(ctx, "s1", 10, "bonus")
	require.NoError(t, err)
	require.Empty(t, first.Granted)

	second, err := env.gamification.AwardPoints(ctx, "s1", 20, "bonus")
	require.NoError(t, err)
	require.Empty(t, second.Granted)
	require.False(t, second.Achieved())

	third, err := env.gamification.AwardPoints(ctx, "s1", 20, "bonus")
	require.NoError(t, err)
	require.Equal(t, int64(50), third.Total)
	require.Equal(t, []string{models.BadgeStarStudent}, third.Granted)
	require.Contains(t, env.messagesFor(t, "s1"), "Congratulations! You earned the 'Star Student' badge!")

	again, err := env.gamification.AwardPoints(ctx, "s1", 20, "bonus")
	require.NoError(t, err)
	require.Empty(t, again.Granted)

	badges, err := env.gamification.Badges(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []dto.BadgeResponse{{Name: models.BadgeStarStudent, AwardedDate: "2026-10-17"}}, badges)
}

func TestQuizMasterGrantedOnFifthAttempt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course := env.course(t, "teacher1", "Algebra")
	env.enroll(t, "s1", course.ID)

	var results []dto.QuizAttemptResult
	for i := 0; i < 5; i++ {
		quiz := env.quiz(t, "teacher1", course.ID, fmt.Sprintf("Quiz %d", i+1), dueIn(10))
		result, err := env.quizzes.Attempt(ctx, studentSession("s1"), quiz.ID, 0)
		require.NoError(t, err)
		require.Zero(t, result.Score)
		results = append(results, result)
	}

	for _, result := range results[:4] {
		require.Empty(t, result.Award.Granted)
	}
	require.Equal(t, []string{models.BadgeQuizMaster}, results[4].Award.Granted)
	require.Equal(t, int64(PointsEnrollment+5*PointsQuizIncorrect), results[4].Award.Total)
}

func TestEarlyBirdGrantedOnThirdEarlySubmission(t *testing.T) {
	env := newTestEnv(t)

	course := env.course(t, "teacher1", "Biology")
	env.enroll(t, "s1", course.ID)

	soon := env.definition(t, "teacher1", course.ID, "Soon", dueIn(1))
	early := []dto.AssignmentDefinitionResponse{
		env.definition(t, "teacher1", course.ID, "Early one", dueIn(3)),
		env.definition(t, "teacher1", course.ID, "Early two", dueIn(3)),
		env.definition(t, "teacher1", course.ID, "Early three", dueIn(10)),
	}

	require.Empty(t, env.submit(t, "s1", course.ID, soon.ID).Award.Granted)
	require.Empty(t, env.submit(t, "s1", course.ID, early[0].ID).Award.Granted)
	require.Empty(t, env.submit(t, "s1", course.ID, early[1].ID).Award.Granted)

	third := env.submit(t, "s1", course.ID, early[2].ID)
	require.Equal(t, []string{models.BadgeEarlyBird}, third.Award.Granted)
	require.Equal(t, int64(PointsEnrollment+4*PointsSubmission), third.Award.Total)
	require.Contains(t, env.messagesFor(t, "s1"), "Congratulations! You earned the 'Early Bird' badge!")
}

func TestEarlyBirdOnlyEvaluatedForSubmissionAwards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	definition := models.AssignmentDefinition{CourseID: 1, Title: "Far", DueDate: dueIn(7)}
	require.NoError(t, env.db.Create(&definition).Error)
	for i := 0; i < 3; i++ {
		require.NoError(t, env.db.Create(&models.AssignmentSubmission{
			CourseID:     1,
			DefinitionID: definition.ID,
			Student:      "s1",
			FilePath:     fmt.Sprintf("f%d", i),
			DueDate:      definition.DueDate,
		}).Error)
	}

	result, err := env.gamification.AwardPoints(ctx, "s1", 1, ReasonQuizCompletion)
	require.NoError(t, err)
	require.Empty(t, result.Granted)

	result, err = env.gamification.AwardPoints(ctx, "s1", 1, ReasonAssignmentSubmission)
	require.NoError(t, err)
	require.Equal(t, []string{models.BadgeEarlyBird}, result.Granted)
}

func TestEarlyBirdFollowsDefinitionNotCopiedDescription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Two definitions share a description; only the far one is early.
	far := models.AssignmentDefinition{CourseID: 1, Title: "Far", DueDate: dueIn(5), Description: "Read chapter 1"}
	near := models.AssignmentDefinition{CourseID: 1, Title: "Near", DueDate: dueIn(1), Description: "Read chapter 1"}
	require.NoError(t, env.db.Create(&far).Error)
	require.NoError(t, env.db.Create(&near).Error)
	for i, definitionID := range []uint{far.ID, near.ID, near.ID} {
		require.NoError(t, env.db.Create(&models.AssignmentSubmission{
			CourseID:     1,
			DefinitionID: definitionID,
			Student:      "s1",
			FilePath:     fmt.Sprintf("f%d", i),
			Description:  "Read chapter 1",
		}).Error)
	}

	result, err := env.gamification.AwardPoints(ctx, "s1", 10, ReasonAssignmentSubmission)
	require.NoError(t, err)
	require.Empty(t, result.Granted)
}

func TestCheckDueDatesWindowAndIdempotence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	session := studentSession("s1")

	course := env.course(t, "teacher1", "History")
	other := env.course(t, "teacher1", "Elsewhere")
	env.enroll(t, "s1", course.ID)

	today := env.definition(t, "teacher1", course.ID, "Today", dueIn(0))
	edge := env.definition(t, "teacher1", course.ID, "Edge", dueIn(3))
	outside := env.definition(t, "teacher1", course.ID, "Outside", dueIn(4))
	past := env.definition(t, "teacher1", course.ID, "Past", dueIn(-1))
	graded := env.definition(t, "teacher1", course.ID, "Graded", dueIn(1))
	for _, definition := range []dto.AssignmentDefinitionResponse{today, edge, outside, past} {
		env.submit(t, "s1", course.ID, definition.ID)
	}
	gradedSubmission := env.submit(t, "s1", course.ID, graded.ID)
	_, err := env.submissions.Grade(ctx, teacherSession("teacher1"), gradedSubmission.Submission.ID, dto.GradeRequest{Grade: "A"})
	require.NoError(t, err)

	pending := env.quiz(t, "teacher1", course.ID, "Pending", dueIn(2))
	env.quiz(t, "teacher1", course.ID, "Later", dueIn(5))
	attempted := env.quiz(t, "teacher1", course.ID, "Attempted", dueIn(1))
	_, err = env.quizzes.Attempt(ctx, session, attempted.ID, 1)
	require.NoError(t, err)
	env.quiz(t, "teacher1", other.ID, "Not enrolled", dueIn(1))

	// Unparseable stored dates are skipped without failing the check.
	require.NoError(t, env.db.Create(&models.AssignmentSubmission{CourseID: course.ID, DefinitionID: 999, Student: "s1", FilePath: "x", DueDate: "someday"}).Error)

	created, err := env.gamification.CheckDueDates(ctx, session)
	require.NoError(t, err)
	require.Equal(t, 3, created)

	messages := env.messagesFor(t, "s1")
	require.Contains(t, messages, fmt.Sprintf("Reminder: 'Today description' due on 2026-10-17 (Course ID: %d)", course.ID))
	require.Contains(t, messages, fmt.Sprintf("Reminder: 'Edge description' due on 2026-10-20 (Course ID: %d)", course.ID))
	require.Contains(t, messages, fmt.Sprintf("Reminder: Quiz '%s' due on 2026-10-19 (Course ID: %d)", pending.Title, course.ID))
	for _, message := range messages {
		require.NotContains(t, message, "Outside description")
		require.NotContains(t, message, "Past description")
		require.NotContains(t, message, "Reminder: 'Graded")
		require.NotContains(t, message, "Reminder: Quiz 'Later'")
		require.NotContains(t, message, "Reminder: Quiz 'Attempted'")
		require.NotContains(t, message, "Not enrolled")
	}

	again, err := env.gamification.CheckDueDates(ctx, session)
	require.NoError(t, err)
	require.Zero(t, again)
	require.Len(t, env.messagesFor(t, "s1"), len(messages))
}

func TestCheckDueDatesIgnoresNonStudents(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.gamification.CheckDueDates(context.Background(), teacherSession("teacher1"))
	require.NoError(t, err)
	require.Zero(t, created)

	created, err = env.gamification.CheckDueDates(context.Background(), adminSession("admin1"))
	require.NoError(t, err)
	require.Zero(t, created)
}

func TestComputeProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course := env.course(t, "teacher1", "Physics")
	empty := env.course(t, "teacher1", "Empty")
	env.enroll(t, "s1", course.ID)

	first := env.definition(t, "teacher1", course.ID, "Lab 1", dueIn(5))
	env.definition(t, "teacher1", course.ID, "Lab 2", dueIn(6))
	quiz := env.quiz(t, "teacher1", course.ID, "Units", dueIn(5))
	env.quiz(t, "teacher1", course.ID, "Vectors", dueIn(6))

	env.submit(t, "s1", course.ID, first.ID)
	_, err := env.quizzes.Attempt(ctx, studentSession("s1"), quiz.ID, 1)
	require.NoError(t, err)

	progress, err := env.gamification.ComputeProgress(ctx, "s1", course.ID)
	require.NoError(t, err)
	require.Equal(t, dto.Progress{CourseID: course.ID, Completed: 2, Total: 4, Percent: 50}, progress)

	zero, err := env.gamification.ComputeProgress(ctx, "s1", empty.ID)
	require.NoError(t, err)
	require.Equal(t, dto.Progress{CourseID: empty.ID}, zero)
}

func TestLeaderboardRanksStudents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"amy", "ben", "cat"} {
		env.seedUser(t, name, models.RoleStudent)
	}
	env.seedUser(t, "teacher1", models.RoleTeacher)

	_, err := env.gamification.AwardPoints(ctx, "ben", 30, "bonus")
	require.NoError(t, err)
	_, err = env.gamification.AwardPoints(ctx, "amy", 30, "bonus")
	require.NoError(t, err)
	_, err = env.gamification.AwardPoints(ctx, "cat", 60, "bonus")
	require.NoError(t, err)

	board, err := env.gamification.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []dto.LeaderboardEntry{
		{Rank: 1, Student: "cat", Points: 60, Badges: 1},
		{Rank: 2, Student: "amy", Points: 30},
		{Rank: 3, Student: "ben", Points: 30},
	}, board)
}
