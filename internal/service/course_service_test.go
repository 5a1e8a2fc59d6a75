package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-lms/internal/dto"
)

func TestCourseServiceEnroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course := env.course(t, "teacher1", "Algebra")
	require.Equal(t, "teacher1", course.Teacher)

	result := env.enroll(t, "s1", course.ID)
	require.Equal(t, course.ID, result.Course.ID)
	require.Equal(t, int64(PointsEnrollment), result.Award.Total)
	require.Equal(t, []string{fmt.Sprintf("Enrolled in Algebra (ID: %d)", course.ID)}, env.messagesFor(t, "s1"))

	_, err := env.courses.Enroll(ctx, studentSession("s1"), course.ID)
	require.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = env.courses.Enroll(ctx, studentSession("s1"), 999)
	require.ErrorIs(t, err, ErrCourseNotFound)

	enrolled, err := env.courses.ListEnrolled(ctx, studentSession("s1"))
	require.NoError(t, err)
	require.Len(t, enrolled, 1)

	available, err := env.courses.ListAvailable(ctx, studentSession("s1"))
	require.NoError(t, err)
	require.Empty(t, available)

	available, err = env.courses.ListAvailable(ctx, studentSession("s2"))
	require.NoError(t, err)
	require.Len(t, available, 1)
}

func TestCourseServiceRoleChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.courses.CreateCourse(ctx, studentSession("s1"), dto.CourseCreateRequest{Name: "Nope"})
	require.ErrorIs(t, err, ErrForbidden)

	course := env.course(t, "teacher1", "Chemistry")

	_, err = env.courses.Enroll(ctx, teacherSession("teacher1"), course.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.courses.ListTeaching(ctx, adminSession("admin1"))
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.courses.CreateCourse(ctx, teacherSession("teacher1"), dto.CourseCreateRequest{Name: "   "})
	require.Error(t, err)
}

func TestCourseServiceUpdateDescriptionOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	course := env.course(t, "teacher1", "Art")

	_, err := env.courses.UpdateDescription(ctx, teacherSession("teacher2"), course.ID, dto.CourseDescriptionRequest{Description: "hijack"})
	require.ErrorIs(t, err, ErrNotCourseOwner)

	updated, err := env.courses.UpdateDescription(ctx, teacherSession("teacher1"), course.ID, dto.CourseDescriptionRequest{Description: " Drawing basics "})
	require.NoError(t, err)
	require.Equal(t, "Drawing basics", updated.Description)

	teaching, err := env.courses.ListTeaching(ctx, teacherSession("teacher1"))
	require.NoError(t, err)
	require.Len(t, teaching, 1)
	require.Equal(t, "Drawing basics", teaching[0].Description)
}
