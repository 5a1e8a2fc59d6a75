package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2026-10-20")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("2026-02-30")
	require.Error(t, err)

	_, err = ParseDate("20-10-2026")
	require.Error(t, err)
}

func TestDateOfDropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("UTC-4", -4*60*60)
	local := time.Date(2026, 10, 17, 23, 30, 0, 0, loc)

	require.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), DateOf(local))
	require.Equal(t, "2026-10-17", FormatDate(local))
}

func TestIsValidRole(t *testing.T) {
	require.True(t, IsValidRole(RoleStudent))
	require.True(t, IsValidRole(RoleTeacher))
	require.True(t, IsValidRole(RoleAdmin))
	require.False(t, IsValidRole("principal"))
	require.False(t, IsValidRole(""))
}

func TestSubmissionIsGraded(t *testing.T) {
	submission := AssignmentSubmission{}
	require.False(t, submission.IsGraded())

	grade := "A"
	submission.Grade = &grade
	require.True(t, submission.IsGraded())
}

func TestDefinitionLabel(t *testing.T) {
	def := AssignmentDefinition{Title: "Essay", DueDate: "2026-11-01"}
	require.Equal(t, "Essay (Due: 2026-11-01)", def.Label())
}
