package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
)

func TestUserServiceAddUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := adminSession("admin1")

	created, err := env.users.AddUser(ctx, admin, dto.UserCreateRequest{Username: "newteacher", Password: "secret1", Role: "Teacher"})
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, created.Role)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "username = ?", "newteacher").Error)
	require.Equal(t, "digest:secret1", stored.PasswordDigest)

	_, err = env.users.AddUser(ctx, admin, dto.UserCreateRequest{Username: "newteacher", Password: "secret1", Role: "student"})
	require.ErrorIs(t, err, ErrUserExists)

	var validationErrs validator.ValidationErrors
	_, err = env.users.AddUser(ctx, admin, dto.UserCreateRequest{Username: "principal", Password: "secret1", Role: "principal"})
	require.ErrorAs(t, err, &validationErrs)

	_, err = env.users.AddUser(ctx, teacherSession("teacher1"), dto.UserCreateRequest{Username: "sneaky", Password: "secret1", Role: "admin"})
	require.ErrorIs(t, err, ErrForbidden)

	users, err := env.users.ListUsers(ctx, admin)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestUserServiceRemoveUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := adminSession("admin1")

	env.seedUser(t, "admin1", models.RoleAdmin)
	env.seedUser(t, "s1", models.RoleStudent)

	require.ErrorIs(t, env.users.RemoveUser(ctx, admin, "admin1"), ErrCannotRemoveSelf)
	require.ErrorIs(t, env.users.RemoveUser(ctx, admin, "ghost"), ErrUserNotFound)
	require.NoError(t, env.users.RemoveUser(ctx, admin, "s1"))
	require.ErrorIs(t, env.users.RemoveUser(ctx, admin, "s1"), ErrUserNotFound)

	audit, err := env.activity.List(ctx, admin, dto.ActivityListRequest{EntityType: "user"})
	require.NoError(t, err)
	require.Equal(t, int64(1), audit.TotalItems)
	require.Equal(t, "user.removed", audit.Items[0].Action)
	require.Equal(t, "s1", audit.Items[0].EntityID)
}
