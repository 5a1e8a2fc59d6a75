package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
)

func TestMessageServiceSendAndRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedUser(t, "s1", models.RoleStudent)
	env.seedUser(t, "teacher1", models.RoleTeacher)

	sent, err := env.messages.Send(ctx, studentSession("s1"), dto.MessageRequest{Receiver: "teacher1", Body: "<i>Question</i> about homework"})
	require.NoError(t, err)
	require.Equal(t, "Question about homework", sent.Body)
	require.Contains(t, env.messagesFor(t, "teacher1"), "New message from s1")

	_, err = env.messages.Send(ctx, teacherSession("teacher1"), dto.MessageRequest{Receiver: "s1", Body: "Answer"})
	require.NoError(t, err)

	_, err = env.messages.Send(ctx, studentSession("s1"), dto.MessageRequest{Receiver: "ghost", Body: "hi"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.messages.Send(ctx, studentSession("s1"), dto.MessageRequest{Receiver: "teacher1", Body: "<b></b>"})
	require.Error(t, err)

	inbox, err := env.messages.Inbox(ctx, teacherSession("teacher1"))
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	conversation, err := env.messages.Conversation(ctx, studentSession("s1"), "teacher1")
	require.NoError(t, err)
	require.Len(t, conversation, 2)
	require.Equal(t, "s1", conversation[0].Sender)
	require.Equal(t, "teacher1", conversation[1].Sender)
}
