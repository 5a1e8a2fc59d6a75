package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/service"
)

var (
	classroom = []string{models.RoleStudent, models.RoleTeacher}
	everyone  = []string{models.RoleStudent, models.RoleTeacher, models.RoleAdmin}
)

func (cli *CommandLine) sharedCommands() []command {
	return []command{
		{name: "courses", usage: "courses you are enrolled in or teach", roles: classroom, run: cli.courses},
		{name: "assignments", usage: "-course ID", roles: classroom, run: cli.assignments},
		{name: "chat", usage: "-course ID [-limit N] course chat history", roles: classroom, run: cli.chat},
		{name: "chat-post", usage: "-course ID -body TEXT", roles: classroom, run: cli.chatPost},
		{name: "notifications", usage: "list your notifications", roles: everyone, run: cli.notifications},
		{name: "read", usage: "-id ID mark a notification as read", roles: everyone, run: cli.read},
		{name: "leaderboard", usage: "[-limit N]", roles: everyone, run: cli.leaderboard},
		{name: "send", usage: "-to USER -body TEXT", roles: everyone, run: cli.send},
		{name: "inbox", usage: "messages you received", roles: everyone, run: cli.inbox},
		{name: "conversation", usage: "-with USER", roles: everyone, run: cli.conversation},
	}
}

func (cli *CommandLine) courses(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("courses"), args); err != nil {
		return err
	}
	var (
		courses []dto.CourseResponse
		err     error
	)
	if session.IsTeacher() {
		courses, err = cli.svc.Courses.ListTeaching(ctx, session)
	} else {
		courses, err = cli.svc.Courses.ListEnrolled(ctx, session)
	}
	if err != nil {
		return err
	}
	return cli.printCourses(courses)
}

func (cli *CommandLine) assignments(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("assignments")
	courseID := fs.Uint("course", 0, "course to list")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "course"); err != nil {
		return err
	}

	items, err := cli.svc.Assignments.ListByCourse(ctx, session, *courseID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(cli.out, "No assignments.")
		return nil
	}
	t := newTable(cli.out, "ID", "TITLE", "DUE", "DESCRIPTION")
	for _, a := range items {
		t.row(a.ID, a.Title, a.DueDate, a.Description)
	}
	return t.flush()
}

func (cli *CommandLine) chat(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("chat")
	courseID := fs.Uint("course", 0, "course chat to show")
	limit := fs.Int("limit", 50, "number of recent messages")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "course"); err != nil {
		return err
	}

	items, err := cli.svc.Chat.History(ctx, session, *courseID, *limit)
	if err != nil {
		return err
	}
	return cli.printMessages(items, "No chat messages.")
}

func (cli *CommandLine) chatPost(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("chat-post")
	courseID := fs.Uint("course", 0, "course chat to post in")
	body := fs.String("body", "", "message text")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "course", "body"); err != nil {
		return err
	}

	if _, err := cli.svc.Chat.Post(ctx, session, dto.ChatPostRequest{CourseID: *courseID, Body: *body}); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Posted.")
	return nil
}

func (cli *CommandLine) notifications(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("notifications"), args); err != nil {
		return err
	}
	items, err := cli.svc.Notifications.List(ctx, session.Username)
	if err != nil {
		return err
	}
	unread, err := cli.svc.Notifications.UnreadCount(ctx, session.Username)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%d unread\n", unread)
	for _, n := range items {
		cli.printNotification(n)
	}
	return nil
}

func (cli *CommandLine) read(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("read")
	id := fs.Uint("id", 0, "notification to mark as read")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}

	if _, err := cli.svc.Notifications.MarkRead(ctx, *id, session.Username); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Notification %d marked as read.\n", *id)
	return nil
}

func (cli *CommandLine) leaderboard(ctx context.Context, _ service.Session, args []string) error {
	fs := cli.flags("leaderboard")
	limit := fs.Int("limit", 10, "number of students to show")
	if err := parse(fs, args); err != nil {
		return err
	}

	entries, err := cli.svc.Gamification.Leaderboard(ctx, *limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cli.out, "No points awarded yet.")
		return nil
	}
	t := newTable(cli.out, "RANK", "STUDENT", "POINTS", "BADGES")
	for _, e := range entries {
		t.row(e.Rank, e.Student, e.Points, e.Badges)
	}
	return t.flush()
}

func (cli *CommandLine) send(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("send")
	to := fs.String("to", "", "receiver username")
	body := fs.String("body", "", "message text")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "to", "body"); err != nil {
		return err
	}

	msg, err := cli.svc.Messages.Send(ctx, session, dto.MessageRequest{Receiver: strings.TrimSpace(*to), Body: *body})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Message sent to %s.\n", msg.Receiver)
	return nil
}

func (cli *CommandLine) inbox(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("inbox"), args); err != nil {
		return err
	}
	items, err := cli.svc.Messages.Inbox(ctx, session)
	if err != nil {
		return err
	}
	return cli.printMessages(items, "Inbox is empty.")
}

func (cli *CommandLine) conversation(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("conversation")
	with := fs.String("with", "", "other participant")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "with"); err != nil {
		return err
	}

	items, err := cli.svc.Messages.Conversation(ctx, session, strings.TrimSpace(*with))
	if err != nil {
		return err
	}
	return cli.printMessages(items, "No messages.")
}
