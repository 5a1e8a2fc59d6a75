package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/service"
)

var adminOnly = []string{models.RoleAdmin}

func (cli *CommandLine) adminCommands() []command {
	return []command{
		{name: "users", usage: "list accounts", roles: adminOnly, run: cli.users},
		{name: "user-add", usage: "-username NAME -password PW -role student|teacher|admin", roles: adminOnly, run: cli.userAdd},
		{name: "user-remove", usage: "-username NAME", roles: adminOnly, run: cli.userRemove},
		{name: "audit", usage: "[-page N] [-size N] [-actor USER] [-action NAME] [-entity TYPE] [-entity-id ID] [-from DATE] [-to DATE] activity log", roles: adminOnly, run: cli.audit},
	}
}

func (cli *CommandLine) users(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("users"), args); err != nil {
		return err
	}
	items, err := cli.svc.Users.ListUsers(ctx, session)
	if err != nil {
		return err
	}
	t := newTable(cli.out, "USERNAME", "ROLE", "CREATED")
	for _, u := range items {
		t.row(u.Username, u.Role, u.CreatedAt.Format(timeLayout))
	}
	return t.flush()
}

func (cli *CommandLine) userAdd(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("user-add")
	username := fs.String("username", "", "new account name")
	password := fs.String("password", "", "initial password")
	role := fs.String("role", models.RoleStudent, "student, teacher or admin")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "username", "password"); err != nil {
		return err
	}

	user, err := cli.svc.Users.AddUser(ctx, session, dto.UserCreateRequest{
		Username: strings.TrimSpace(*username),
		Password: *password,
		Role:     strings.ToLower(strings.TrimSpace(*role)),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "User %s (%s) created.\n", user.Username, user.Role)
	return nil
}

func (cli *CommandLine) userRemove(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("user-remove")
	username := fs.String("username", "", "account to remove")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "username"); err != nil {
		return err
	}

	if err := cli.svc.Users.RemoveUser(ctx, session, strings.TrimSpace(*username)); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "User %s removed.\n", *username)
	return nil
}

func (cli *CommandLine) audit(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("audit")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 20, "entries per page")
	actor := fs.String("actor", "", "filter by actor")
	action := fs.String("action", "", "filter by action")
	entityType := fs.String("entity", "", "filter by entity type")
	entityID := fs.String("entity-id", "", "filter by entity id")
	from := fs.String("from", "", "first day, YYYY-MM-DD")
	to := fs.String("to", "", "last day, YYYY-MM-DD")
	if err := parse(fs, args); err != nil {
		return err
	}

	result, err := cli.svc.Activity.List(ctx, session, dto.ActivityListRequest{
		Page:       *page,
		PageSize:   *size,
		Actor:      *actor,
		Action:     *action,
		EntityType: *entityType,
		EntityID:   *entityID,
		From:       *from,
		To:         *to,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d entries\n", result.TotalItems)
	t := newTable(cli.out, "WHEN", "ACTOR", "ACTION", "ENTITY")
	for _, item := range result.Items {
		t.row(item.CreatedAt.Format(timeLayout), item.Actor, item.Action, item.EntityType+":"+item.EntityID)
	}
	return t.flush()
}
