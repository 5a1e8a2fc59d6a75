package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/observability"
	"github.com/noah-isme/school-lms/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	// ErrHelp is returned after usage was printed.
	ErrHelp = errors.New("help provided")
	// ErrUnknownCommand is returned for a command name that does not exist.
	ErrUnknownCommand = errors.New("no such command")
)

// Services bundles the operations the command line drives.
type Services struct {
	Auth          service.AuthService
	Courses       service.CourseService
	Assignments   service.AssignmentService
	Submissions   service.SubmissionService
	Quizzes       service.QuizService
	Notifications service.NotificationService
	Gamification  service.GamificationService
	Messages      service.MessageService
	Chat          service.ChatService
	Users         service.UserService
	Activity      service.ActivityService
	Scheduler     *service.ReminderScheduler
}

type command struct {
	name  string
	usage string
	roles []string
	run   func(ctx context.Context, session service.Session, args []string) error
}

func (c command) allows(role string) bool {
	for _, allowed := range c.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// CommandLine is the presentation layer: it logs a user in and runs one role-specific command.
type CommandLine struct {
	svc      Services
	out      io.Writer
	logger   zerolog.Logger
	commands map[string]command
}

// New constructs the command line front end writing to out.
func New(svc Services, out io.Writer, logger zerolog.Logger) *CommandLine {
	cli := &CommandLine{
		svc:      svc,
		out:      out,
		logger:   logger.With().Str("component", "cli").Logger(),
		commands: make(map[string]command),
	}
	cli.register(cli.studentCommands()...)
	cli.register(cli.sharedCommands()...)
	cli.register(cli.teacherCommands()...)
	cli.register(cli.adminCommands()...)
	return cli
}

func (cli *CommandLine) register(commands ...command) {
	for _, cmd := range commands {
		cli.commands[cmd.name] = cmd
	}
}

func (cli *CommandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  lms [-reset] [-config FILE] [-metrics] -u USERNAME COMMAND [ARGS] - the password is prompted next")
	for _, role := range []string{models.RoleStudent, models.RoleTeacher, models.RoleAdmin} {
		fmt.Fprintf(cli.out, "\n%s commands:\n", role)
		for _, name := range cli.commandNames() {
			cmd := cli.commands[name]
			if cmd.allows(role) {
				fmt.Fprintf(cli.out, "  %-16s %s\n", cmd.name, cmd.usage)
			}
		}
	}
}

func (cli *CommandLine) commandNames() []string {
	names := make([]string, 0, len(cli.commands))
	for name := range cli.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run parses args (without the program name), logs in and executes the command.
func (cli *CommandLine) Run(ctx context.Context, args []string) error {
	global := cli.flags("lms")
	username := global.String("u", "", "The username to log in as. The password will be prompted next.")
	if err := parse(global, args); err != nil {
		return err
	}

	rest := global.Args()
	if len(rest) == 0 || rest[0] == "help" {
		cli.printUsage()
		return ErrHelp
	}

	cmd, ok := cli.commands[rest[0]]
	if !ok {
		cli.printUsage()
		return fmt.Errorf("%q: %w", rest[0], ErrUnknownCommand)
	}
	if strings.TrimSpace(*username) == "" {
		global.Usage()
		return ErrHelp
	}

	session, err := cli.login(ctx, *username)
	if err != nil {
		return err
	}
	if !cmd.allows(session.Role) {
		return fmt.Errorf("%s: %w", cmd.name, service.ErrForbidden)
	}

	start := time.Now()
	err = cmd.run(ctx, session, rest[1:])
	observability.CommandDuration().WithLabelValues(cmd.name).Observe(time.Since(start).Seconds())
	if err != nil {
		cli.logger.Debug().Err(err).Str("command", cmd.name).Msg("command failed")
	}
	return err
}

func (cli *CommandLine) login(ctx context.Context, username string) (service.Session, error) {
	fmt.Fprint(cli.out, "Password: ")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return service.Session{}, err
	}
	if len(pwd) == 0 {
		return service.Session{}, service.ErrInvalidCredentials
	}
	return cli.svc.Auth.Login(ctx, strings.TrimSpace(username), string(pwd))
}

func (cli *CommandLine) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}
	return nil
}

// required reports the first missing flag among names, in the order given.
func required(fs *flag.FlagSet, names ...string) error {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range names {
		if !set[name] {
			fs.Usage()
			return fmt.Errorf("-%s is required", name)
		}
	}
	return nil
}

// Describe renders err as a single user-facing line.
func Describe(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		parts := make([]string, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			parts = append(parts, describeField(fieldErr))
		}
		return "invalid input: " + strings.Join(parts, "; ")
	}
	return err.Error()
}

func describeField(fieldErr validator.FieldError) string {
	field := strings.ToLower(fieldErr.Field())
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "datetime":
		return field + " must be a YYYY-MM-DD date"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param())
	case "len":
		return fmt.Sprintf("%s must have exactly %s entries", field, fieldErr.Param())
	case "min", "max":
		return fmt.Sprintf("%s violates %s=%s", field, fieldErr.Tag(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fieldErr.Tag())
	}
}
