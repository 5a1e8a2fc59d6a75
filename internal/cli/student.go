package cli

import (
	"context"
	"fmt"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/service"
)

var studentOnly = []string{models.RoleStudent}

func (cli *CommandLine) studentCommands() []command {
	return []command{
		{name: "available", usage: "list courses open for enrollment", roles: studentOnly, run: cli.available},
		{name: "enroll", usage: "-course ID", roles: studentOnly, run: cli.enroll},
		{name: "submit", usage: "-course ID -assignment ID -file PATH", roles: studentOnly, run: cli.submit},
		{name: "grades", usage: "list your submissions with grades and comments", roles: studentOnly, run: cli.grades},
		{name: "progress", usage: "[-course ID] completion percentage per enrolled course", roles: studentOnly, run: cli.progress},
		{name: "quizzes", usage: "[-course ID] list quizzes not attempted yet", roles: studentOnly, run: cli.quizzes},
		{name: "quiz", usage: "-id ID -answer 1..4", roles: studentOnly, run: cli.quiz},
		{name: "points", usage: "total points and history", roles: studentOnly, run: cli.points},
		{name: "badges", usage: "badges earned", roles: studentOnly, run: cli.badges},
		{name: "remind", usage: "run one due-date reminder check", roles: studentOnly, run: cli.remind},
		{name: "watch", usage: "check due dates periodically and stream notifications until interrupted", roles: studentOnly, run: cli.watch},
	}
}

func (cli *CommandLine) available(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("available"), args); err != nil {
		return err
	}
	courses, err := cli.svc.Courses.ListAvailable(ctx, session)
	if err != nil {
		return err
	}
	return cli.printCourses(courses)
}

func (cli *CommandLine) enroll(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("enroll")
	courseID := fs.Uint("course", 0, "course to enroll in")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "course"); err != nil {
		return err
	}

	result, err := cli.svc.Courses.Enroll(ctx, session, *courseID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Enrolled in %s.\n", result.Course.Name)
	cli.printAward(result.Award)
	return nil
}

func (cli *CommandLine) submit(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("submit")
	courseID := fs.Uint("course", 0, "course of the assignment")
	definitionID := fs.Uint("assignment", 0, "assignment definition id")
	file := fs.String("file", "", "file to submit")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "course", "assignment", "file"); err != nil {
		return err
	}

	result, err := cli.svc.Submissions.Submit(ctx, session, dto.SubmissionCreateRequest{
		CourseID:     *courseID,
		DefinitionID: *definitionID,
		SourcePath:   *file,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Submitted %s as submission %d.\n", result.Submission.FilePath, result.Submission.ID)
	cli.printAward(result.Award)
	return nil
}

func (cli *CommandLine) grades(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("grades"), args); err != nil {
		return err
	}
	items, err := cli.svc.Submissions.ListForStudent(ctx, session)
	if err != nil {
		return err
	}
	return cli.printSubmissions(items)
}

func (cli *CommandLine) progress(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("progress")
	courseID := fs.Uint("course", 0, "limit to one course")
	if err := parse(fs, args); err != nil {
		return err
	}

	courses, err := cli.svc.Courses.ListEnrolled(ctx, session)
	if err != nil {
		return err
	}
	t := newTable(cli.out, "COURSE", "NAME", "COMPLETED", "TOTAL", "PROGRESS")
	found := false
	for _, course := range courses {
		if *courseID != 0 && course.ID != *courseID {
			continue
		}
		found = true
		p, err := cli.svc.Gamification.ComputeProgress(ctx, session.Username, course.ID)
		if err != nil {
			return err
		}
		t.row(course.ID, course.Name, p.Completed, p.Total, fmt.Sprintf("%d%%", p.Percent))
	}
	if *courseID != 0 && !found {
		return service.ErrNotEnrolled
	}
	return t.flush()
}

func (cli *CommandLine) quizzes(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("quizzes")
	courseID := fs.Uint("course", 0, "limit to one course")
	if err := parse(fs, args); err != nil {
		return err
	}

	var filter *uint
	if *courseID != 0 {
		filter = courseID
	}
	items, err := cli.svc.Quizzes.ListPending(ctx, session, filter)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(cli.out, "No pending quizzes.")
		return nil
	}
	for _, q := range items {
		fmt.Fprintf(cli.out, "#%d %s (course %d, due %s)\n  %s\n", q.ID, q.Title, q.CourseID, q.DueDate, q.Question)
		for i, option := range q.Options {
			fmt.Fprintf(cli.out, "  %d) %s\n", i+1, option)
		}
	}
	return nil
}

func (cli *CommandLine) quiz(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("quiz")
	quizID := fs.Uint("id", 0, "quiz to attempt")
	answer := fs.Int("answer", 0, "chosen option, 1 to 4")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", "answer"); err != nil {
		return err
	}

	result, err := cli.svc.Quizzes.Attempt(ctx, session, *quizID, *answer-1)
	if err != nil {
		return err
	}
	if result.Score > 0 {
		fmt.Fprintln(cli.out, "Correct!")
	} else {
		fmt.Fprintln(cli.out, "Incorrect.")
	}
	cli.printAward(result.Award)
	return nil
}

func (cli *CommandLine) points(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("points"), args); err != nil {
		return err
	}
	total, err := cli.svc.Gamification.TotalPoints(ctx, session.Username)
	if err != nil {
		return err
	}
	history, err := cli.svc.Gamification.PointsHistory(ctx, session.Username)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "Total points: %d\n", total)
	if len(history) == 0 {
		return nil
	}
	t := newTable(cli.out, "WHEN", "POINTS", "REASON")
	for _, entry := range history {
		t.row(entry.CreatedAt.Format(timeLayout), fmt.Sprintf("%+d", entry.Points), entry.Reason)
	}
	return t.flush()
}

func (cli *CommandLine) badges(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("badges"), args); err != nil {
		return err
	}
	items, err := cli.svc.Gamification.Badges(ctx, session.Username)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(cli.out, "No badges yet.")
		return nil
	}
	for _, badge := range items {
		fmt.Fprintf(cli.out, "%s (awarded %s)\n", badge.Name, badge.AwardedDate)
	}
	return nil
}

func (cli *CommandLine) remind(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("remind"), args); err != nil {
		return err
	}
	created, err := cli.svc.Gamification.CheckDueDates(ctx, session)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d new reminder(s).\n", created)
	return nil
}

func (cli *CommandLine) watch(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("watch"), args); err != nil {
		return err
	}

	stream, unsubscribe := cli.svc.Notifications.Subscribe(session.Username)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- cli.svc.Scheduler.Run(ctx, session)
	}()

	fmt.Fprintln(cli.out, "Watching for notifications, interrupt to stop.")
	for {
		select {
		case n, ok := <-stream:
			if !ok {
				cancel()
				<-done
				return nil
			}
			cli.printNotification(n)
		case <-done:
			return nil
		}
	}
}
