package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/school-lms/internal/dto"
	"github.com/noah-isme/school-lms/internal/models"
	"github.com/noah-isme/school-lms/internal/service"
)

var teacherOnly = []string{models.RoleTeacher}

// optionSeparator splits the -options value of quiz-add.
const optionSeparator = "|"

func (cli *CommandLine) teacherCommands() []command {
	return []command{
		{name: "course-add", usage: "-name NAME [-description TEXT]", roles: teacherOnly, run: cli.courseAdd},
		{name: "course-edit", usage: "-course ID -description TEXT", roles: teacherOnly, run: cli.courseEdit},
		{name: "assignment-add", usage: "-course ID -title T -due YYYY-MM-DD -description TEXT", roles: teacherOnly, run: cli.assignmentAdd},
		{name: "assignment-edit", usage: "-id ID -title T -due YYYY-MM-DD -description TEXT", roles: teacherOnly, run: cli.assignmentEdit},
		{name: "quiz-add", usage: "-course ID -title T -due YYYY-MM-DD -question Q -options 'a|b|c|d' -correct 1..4", roles: teacherOnly, run: cli.quizAdd},
		{name: "submissions", usage: "submissions to your courses", roles: teacherOnly, run: cli.submissions},
		{name: "grade", usage: "-id ID -grade GRADE", roles: teacherOnly, run: cli.grade},
		{name: "comment", usage: "-id ID -text TEXT", roles: teacherOnly, run: cli.comment},
		{name: "download", usage: "-id ID -dest PATH", roles: classroom, run: cli.download},
		{name: "preview", usage: "-id ID", roles: classroom, run: cli.preview},
	}
}

func (cli *CommandLine) courseAdd(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("course-add")
	name := fs.String("name", "", "course name")
	description := fs.String("description", "", "course description")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "name"); err != nil {
		return err
	}

	course, err := cli.svc.Courses.CreateCourse(ctx, session, dto.CourseCreateRequest{Name: *name, Description: *description})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Course %d created: %s\n", course.ID, course.Name)
	return nil
}

func (cli *CommandLine) courseEdit(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("course-edit")
	courseID := fs.Uint("course", 0, "course to edit")
	description := fs.String("description", "", "new description")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "course", "description"); err != nil {
		return err
	}

	course, err := cli.svc.Courses.UpdateDescription(ctx, session, *courseID, dto.CourseDescriptionRequest{Description: *description})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Course %d updated.\n", course.ID)
	return nil
}

func (cli *CommandLine) assignmentAdd(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("assignment-add")
	courseID := fs.Uint("course", 0, "course of the assignment")
	title := fs.String("title", "", "assignment title")
	due := fs.String("due", "", "due date, YYYY-MM-DD")
	description := fs.String("description", "", "assignment description")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "course", "title", "due", "description"); err != nil {
		return err
	}

	def, err := cli.svc.Assignments.CreateDefinition(ctx, session, dto.AssignmentDefinitionRequest{
		CourseID:    *courseID,
		Title:       *title,
		DueDate:     *due,
		Description: *description,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Assignment %d created: %s\n", def.ID, def.Label)
	return nil
}

func (cli *CommandLine) assignmentEdit(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("assignment-edit")
	id := fs.Uint("id", 0, "assignment to edit")
	title := fs.String("title", "", "assignment title")
	due := fs.String("due", "", "due date, YYYY-MM-DD")
	description := fs.String("description", "", "assignment description")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", "title", "due", "description"); err != nil {
		return err
	}

	def, err := cli.svc.Assignments.UpdateDefinition(ctx, session, *id, dto.AssignmentDefinitionUpdateRequest{
		Title:       *title,
		DueDate:     *due,
		Description: *description,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Assignment %d updated: %s\n", def.ID, def.Label)
	return nil
}

func (cli *CommandLine) quizAdd(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("quiz-add")
	courseID := fs.Uint("course", 0, "course of the quiz")
	title := fs.String("title", "", "quiz title")
	due := fs.String("due", "", "due date, YYYY-MM-DD")
	question := fs.String("question", "", "question text")
	options := fs.String("options", "", "four options separated by "+optionSeparator)
	correct := fs.Int("correct", 0, "correct option, 1 to 4")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "course", "title", "due", "question", "options", "correct"); err != nil {
		return err
	}

	parts := strings.Split(*options, optionSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	quiz, err := cli.svc.Quizzes.CreateQuiz(ctx, session, dto.QuizCreateRequest{
		CourseID:      *courseID,
		Title:         *title,
		DueDate:       *due,
		Question:      *question,
		Options:       parts,
		CorrectOption: *correct - 1,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Quiz %d created: %s\n", quiz.ID, quiz.Title)
	return nil
}

func (cli *CommandLine) submissions(ctx context.Context, session service.Session, args []string) error {
	if err := parse(cli.flags("submissions"), args); err != nil {
		return err
	}
	items, err := cli.svc.Submissions.ListForTeacher(ctx, session)
	if err != nil {
		return err
	}
	return cli.printSubmissions(items)
}

func (cli *CommandLine) grade(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("grade")
	id := fs.Uint("id", 0, "submission to grade")
	value := fs.String("grade", "", "grade to record")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", "grade"); err != nil {
		return err
	}

	sub, err := cli.svc.Submissions.Grade(ctx, session, *id, dto.GradeRequest{Grade: *value})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Submission %d graded %s.\n", sub.ID, sub.Grade)
	return nil
}

func (cli *CommandLine) comment(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("comment")
	id := fs.Uint("id", 0, "submission to comment on")
	text := fs.String("text", "", "comment text")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id", "text"); err != nil {
		return err
	}

	sub, err := cli.svc.Submissions.Comment(ctx, session, *id, dto.CommentRequest{Text: *text})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Comment saved on submission %d.\n", sub.ID)
	return nil
}

func (cli *CommandLine) download(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("download")
	id := fs.Uint("id", 0, "submission to download")
	dest := fs.String("dest", ".", "destination file or directory")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}

	path, err := cli.svc.Submissions.Download(ctx, session, *id, *dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Saved to %s\n", path)
	return nil
}

func (cli *CommandLine) preview(ctx context.Context, session service.Session, args []string) error {
	fs := cli.flags("preview")
	id := fs.Uint("id", 0, "submission to preview")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := required(fs, "id"); err != nil {
		return err
	}

	p, err := cli.svc.Submissions.Preview(ctx, session, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Submission %d: %s (%s)\n", p.SubmissionID, p.Kind, p.MimeType)
	switch p.Kind {
	case dto.PreviewText:
		fmt.Fprintln(cli.out, p.Content)
	default:
		fmt.Fprintln(cli.out, "No inline preview; use download to open the file.")
	}
	return nil
}
