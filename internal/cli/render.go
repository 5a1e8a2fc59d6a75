package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/school-lms/internal/dto"
)

const timeLayout = "2006-01-02 15:04"

type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
	t.row(toAny(headers)...)
	return t
}

func (t *table) row(values ...interface{}) {
	cells := make([]string, len(values))
	for i, value := range values {
		cells[i] = fmt.Sprint(value)
	}
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.w.Flush()
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// printAward reports the new point total and any badge unlocked by the action.
func (cli *CommandLine) printAward(award dto.AwardResult) {
	fmt.Fprintf(cli.out, "Total points: %d\n", award.Total)
	for _, badge := range award.Granted {
		fmt.Fprintf(cli.out, "Achievement unlocked: %s!\n", badge)
	}
}

func (cli *CommandLine) printCourses(courses []dto.CourseResponse) error {
	if len(courses) == 0 {
		fmt.Fprintln(cli.out, "No courses.")
		return nil
	}
	t := newTable(cli.out, "ID", "NAME", "TEACHER", "DESCRIPTION")
	for _, c := range courses {
		t.row(c.ID, c.Name, c.Teacher, orDash(c.Description))
	}
	return t.flush()
}

func (cli *CommandLine) printSubmissions(items []dto.SubmissionResponse) error {
	if len(items) == 0 {
		fmt.Fprintln(cli.out, "No submissions.")
		return nil
	}
	t := newTable(cli.out, "ID", "COURSE", "STUDENT", "ASSIGNMENT", "DUE", "GRADE", "COMMENT", "SUBMITTED")
	for _, s := range items {
		t.row(s.ID, s.CourseID, s.Student, orDash(s.Description), s.DueDate, orDash(s.Grade), orDash(s.Comment), s.SubmittedAt.Format(timeLayout))
	}
	return t.flush()
}

func (cli *CommandLine) printMessages(items []dto.MessageResponse, empty string) error {
	if len(items) == 0 {
		fmt.Fprintln(cli.out, empty)
		return nil
	}
	for _, m := range items {
		fmt.Fprintf(cli.out, "[%s] %s: %s\n", m.CreatedAt.Format(timeLayout), m.Sender, m.Body)
	}
	return nil
}

func (cli *CommandLine) printNotification(n dto.NotificationResponse) {
	marker := "*"
	if n.Read {
		marker = " "
	}
	fmt.Fprintf(cli.out, "%s %4d  %s  %s\n", marker, n.ID, n.CreatedAt.Format(timeLayout), n.Message)
}
