package client

import (
	"fmt"
	"html"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"coursehub-server-go/models"
)

const timeLayout = "2006-01-02 15:04"

// Stored text is HTML-escaped; terminals want it back as typed.
func plain(s string) string {
	return html.UnescapeString(s)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func RenderAssignments(w io.Writer, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		_, err := fmt.Fprintln(w, "No assignments found.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tDUE\tFILES")
	for _, a := range assignments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", a.ID, plain(a.Title), a.DueDate, len(a.Files))
	}
	return tw.Flush()
}

// RenderAssignment prints one assignment followed by its comments.
func RenderAssignment(w io.Writer, a models.Assignment, comments []models.AssignmentComment) error {
	fmt.Fprintf(w, "Assignment #%d: %s\n", a.ID, plain(a.Title))
	fmt.Fprintf(w, "Due: %s\n", a.DueDate)
	if a.Description != "" {
		fmt.Fprintf(w, "\n%s\n", plain(a.Description))
	}
	if len(a.Files) > 0 {
		fmt.Fprintf(w, "\nFiles:\n")
		for _, f := range a.Files {
			fmt.Fprintf(w, "  - %s\n", plain(f))
		}
	}

	fmt.Fprintf(w, "\nComments (%d):\n", len(comments))
	return RenderAssignmentComments(w, comments)
}

func RenderAssignmentComments(w io.Writer, comments []models.AssignmentComment) error {
	if len(comments) == 0 {
		_, err := fmt.Fprintln(w, "  No comments yet.")
		return err
	}
	tw := newTable(w)
	for _, c := range comments {
		fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\n", c.ID, plain(c.Author), stamp(c.CreatedAt), plain(c.Text))
	}
	return tw.Flush()
}

func RenderTopics(w io.Writer, topics []models.Topic) error {
	if len(topics) == 0 {
		_, err := fmt.Fprintln(w, "No topics found.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSUBJECT\tAUTHOR\tPOSTED")
	for _, t := range topics {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, plain(t.Subject), plain(t.Author), stamp(t.CreatedAt))
	}
	return tw.Flush()
}

// RenderTopic prints a topic and its replies as a thread.
func RenderTopic(w io.Writer, t models.Topic, replies []models.Reply) error {
	fmt.Fprintf(w, "%s\n", plain(t.Subject))
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", len([]rune(plain(t.Subject)))))
	fmt.Fprintf(w, "by %s on %s\n\n%s\n", plain(t.Author), stamp(t.CreatedAt), plain(t.Message))

	fmt.Fprintf(w, "\nReplies (%d):\n", len(replies))
	return RenderReplies(w, replies)
}

func RenderReplies(w io.Writer, replies []models.Reply) error {
	if len(replies) == 0 {
		_, err := fmt.Fprintln(w, "  No replies yet.")
		return err
	}
	for _, r := range replies {
		fmt.Fprintf(w, "  [%s] %s (%s): %s\n", r.ID, plain(r.Author), stamp(r.CreatedAt), plain(r.Text))
	}
	return nil
}

func RenderWeeks(w io.Writer, weeks []models.Week) error {
	if len(weeks) == 0 {
		_, err := fmt.Fprintln(w, "No weeks found.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSTARTS\tTITLE\tLINKS")
	for _, wk := range weeks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", wk.ID, wk.StartDate, plain(wk.Title), len(wk.Links))
	}
	return tw.Flush()
}

// RenderWeek prints one week with its links and comments.
func RenderWeek(w io.Writer, wk models.Week, comments []models.WeekComment) error {
	fmt.Fprintf(w, "%s (starts %s)\n", plain(wk.Title), wk.StartDate)
	if wk.Description != "" {
		fmt.Fprintf(w, "\n%s\n", plain(wk.Description))
	}
	if len(wk.Links) > 0 {
		fmt.Fprintf(w, "\nLinks:\n")
		for _, l := range wk.Links {
			fmt.Fprintf(w, "  %s\n", l)
		}
	}

	fmt.Fprintf(w, "\nQuestions & comments (%d):\n", len(comments))
	return RenderWeekComments(w, comments)
}

func RenderWeekComments(w io.Writer, comments []models.WeekComment) error {
	if len(comments) == 0 {
		_, err := fmt.Fprintln(w, "  No comments yet.")
		return err
	}
	tw := newTable(w)
	for _, c := range comments {
		fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\n", c.ID, plain(c.Author), stamp(c.CreatedAt), plain(c.Text))
	}
	return tw.Flush()
}
