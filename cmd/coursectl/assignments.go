package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coursehub-server-go/client"
	"coursehub-server-go/identity"
	"coursehub-server-go/models"
)

var assignmentsCmd = &cobra.Command{
	Use:     "assignments",
	Aliases: []string{"assignment"},
	Short:   "Manage assignments and their comments",
}

var assignmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assignments",
	Args:  cobra.NoArgs,
	RunE:  runAssignmentList,
}

var assignmentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an assignment with its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignmentShow,
}

var assignmentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an assignment",
	Args:  cobra.NoArgs,
	RunE:  runAssignmentAdd,
}

var assignmentEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an assignment",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignmentEdit,
}

var assignmentRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an assignment and its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignmentRm,
}

var assignmentCommentCmd = &cobra.Command{
	Use:   "comment <assignment-id> <text>",
	Short: "Comment on an assignment",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssignmentComment,
}

var assignmentRmCommentCmd = &cobra.Command{
	Use:   "rm-comment <comment-id>",
	Short: "Delete an assignment comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssignmentRmComment,
}

var (
	assignmentTitle       string
	assignmentDue         string
	assignmentDescription string
	assignmentFiles       []string
)

func init() {
	rootCmd.AddCommand(assignmentsCmd)
	assignmentsCmd.AddCommand(assignmentListCmd, assignmentShowCmd, assignmentAddCmd, assignmentEditCmd,
		assignmentRmCmd, assignmentCommentCmd, assignmentRmCommentCmd)

	addListFlags(assignmentListCmd)
	for _, cmd := range []*cobra.Command{assignmentAddCmd, assignmentEditCmd} {
		cmd.Flags().StringVar(&assignmentTitle, "title", "", "assignment title")
		cmd.Flags().StringVar(&assignmentDue, "due", "", "due date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&assignmentDescription, "description", "", "assignment description")
		cmd.Flags().StringSliceVar(&assignmentFiles, "file", nil, "attached file name (repeatable)")
	}
}

func assignmentKey(a models.Assignment) string { return formatID(a.ID) }

func assignmentCommentKey(c models.AssignmentComment) string { return formatID(c.ID) }

func runAssignmentList(cmd *cobra.Command, args []string) error {
	assignments, err := source().ListAssignments(cmd.Context(), listOpts)
	if err != nil {
		return err
	}
	return client.RenderAssignments(out, assignments)
}

func runAssignmentShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	src := source()

	var (
		assignment *models.Assignment
		comments   []models.AssignmentComment
	)
	err = fetchPair(cmd.Context(),
		func(ctx context.Context) (err error) {
			assignment, err = src.GetAssignment(ctx, id)
			return err
		},
		func(ctx context.Context) (err error) {
			comments, err = src.ListAssignmentComments(ctx, id)
			return err
		},
	)
	if err != nil {
		return err
	}
	return client.RenderAssignment(out, *assignment, comments)
}

func runAssignmentAdd(cmd *cobra.Command, args []string) error {
	if err := require("title", assignmentTitle, "due", assignmentDue); err != nil {
		return err
	}
	a := models.Assignment{
		Title:       assignmentTitle,
		Description: assignmentDescription,
		DueDate:     assignmentDue,
		Files:       append([]string{}, assignmentFiles...),
	}

	if isStatic() {
		if !models.ValidDate(a.DueDate) {
			return fmt.Errorf("invalid due date %q, use YYYY-MM-DD", a.DueDate)
		}
		items, err := local().ListAssignments(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		a.ID = nextID(items, func(a models.Assignment) int64 { return a.ID })
		a.CreatedAt = models.Now()
		a.UpdatedAt = a.CreatedAt
		return applyLocal(items, assignmentKey, client.Action[models.Assignment]{Kind: client.Add, Item: a}, client.RenderAssignments)
	}

	created, err := api().CreateAssignment(cmd.Context(), a)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	color.Green("Created assignment %d: %s", created.ID, created.Title)
	return nil
}

func runAssignmentEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	patch := models.AssignmentPatch{
		Title:       stringFlag(cmd, "title", assignmentTitle),
		Description: stringFlag(cmd, "description", assignmentDescription),
		DueDate:     stringFlag(cmd, "due", assignmentDue),
		Files:       listFlag(cmd, "file", assignmentFiles),
	}

	if isStatic() {
		if patch.Empty() {
			return fmt.Errorf("nothing to change")
		}
		store := local()
		a, err := store.GetAssignment(cmd.Context(), id)
		if err != nil {
			return err
		}
		items, err := store.ListAssignments(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		patch.Apply(a)
		a.UpdatedAt = models.Now()
		return applyLocal(items, assignmentKey, client.Action[models.Assignment]{Kind: client.Replace, Item: *a}, client.RenderAssignments)
	}

	fields := map[string]any{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.DueDate != nil {
		fields["dueDate"] = *patch.DueDate
	}
	if patch.Files != nil {
		fields["files"] = *patch.Files
	}
	updated, err := api().UpdateAssignment(cmd.Context(), id, fields)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	color.Green("Updated assignment %d: %s", updated.ID, updated.Title)
	return nil
}

func runAssignmentRm(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if isStatic() {
		store := local()
		if _, err := store.GetAssignment(cmd.Context(), id); err != nil {
			return err
		}
		items, err := store.ListAssignments(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		return applyLocal(items, assignmentKey, client.Action[models.Assignment]{Kind: client.Remove, Key: formatID(id)}, client.RenderAssignments)
	}

	msg, err := api().DeleteAssignment(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	color.Yellow("%s", msg)
	return nil
}

func runAssignmentComment(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	c := models.AssignmentComment{AssignmentID: id, Author: identity.Author(identityFlag), Text: args[1]}
	if c.Text == "" {
		return fmt.Errorf("comment text is required")
	}

	if isStatic() {
		store := local()
		if _, err := store.GetAssignment(cmd.Context(), id); err != nil {
			return err
		}
		comments, err := store.ListAssignmentComments(cmd.Context(), id)
		if err != nil {
			return err
		}
		c.ID = nextID(comments, func(c models.AssignmentComment) int64 { return c.ID })
		c.CreatedAt = models.Now()
		return applyLocal(comments, assignmentCommentKey, client.Action[models.AssignmentComment]{Kind: client.Add, Item: c}, client.RenderAssignmentComments)
	}

	created, err := api().CreateAssignmentComment(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	color.Green("Added comment %d as %s", created.ID, created.Author)
	return nil
}

func runAssignmentRmComment(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if isStatic() {
		store := local()
		c, err := store.GetAssignmentComment(cmd.Context(), id)
		if err != nil {
			return err
		}
		comments, err := store.ListAssignmentComments(cmd.Context(), c.AssignmentID)
		if err != nil {
			return err
		}
		return applyLocal(comments, assignmentCommentKey, client.Action[models.AssignmentComment]{Kind: client.Remove, Key: formatID(id)}, client.RenderAssignmentComments)
	}

	msg, err := api().DeleteAssignmentComment(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	color.Yellow("%s", msg)
	return nil
}
