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

var weeksCmd = &cobra.Command{
	Use:     "weeks",
	Aliases: []string{"week", "weekly"},
	Short:   "Manage weekly schedule entries and their comments",
}

var weekListCmd = &cobra.Command{
	Use:   "list",
	Short: "List weeks",
	Args:  cobra.NoArgs,
	RunE:  runWeekList,
}

var weekShowCmd = &cobra.Command{
	Use:   "show <week-id>",
	Short: "Show a week with its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeekShow,
}

var weekAddCmd = &cobra.Command{
	Use:   "add <week-id>",
	Short: "Create a week",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeekAdd,
}

var weekEditCmd = &cobra.Command{
	Use:   "edit <week-id>",
	Short: "Change fields of a week",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeekEdit,
}

var weekRmCmd = &cobra.Command{
	Use:   "rm <week-id>",
	Short: "Delete a week and its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeekRm,
}

var weekCommentCmd = &cobra.Command{
	Use:   "comment <week-id> <text>",
	Short: "Ask a question or comment on a week",
	Args:  cobra.ExactArgs(2),
	RunE:  runWeekComment,
}

var weekRmCommentCmd = &cobra.Command{
	Use:   "rm-comment <comment-id>",
	Short: "Delete a week comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runWeekRmComment,
}

var (
	weekTitle       string
	weekStart       string
	weekDescription string
	weekLinks       []string
)

func init() {
	rootCmd.AddCommand(weeksCmd)
	weeksCmd.AddCommand(weekListCmd, weekShowCmd, weekAddCmd, weekEditCmd,
		weekRmCmd, weekCommentCmd, weekRmCommentCmd)

	addListFlags(weekListCmd)
	for _, cmd := range []*cobra.Command{weekAddCmd, weekEditCmd} {
		cmd.Flags().StringVar(&weekTitle, "title", "", "week title")
		cmd.Flags().StringVar(&weekStart, "start", "", "start date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&weekDescription, "description", "", "week description")
		cmd.Flags().StringSliceVar(&weekLinks, "link", nil, "resource URL (repeatable)")
	}
}

func weekKey(w models.Week) string { return w.ID }

func weekCommentKey(c models.WeekComment) string { return formatID(c.ID) }

func runWeekList(cmd *cobra.Command, args []string) error {
	weeks, err := source().ListWeeks(cmd.Context(), listOpts)
	if err != nil {
		return err
	}
	return client.RenderWeeks(out, weeks)
}

func runWeekShow(cmd *cobra.Command, args []string) error {
	src := source()

	var (
		week     *models.Week
		comments []models.WeekComment
	)
	err := fetchPair(cmd.Context(),
		func(ctx context.Context) (err error) {
			week, err = src.GetWeek(ctx, args[0])
			return err
		},
		func(ctx context.Context) (err error) {
			comments, err = src.ListWeekComments(ctx, args[0])
			return err
		},
	)
	if err != nil {
		return err
	}
	return client.RenderWeek(out, *week, comments)
}

func runWeekAdd(cmd *cobra.Command, args []string) error {
	if err := require("title", weekTitle, "start", weekStart); err != nil {
		return err
	}
	w := models.Week{
		ID:          args[0],
		Title:       weekTitle,
		StartDate:   weekStart,
		Description: weekDescription,
		Links:       append([]string{}, weekLinks...),
	}

	if isStatic() {
		if !models.ValidDate(w.StartDate) {
			return fmt.Errorf("invalid start date %q, use YYYY-MM-DD", w.StartDate)
		}
		store := local()
		if _, err := store.GetWeek(cmd.Context(), w.ID); err == nil {
			return fmt.Errorf("week %s already exists", w.ID)
		}
		items, err := store.ListWeeks(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		return applyLocal(items, weekKey, client.Action[models.Week]{Kind: client.Add, Item: w}, client.RenderWeeks)
	}

	created, err := api().CreateWeek(cmd.Context(), w)
	if err != nil {
		return fmt.Errorf("failed to create week: %w", err)
	}
	color.Green("Created week %s: %s", created.ID, created.Title)
	return nil
}

func runWeekEdit(cmd *cobra.Command, args []string) error {
	patch := models.WeekPatch{
		Title:       stringFlag(cmd, "title", weekTitle),
		StartDate:   stringFlag(cmd, "start", weekStart),
		Description: stringFlag(cmd, "description", weekDescription),
		Links:       listFlag(cmd, "link", weekLinks),
	}

	if isStatic() {
		if patch.Empty() {
			return fmt.Errorf("nothing to change")
		}
		store := local()
		w, err := store.GetWeek(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		items, err := store.ListWeeks(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		patch.Apply(w)
		return applyLocal(items, weekKey, client.Action[models.Week]{Kind: client.Replace, Item: *w}, client.RenderWeeks)
	}

	fields := map[string]any{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.StartDate != nil {
		fields["startDate"] = *patch.StartDate
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Links != nil {
		fields["links"] = *patch.Links
	}
	updated, err := api().UpdateWeek(cmd.Context(), args[0], fields)
	if err != nil {
		return fmt.Errorf("failed to update week: %w", err)
	}
	color.Green("Updated week %s: %s", updated.ID, updated.Title)
	return nil
}

func runWeekRm(cmd *cobra.Command, args []string) error {
	if isStatic() {
		store := local()
		if _, err := store.GetWeek(cmd.Context(), args[0]); err != nil {
			return err
		}
		items, err := store.ListWeeks(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		return applyLocal(items, weekKey, client.Action[models.Week]{Kind: client.Remove, Key: args[0]}, client.RenderWeeks)
	}

	msg, err := api().DeleteWeek(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete week: %w", err)
	}
	color.Yellow("%s", msg)
	return nil
}

func runWeekComment(cmd *cobra.Command, args []string) error {
	c := models.WeekComment{WeekID: args[0], Author: identity.Author(identityFlag), Text: args[1]}
	if c.Text == "" {
		return fmt.Errorf("comment text is required")
	}

	if isStatic() {
		store := local()
		if _, err := store.GetWeek(cmd.Context(), c.WeekID); err != nil {
			return err
		}
		comments, err := store.ListWeekComments(cmd.Context(), c.WeekID)
		if err != nil {
			return err
		}
		c.ID = nextID(comments, func(c models.WeekComment) int64 { return c.ID })
		c.CreatedAt = models.Now()
		return applyLocal(comments, weekCommentKey, client.Action[models.WeekComment]{Kind: client.Add, Item: c}, client.RenderWeekComments)
	}

	created, err := api().CreateWeekComment(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	color.Green("Added comment %d as %s", created.ID, created.Author)
	return nil
}

func runWeekRmComment(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if isStatic() {
		store := local()
		c, err := store.GetWeekComment(cmd.Context(), id)
		if err != nil {
			return err
		}
		comments, err := store.ListWeekComments(cmd.Context(), c.WeekID)
		if err != nil {
			return err
		}
		return applyLocal(comments, weekCommentKey, client.Action[models.WeekComment]{Kind: client.Remove, Key: formatID(id)}, client.RenderWeekComments)
	}

	msg, err := api().DeleteWeekComment(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	color.Yellow("%s", msg)
	return nil
}
