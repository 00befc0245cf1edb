package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"coursehub-server-go/client"
	"coursehub-server-go/identity"
	"coursehub-server-go/models"
)

var topicsCmd = &cobra.Command{
	Use:     "topics",
	Aliases: []string{"topic", "discussion"},
	Short:   "Manage discussion topics and replies",
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discussion topics",
	Args:  cobra.NoArgs,
	RunE:  runTopicList,
}

var topicShowCmd = &cobra.Command{
	Use:   "show <topic-id>",
	Short: "Show a topic with its replies",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicShow,
}

var topicAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Start a discussion topic",
	Args:  cobra.NoArgs,
	RunE:  runTopicAdd,
}

var topicEditCmd = &cobra.Command{
	Use:   "edit <topic-id>",
	Short: "Change the subject or message of a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicEdit,
}

var topicRmCmd = &cobra.Command{
	Use:   "rm <topic-id>",
	Short: "Delete a topic and its replies",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicRm,
}

var topicReplyCmd = &cobra.Command{
	Use:   "reply <topic-id> <text>",
	Short: "Reply to a topic",
	Args:  cobra.ExactArgs(2),
	RunE:  runTopicReply,
}

var topicRmReplyCmd = &cobra.Command{
	Use:   "rm-reply <reply-id>",
	Short: "Delete a reply",
	Args:  cobra.ExactArgs(1),
	RunE:  runTopicRmReply,
}

var (
	topicSubject string
	topicMessage string
)

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.AddCommand(topicListCmd, topicShowCmd, topicAddCmd, topicEditCmd,
		topicRmCmd, topicReplyCmd, topicRmReplyCmd)

	addListFlags(topicListCmd)
	for _, cmd := range []*cobra.Command{topicAddCmd, topicEditCmd} {
		cmd.Flags().StringVar(&topicSubject, "subject", "", "topic subject")
		cmd.Flags().StringVar(&topicMessage, "message", "", "opening message")
	}
}

func topicKey(t models.Topic) string { return t.ID }

func replyKey(r models.Reply) string { return r.ID }

func newTopicID() string { return "topic_" + uuid.NewString() }

func newReplyID() string { return "reply_" + uuid.NewString() }

func runTopicList(cmd *cobra.Command, args []string) error {
	topics, err := source().ListTopics(cmd.Context(), listOpts)
	if err != nil {
		return err
	}
	return client.RenderTopics(out, topics)
}

func runTopicShow(cmd *cobra.Command, args []string) error {
	src := source()

	var (
		topic   *models.Topic
		replies []models.Reply
	)
	err := fetchPair(cmd.Context(),
		func(ctx context.Context) (err error) {
			topic, err = src.GetTopic(ctx, args[0])
			return err
		},
		func(ctx context.Context) (err error) {
			replies, err = src.ListReplies(ctx, args[0])
			return err
		},
	)
	if err != nil {
		return err
	}
	return client.RenderTopic(out, *topic, replies)
}

func runTopicAdd(cmd *cobra.Command, args []string) error {
	if err := require("subject", topicSubject, "message", topicMessage); err != nil {
		return err
	}
	t := models.Topic{
		ID:      newTopicID(),
		Subject: topicSubject,
		Message: topicMessage,
		Author:  identity.Author(identityFlag),
	}

	if isStatic() {
		items, err := local().ListTopics(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		t.CreatedAt = models.Now()
		return applyLocal(items, topicKey, client.Action[models.Topic]{Kind: client.Add, Item: t}, client.RenderTopics)
	}

	created, err := api().CreateTopic(cmd.Context(), t)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	color.Green("Created topic: %s", created.Subject)
	fmt.Fprintf(out, "ID: %s\n", created.ID)
	return nil
}

func runTopicEdit(cmd *cobra.Command, args []string) error {
	patch := models.TopicPatch{
		Subject: stringFlag(cmd, "subject", topicSubject),
		Message: stringFlag(cmd, "message", topicMessage),
	}

	if isStatic() {
		if patch.Empty() {
			return fmt.Errorf("nothing to change")
		}
		store := local()
		t, err := store.GetTopic(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		items, err := store.ListTopics(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		patch.Apply(t)
		return applyLocal(items, topicKey, client.Action[models.Topic]{Kind: client.Replace, Item: *t}, client.RenderTopics)
	}

	fields := map[string]any{}
	if patch.Subject != nil {
		fields["subject"] = *patch.Subject
	}
	if patch.Message != nil {
		fields["message"] = *patch.Message
	}
	updated, err := api().UpdateTopic(cmd.Context(), args[0], fields)
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	color.Green("Updated topic: %s", updated.Subject)
	return nil
}

func runTopicRm(cmd *cobra.Command, args []string) error {
	if isStatic() {
		store := local()
		if _, err := store.GetTopic(cmd.Context(), args[0]); err != nil {
			return err
		}
		items, err := store.ListTopics(cmd.Context(), models.ListQuery{})
		if err != nil {
			return err
		}
		return applyLocal(items, topicKey, client.Action[models.Topic]{Kind: client.Remove, Key: args[0]}, client.RenderTopics)
	}

	msg, err := api().DeleteTopic(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	color.Yellow("%s", msg)
	return nil
}

func runTopicReply(cmd *cobra.Command, args []string) error {
	r := models.Reply{ID: newReplyID(), TopicID: args[0], Text: args[1], Author: identity.Author(identityFlag)}
	if r.Text == "" {
		return fmt.Errorf("reply text is required")
	}

	if isStatic() {
		store := local()
		if _, err := store.GetTopic(cmd.Context(), r.TopicID); err != nil {
			return err
		}
		replies, err := store.ListReplies(cmd.Context(), r.TopicID)
		if err != nil {
			return err
		}
		r.CreatedAt = models.Now()
		return applyLocal(replies, replyKey, client.Action[models.Reply]{Kind: client.Add, Item: r}, client.RenderReplies)
	}

	created, err := api().CreateReply(cmd.Context(), r)
	if err != nil {
		return fmt.Errorf("failed to reply: %w", err)
	}
	color.Green("Replied to %s as %s", created.TopicID, created.Author)
	fmt.Fprintf(out, "ID: %s\n", created.ID)
	return nil
}

func runTopicRmReply(cmd *cobra.Command, args []string) error {
	if isStatic() {
		store := local()
		r, err := store.GetReply(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		replies, err := store.ListReplies(cmd.Context(), r.TopicID)
		if err != nil {
			return err
		}
		return applyLocal(replies, replyKey, client.Action[models.Reply]{Kind: client.Remove, Key: args[0]}, client.RenderReplies)
	}

	msg, err := api().DeleteReply(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete reply: %w", err)
	}
	color.Yellow("%s", msg)
	return nil
}
