package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"coursehub-server-go/client"
	"coursehub-server-go/models"
)

var listOpts models.ListQuery

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&listOpts.Search, "search", "", "case-insensitive text filter")
	cmd.Flags().StringVar(&listOpts.Sort, "sort", "", "sort field")
	cmd.Flags().StringVar(&listOpts.Order, "order", "", "asc or desc")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", raw)
	}
	return id, nil
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// fetchPair runs two independent reads and waits for both.
func fetchPair(ctx context.Context, first, second func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return first(ctx) })
	g.Go(func() error { return second(ctx) })
	return g.Wait()
}

// applyLocal runs one static-mode change through a client.List and prints
// the resulting list. Nothing is written back to disk.
func applyLocal[T any](items []T, key func(T) string, a client.Action[T], render func(io.Writer, []T) error) error {
	list := client.NewList(key)
	list.Dispatch(client.Action[T]{Kind: client.Load, Items: items})

	var renderErr error
	unsubscribe := list.Subscribe(func(items []T) {
		renderErr = render(out, items)
	})
	defer unsubscribe()

	list.Dispatch(a)
	if renderErr != nil {
		return renderErr
	}
	color.Yellow("Static mode: change applied locally, not saved.")
	return nil
}

func nextID[T any](items []T, id func(T) int64) int64 {
	var max int64
	for _, item := range items {
		if v := id(item); v > max {
			max = v
		}
	}
	return max + 1
}

// stringFlag returns a pointer to the flag value when the user set it.
func stringFlag(cmd *cobra.Command, name string, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func listFlag(cmd *cobra.Command, name string, value []string) *[]string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	out := append([]string{}, value...)
	return &out
}

// require takes flag name and value pairs.
func require(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("--%s is required", pairs[i])
		}
	}
	return nil
}
