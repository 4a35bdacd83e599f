package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTransformCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Convert a task, ticket or project into another kind",
		Long: `Each conversion creates the new entity, moves the children that fit,
and deletes the source in one transaction. The Inbox (project 1) is never converted.

Example:
  taskflow transform task-to-ticket 12
  taskflow transform ticket-to-task 7 --target 3`,
	}

	cmd.AddCommand(
		transformCmd("task-to-ticket", "Promote a task to a ticket", func(ctx context.Context, id int64) (any, error) {
			return c.services.Transform.TaskToTicket(ctx, id)
		}),
		transformCmd("task-to-project", "Promote a task to a project", func(ctx context.Context, id int64) (any, error) {
			return c.services.Transform.TaskToProject(ctx, id)
		}),
		targetedTransformCmd("ticket-to-task", "Demote a ticket to a task of the target ticket", func(ctx context.Context, id, target int64) (any, error) {
			return c.services.Transform.TicketToTask(ctx, id, target)
		}),
		transformCmd("ticket-to-project", "Promote a ticket to a project", func(ctx context.Context, id int64) (any, error) {
			return c.services.Transform.TicketToProject(ctx, id)
		}),
		transformCmd("project-to-ticket", "Demote a project to an Inbox ticket", func(ctx context.Context, id int64) (any, error) {
			return c.services.Transform.ProjectToTicket(ctx, id)
		}),
		targetedTransformCmd("project-to-task", "Demote a project to a task of the target ticket", func(ctx context.Context, id, target int64) (any, error) {
			return c.services.Transform.ProjectToTask(ctx, id, target)
		}),
	)
	return cmd
}

func transformCmd(name, short string, run func(ctx context.Context, id int64) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			result, err := run(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("%s %d: %w", name, id, err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func targetedTransformCmd(name, short string, run func(ctx context.Context, id, target int64) (any, error)) *cobra.Command {
	var target int64
	cmd := &cobra.Command{
		Use:   name + " <id> --target <ticket-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			result, err := run(cmd.Context(), id, target)
			if err != nil {
				return fmt.Errorf("%s %d: %w", name, id, err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().Int64Var(&target, "target", 0, "ticket receiving the new task")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
