package handler

import (
	"github.com/Hung484/todo-app-frontend-1234/usecase"

	"github.com/spf13/cobra"
)

func listsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show your todo lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			board := usecase.NewListBoard(app.Lists)
			if err := board.Refresh(cmd.Context()); err != nil {
				return failed(board.Error(), err)
			}
			printLists(app.Out, board.Lists())
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <title>",
			Short: "Create a todo list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireSession(); err != nil {
					return err
				}
				board := usecase.NewListBoard(app.Lists)
				list, err := board.Create(cmd.Context(), args[0])
				if err != nil {
					return failed(board.Error(), err)
				}
				app.printf("Created list %s %q\n", list.ListID, list.Title)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <listId> <title>",
			Short: "Rename a todo list",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireSession(); err != nil {
					return err
				}
				board := usecase.NewListBoard(app.Lists)
				list, err := board.Rename(cmd.Context(), args[0], args[1])
				if err != nil {
					return failed(board.Error(), err)
				}
				app.printf("Renamed list %s to %q\n", list.ListID, list.Title)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <listId>",
			Short: "Delete a todo list and its tasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.requireSession(); err != nil {
					return err
				}
				board := usecase.NewListBoard(app.Lists)
				if err := board.Remove(cmd.Context(), args[0]); err != nil {
					return failed(board.Error(), err)
				}
				app.printf("Deleted list %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
