package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/dto"
	"github.com/Hung484/todo-app-frontend-1234/model"
	"github.com/Hung484/todo-app-frontend-1234/usecase"

	"github.com/spf13/cobra"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime accepts RFC 3339 or a local date with optional time.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DD, \"YYYY-MM-DD HH:MM\" or RFC 3339", value)
}

func parsePriority(value string) (model.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return model.PriorityLow, nil
	case "medium":
		return model.PriorityMedium, nil
	case "high":
		return model.PriorityHigh, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || !model.Priority(n).Valid() {
		return 0, fmt.Errorf("invalid priority %q: use low, medium, high or 1-3", value)
	}
	return model.Priority(n), nil
}

func parseStatus(value string) (model.TaskStatus, error) {
	status := model.TaskStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q: use one of %s", value, statusNames())
	}
	return status, nil
}

func statusNames() string {
	names := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func tasksCmd(app *App) *cobra.Command {
	var (
		filter    string
		showStats bool
	)

	cmd := &cobra.Command{
		Use:   "tasks <listId>",
		Short: "Show the tasks of a todo list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			if filter != usecase.FilterAll {
				if _, err := parseStatus(filter); err != nil {
					return err
				}
			}

			board := usecase.NewTaskBoard(args[0], app.Lists, app.Tasks)
			if err := board.Refresh(cmd.Context()); err != nil {
				return failed(board.Error(), err)
			}
			printTasks(app.Out, board.List(), board.Tasks(filter))
			if showStats {
				printStats(app.Out, board.Stats(time.Now()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "status", "s", usecase.FilterAll, "Show only tasks with this status (all, "+statusNames()+")")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print a summary after the tasks")

	cmd.AddCommand(
		addTaskCmd(app),
		updateTaskCmd(app),
		setStatusCmd(app),
		deleteTaskCmd(app),
	)
	return cmd
}

func addTaskCmd(app *App) *cobra.Command {
	var (
		description  string
		due          string
		priority     string
		reminder     string
		reminderType string
	)

	cmd := &cobra.Command{
		Use:   "add <listId> <title>",
		Short: "Add a task to a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			req := dto.CreateTaskRequest{Title: args[1], Description: description}

			if due != "" {
				t, err := parseTime(due)
				if err != nil {
					return err
				}
				req.DueDate = &t
			}
			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				req.Priority = p
			}
			if reminder != "" {
				t, err := parseTime(reminder)
				if err != nil {
					return err
				}
				req.ReminderTime = &t
			}
			if reminderType != "" {
				rt := model.ReminderType(reminderType)
				req.ReminderType = &rt
			}

			board := usecase.NewTaskBoard(args[0], app.Lists, app.Tasks)
			task, err := board.Create(cmd.Context(), req)
			if err != nil {
				return failed(board.Error(), err)
			}
			printTask(app.Out, "Added", task)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVar(&reminder, "reminder", "", "Reminder time, before the due date")
	cmd.Flags().StringVar(&reminderType, "reminder-type", "", "push or email (default push)")
	return cmd
}

func updateTaskCmd(app *App) *cobra.Command {
	var (
		title         string
		description   string
		due           string
		clearDue      bool
		priority      string
		reminder      string
		clearReminder bool
		reminderType  string
	)

	cmd := &cobra.Command{
		Use:   "update <listId> <taskId>",
		Short: "Change some fields of a task",
		Long:  "Change some fields of a task. Fields whose flags are not given keep their current value.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			flags := cmd.Flags()
			var req dto.UpdateTaskRequest

			if flags.Changed("title") {
				req.Title = dto.Set(title)
			}
			if flags.Changed("description") {
				req.Description = dto.Set(description)
			}
			switch {
			case clearDue && flags.Changed("due"):
				return fmt.Errorf("--due and --clear-due cannot be combined")
			case clearDue:
				req.DueDate = dto.Null[time.Time]()
			case flags.Changed("due"):
				t, err := parseTime(due)
				if err != nil {
					return err
				}
				req.DueDate = dto.Set(t)
			}
			if flags.Changed("priority") {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				req.Priority = dto.Set(p)
			}
			switch {
			case clearReminder && flags.Changed("reminder"):
				return fmt.Errorf("--reminder and --clear-reminder cannot be combined")
			case clearReminder:
				req.ReminderTime = dto.Null[time.Time]()
			case flags.Changed("reminder"):
				t, err := parseTime(reminder)
				if err != nil {
					return err
				}
				req.ReminderTime = dto.Set(t)
			}
			if flags.Changed("reminder-type") {
				req.ReminderType = dto.Set(model.ReminderType(reminderType))
			}

			board := usecase.NewTaskBoard(args[0], app.Lists, app.Tasks)
			task, err := board.Update(cmd.Context(), args[1], req)
			if err != nil {
				return failed(board.Error(), err)
			}
			printTask(app.Out, "Updated", task)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&due, "due", "", "New due date")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVar(&reminder, "reminder", "", "New reminder time")
	cmd.Flags().BoolVar(&clearReminder, "clear-reminder", false, "Remove the reminder")
	cmd.Flags().StringVar(&reminderType, "reminder-type", "", "push or email")
	return cmd
}

func setStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <listId> <taskId> <status>",
		Short: "Move a task to another status",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			status, err := parseStatus(args[2])
			if err != nil {
				return err
			}
			board := usecase.NewTaskBoard(args[0], app.Lists, app.Tasks)
			task, err := board.SetStatus(cmd.Context(), args[1], status)
			if err != nil {
				return failed(board.Error(), err)
			}
			printTask(app.Out, "Updated", task)
			return nil
		},
	}
}

func deleteTaskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <listId> <taskId>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSession(); err != nil {
				return err
			}
			board := usecase.NewTaskBoard(args[0], app.Lists, app.Tasks)
			if err := board.Remove(cmd.Context(), args[1]); err != nil {
				return failed(board.Error(), err)
			}
			app.printf("Deleted task %s\n", args[1])
			return nil
		},
	}
}
