package handler

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Hung484/todo-app-frontend-1234/model"
)

const dateLayout = "2006-01-02 15:04"

func printLists(w io.Writer, lists []model.TodoList) {
	if len(lists) == 0 {
		fmt.Fprintln(w, "No todo lists yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCREATED")
	for _, l := range lists {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.ListID, l.Title, l.CreatedAt.Local().Format(dateLayout))
	}
	tw.Flush()
}

func printTasks(w io.Writer, list *model.TodoList, tasks []model.Task) {
	if list != nil {
		fmt.Fprintf(w, "%s\n\n", list.Title)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE\tREMINDER")
	for _, t := range tasks {
		reminder := "-"
		if t.Reminder != nil {
			reminder = fmt.Sprintf("%s (%s)", formatTime(&t.Reminder.ReminderTime), t.Reminder.Type)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.TaskID, t.Title, t.Status, t.Priority, formatTime(t.DueDate), reminder)
	}
	tw.Flush()
}

func printTask(w io.Writer, verb string, t *model.Task) {
	fmt.Fprintf(w, "%s task %s %q [%s, %s priority, due %s]\n",
		verb, t.TaskID, t.Title, t.Status, t.Priority, formatTime(t.DueDate))
}

func printStats(w io.Writer, s model.TaskStats) {
	fmt.Fprintf(w, "\n%d tasks: %d pending, %d in progress, %d completed, %d cancelled\n",
		s.Total, s.Pending, s.InProgress, s.Completed, s.Cancelled)
	fmt.Fprintf(w, "%d overdue, %d due today, %d due this week, %d with reminders\n",
		s.Overdue, s.DueToday, s.Upcoming, s.WithReminders)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
