package handler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Hung484/todo-app-frontend-1234/services"
	"github.com/Hung484/todo-app-frontend-1234/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App is what every command needs. main builds one and hands it to
// NewRootCommand.
type App struct {
	Session *usecase.SessionController
	Lists   *services.ListService
	Tasks   *services.TaskService
	Logger  *zap.Logger

	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// ErrNotLoggedIn is returned by commands that need a session when there is none.
var ErrNotLoggedIn = errors.New("not logged in; run \"todo login\" first")

// displayError carries the message shown to the user while keeping the
// underlying error for errors.Is.
type displayError struct {
	msg string
	err error
}

func (e *displayError) Error() string { return e.msg }
func (e *displayError) Unwrap() error { return e.err }

func failed(msg string, err error) error {
	if msg == "" {
		msg = err.Error()
	}
	return &displayError{msg: msg, err: err}
}

// NewRootCommand builds the CLI. The stored session is validated before
// any subcommand runs.
func NewRootCommand(app *App) *cobra.Command {
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}
	if app.In == nil {
		app.In = os.Stdin
	}
	if app.Out == nil {
		app.Out = os.Stdout
	}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Manage todo lists and tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Bootstrap(cmd.Context())
			return nil
		},
	}
	root.SetOut(app.Out)

	root.AddCommand(
		loginCmd(app),
		registerCmd(app),
		logoutCmd(app),
		whoamiCmd(app),
		listsCmd(app),
		tasksCmd(app),
	)
	return root
}

func (a *App) requireSession() error {
	if !a.Session.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// readLine reads one line from In, for values not given as flags.
func (a *App) readLine(prompt string) (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	fmt.Fprint(a.Out, prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.Out, format, args...)
}
