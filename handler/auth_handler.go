package handler

import (
	"github.com/Hung484/todo-app-frontend-1234/dto"

	"github.com/spf13/cobra"
)

func loginCmd(app *App) *cobra.Command {
	var req dto.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				password, err := app.readLine("Password: ")
				if err != nil {
					return err
				}
				req.Password = password
			}
			if err := app.Session.Login(cmd.Context(), req); err != nil {
				return failed(app.Session.State().Error, err)
			}
			user := app.Session.State().User
			app.printf("Logged in as %s (%s)\n", user.Username, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (read from stdin when omitted)")
	cmd.MarkFlagRequired("email")
	return cmd
}

func registerCmd(app *App) *cobra.Command {
	var req dto.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				password, err := app.readLine("Password: ")
				if err != nil {
					return err
				}
				confirm, err := app.readLine("Confirm password: ")
				if err != nil {
					return err
				}
				req.Password, req.ConfirmPassword = password, confirm
			}
			if err := app.Session.Register(cmd.Context(), req); err != nil {
				return failed(app.Session.State().Error, err)
			}
			user := app.Session.State().User
			app.printf("Welcome, %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username (3 to 30 characters)")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password, at least 6 characters (read from stdin when omitted)")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "Repeat the password")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout(cmd.Context())
			app.printf("Logged out\n")
			return nil
		},
	}
}

func whoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := app.Session.State().User
			if user == nil {
				app.printf("Not logged in\n")
				return nil
			}
			app.printf("%s <%s> (id %s)\n", user.Username, user.Email, user.UserID)
			return nil
		},
	}
}
