package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yapress/yapress/internal/repository"
	"github.com/yapress/yapress/internal/service"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var password string
	create := &cobra.Command{
		Use:   "create USERNAME",
		Short: "Create an account",
		Long: `Create an account with the same rules as the signup page.
The password is read from --password or, when that is empty, from the first line of stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireDatabase(); err != nil {
				return err
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("password is required")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			repo, err := repository.New(cmd.Context(), a.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %s", sanitizeError(err, a.cfg.DatabaseURL))
			}
			defer repo.Close()

			return createUser(cmd, service.NewUserService(repo, nil), args[0], password)
		},
	}
	create.Flags().StringVar(&password, "password", "", "account password")

	cmd.AddCommand(create)
	return cmd
}

// createUser signs up username and prints the new account id.
func createUser(cmd *cobra.Command, users *service.UserService, username, password string) error {
	user, err := users.Signup(cmd.Context(), service.SignupInput{
		Username:  username,
		Password1: password,
		Password2: password,
	})
	if err != nil {
		return fmt.Errorf("create user %q: %w", username, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
	return nil
}
