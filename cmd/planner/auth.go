package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/view"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in and save the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		res, err := api.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		return finishAuth(res, "Signed in as ")
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <email> <name>",
	Short: "Create an account and save the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		res, err := api.Register(cmd.Context(), args[0], password, args[1])
		if err != nil {
			return err
		}
		return finishAuth(res, "Registered ")
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.Logout(cmd.Context()); err != nil {
			return err
		}
		if err := saveToken(""); err != nil {
			return err
		}
		fmt.Println(view.Success("Signed out"))
		return nil
	},
}

func finishAuth(res *client.AuthResult, verb string) error {
	if err := saveToken(res.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Println(view.Success(verb + res.User.Email))
	return nil
}

// readPassword takes --password, or one line from stdin.
func readPassword(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().String("password", "", "account password (prompted when empty)")
	registerCmd.Flags().String("password", "", "account password (prompted when empty)")
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}
