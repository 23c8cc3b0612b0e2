package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/view"
)

var (
	baseURL string
	token   string
	verbose bool

	api    *client.Client
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "planner",
	Short:         "Notes, calendar and diet tracking from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		var out io.Writer = io.Discard
		if verbose {
			level = slog.LevelDebug
			out = os.Stderr
		}
		logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

		godotenv.Load()
		if baseURL == "" {
			baseURL = envOr("PLANNER_URL", "http://localhost:8080")
		}
		if token == "" {
			token = os.Getenv("PLANNER_TOKEN")
		}
		if token == "" {
			token = readSavedToken()
		}
		api = client.New(baseURL, token)
		return nil
	},
}

// Execute runs the root command and prints any error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			err = fmt.Errorf("%w: run `planner login` first", err)
		}
		fmt.Fprintln(os.Stderr, view.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "planner server URL (default $PLANNER_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "session token (default $PLANNER_TOKEN or the saved login)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log client activity to stderr")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "planner", "token"), nil
}

func readSavedToken() string {
	path, err := tokenPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func saveToken(t string) error {
	path, err := tokenPath()
	if err != nil {
		return fmt.Errorf("locate config dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, []byte(t+"\n"), 0o600)
}

// screenErr turns a failed screen mutation into the notice it recorded.
func screenErr(notice string, err error) error {
	if err == nil {
		return nil
	}
	if notice != "" {
		return errors.New(notice)
	}
	return err
}
