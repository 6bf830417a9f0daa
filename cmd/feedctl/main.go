package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tendant/simple-feed/pkg/simplefeed"
	"github.com/tendant/simple-feed/pkg/simplefeed/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	rootCmd := NewRootCommand(serviceFromEnv)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ServiceFactory builds the service a command runs against.
type ServiceFactory func(cmd *cobra.Command) (simplefeed.Service, error)

// serviceFromEnv builds the service from DATABASE_URL and friends.
// With the default memory backend, state lives only for the duration of one command.
func serviceFromEnv(cmd *cobra.Command) (simplefeed.Service, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(config.WithEnv(""), config.WithEventLogging(verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		slog.Info("Initializing simplefeed service", "database", cfg.DatabaseType, "schema", cfg.DBSchema)
	}
	return cfg.BuildService()
}

func NewRootCommand(newService ServiceFactory) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "feedctl",
		Short: "Simple Feed CLI - users, follows, posts and likes",
		Long: `Simple Feed Command Line Interface

Drives the simplefeed service directly, without going through HTTP.

DATABASE_URL selects the backend: "memory" (default) or a postgres:// URL.
Configuration can also be loaded from a .env file in the current directory.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewUserCommand(newService))
	rootCmd.AddCommand(NewPostCommand(newService))

	return rootCmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
