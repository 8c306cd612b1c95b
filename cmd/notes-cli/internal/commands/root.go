package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the notes-cli command tree
func NewRootCommand() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "notes-cli",
		Short: "Operator tool for the notes account service",
		Long: `notes-cli runs maintenance tasks against the database of the notes REST API.
It migrates the schema, bootstraps admin accounts, hashes passwords and issues
access tokens for debugging. It reads the same configuration file as the REST API,
selected with --config or the CONFIG_PATH environment variable.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String(ConfigFlag, DefaultConfigPath(), "Path to the configuration file")

	if err := InitUserCommands(rootCmd); err != nil {
		return nil, fmt.Errorf("failed to initialize user commands: %w", err)
	}
	if err := InitPasswordCommands(rootCmd); err != nil {
		return nil, fmt.Errorf("failed to initialize password commands: %w", err)
	}
	if err := InitTokenCommands(rootCmd); err != nil {
		return nil, fmt.Errorf("failed to initialize token commands: %w", err)
	}

	return rootCmd, nil
}
