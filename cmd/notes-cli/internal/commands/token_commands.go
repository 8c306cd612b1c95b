package commands

import (
	"fmt"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/cryptography"

	"github.com/spf13/cobra"
)

func tokenManager(cmd *cobra.Command) (users.TokenManager, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	tokens, err := cryptography.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenMaxAge())
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}
	return tokens, nil
}

// IssueTokenCmd prints an access token for a subject, signed with the configured secret
func IssueTokenCmd(cmd *cobra.Command, _ []string) error {
	subject, _ := cmd.Flags().GetString("subject")

	tokens, err := tokenManager(cmd)
	if err != nil {
		return err
	}

	token, err := tokens.Create(subject)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

// DecodeTokenCmd validates an access token and prints its subject
func DecodeTokenCmd(cmd *cobra.Command, _ []string) error {
	token, _ := cmd.Flags().GetString("token")

	tokens, err := tokenManager(cmd)
	if err != nil {
		return err
	}

	subject, err := tokens.Decode(token)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), subject)
	return nil
}

// InitTokenCommands registers the token command group
func InitTokenCommands(rootCmd *cobra.Command) error {
	var tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue and decode access tokens",
	}

	var issueCmd = &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for a user id",
		Args:  cobra.NoArgs,
		RunE:  IssueTokenCmd,
	}
	issueCmd.Flags().String("subject", "", "User id carried in the sub claim")
	if err := issueCmd.MarkFlagRequired("subject"); err != nil {
		return err
	}
	tokenCmd.AddCommand(issueCmd)

	var decodeCmd = &cobra.Command{
		Use:   "decode",
		Short: "Validate an access token and print its subject",
		Args:  cobra.NoArgs,
		RunE:  DecodeTokenCmd,
	}
	decodeCmd.Flags().String("token", "", "Access token to decode")
	if err := decodeCmd.MarkFlagRequired("token"); err != nil {
		return err
	}
	tokenCmd.AddCommand(decodeCmd)

	rootCmd.AddCommand(tokenCmd)
	return nil
}
