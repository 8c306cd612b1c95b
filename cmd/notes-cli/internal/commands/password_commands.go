package commands

import (
	"fmt"

	"github.com/MGTheTrain/notes-app/internal/domain/users"
	"github.com/MGTheTrain/notes-app/internal/infrastructure/cryptography"

	"github.com/spf13/cobra"
)

// PasswordCommandHandler encapsulates the password hashing commands
type PasswordCommandHandler struct {
	hasher users.PasswordHasher
}

// NewPasswordCommandHandler initializes a PasswordCommandHandler with the production argon2 parameters
func NewPasswordCommandHandler() (*PasswordCommandHandler, error) {
	loggerInstance, err := setupLogger(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	hasher, err := cryptography.NewArgon2Hasher(cryptography.DefaultArgon2Params(), loggerInstance)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	return &PasswordCommandHandler{hasher: hasher}, nil
}

// HashCmd prints the PHC hash of a password
func (commandHandler *PasswordCommandHandler) HashCmd(cmd *cobra.Command, _ []string) error {
	password, _ := cmd.Flags().GetString("password")

	hash, err := commandHandler.hasher.Hash(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

// VerifyCmd checks a password against a PHC hash
func (commandHandler *PasswordCommandHandler) VerifyCmd(cmd *cobra.Command, _ []string) error {
	password, _ := cmd.Flags().GetString("password")
	hash, _ := cmd.Flags().GetString("hash")

	ok, err := commandHandler.hasher.Compare(password, hash)
	if err != nil {
		return err
	}
	if !ok {
		return users.ErrWrongCredentials
	}

	fmt.Fprintln(cmd.OutOrStdout(), "password matches")
	return nil
}

// InitPasswordCommands registers the password command group
func InitPasswordCommands(rootCmd *cobra.Command) error {
	handler, err := NewPasswordCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create password command handler: %w", err)
	}

	var passwordCmd = &cobra.Command{
		Use:   "password",
		Short: "Hash and verify passwords",
	}

	var hashCmd = &cobra.Command{
		Use:   "hash",
		Short: "Print the argon2id hash of a password",
		Args:  cobra.NoArgs,
		RunE:  handler.HashCmd,
	}
	hashCmd.Flags().String("password", "", "Password to hash")
	if err := hashCmd.MarkFlagRequired("password"); err != nil {
		return err
	}
	passwordCmd.AddCommand(hashCmd)

	var verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check a password against an argon2id hash",
		Args:  cobra.NoArgs,
		RunE:  handler.VerifyCmd,
	}
	verifyCmd.Flags().String("password", "", "Password to check")
	verifyCmd.Flags().String("hash", "", "PHC formatted hash")
	for _, flag := range []string{"password", "hash"} {
		if err := verifyCmd.MarkFlagRequired(flag); err != nil {
			return err
		}
	}
	passwordCmd.AddCommand(verifyCmd)

	rootCmd.AddCommand(passwordCmd)
	return nil
}
