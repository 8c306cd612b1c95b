package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/MGTheTrain/notes-app/internal/domain/users"

	"github.com/spf13/cobra"
)

// MigrateCmd creates or updates the database schema
func MigrateCmd(cmd *cobra.Command, _ []string) error {
	env, err := openEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	env.logger.Info("Database migrations completed successfully")
	fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
	return nil
}

// CreateAdminCmd creates a verified account holding the admin role
func CreateAdminCmd(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	env, err := openEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	admin, err := env.userService.CreateAdmin(commandContext(cmd), name, email, password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID)
	return nil
}

// SetRoleCmd changes the role of an existing user
func SetRoleCmd(cmd *cobra.Command, _ []string) error {
	id, _ := cmd.Flags().GetString("id")
	roleFlag, _ := cmd.Flags().GetString("role")

	role, err := users.ParseRole(roleFlag)
	if err != nil {
		return err
	}

	env, err := openEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	user, err := env.userService.UpdateRole(commandContext(cmd), id, role)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
	return nil
}

// ListUsersCmd prints one page of users as a table
func ListUsersCmd(cmd *cobra.Command, _ []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")

	env, err := openEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	list, total, err := env.userService.List(commandContext(cmd), users.NewUserQuery(page, limit))
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tVERIFIED\tCREATED")
	for _, u := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", u.ID, u.Name, u.Email, u.Role, u.Verified, u.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d users\n", len(list), total)
	return nil
}

// InitUserCommands registers the migrate command and the user command group
func InitUserCommands(rootCmd *cobra.Command) error {
	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE:  MigrateCmd,
	}
	rootCmd.AddCommand(migrateCmd)

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var createAdminCmd = &cobra.Command{
		Use:   "create-admin",
		Short: "Create a verified admin account",
		Args:  cobra.NoArgs,
		RunE:  CreateAdminCmd,
	}
	createAdminCmd.Flags().String("name", "", "Display name of the admin")
	createAdminCmd.Flags().String("email", "", "E-mail address of the admin")
	createAdminCmd.Flags().String("password", "", "Initial password of the admin")
	for _, flag := range []string{"name", "email", "password"} {
		if err := createAdminCmd.MarkFlagRequired(flag); err != nil {
			return fmt.Errorf("failed to mark %s as required: %w", flag, err)
		}
	}
	userCmd.AddCommand(createAdminCmd)

	var setRoleCmd = &cobra.Command{
		Use:   "set-role",
		Short: "Change the role of a user",
		Args:  cobra.NoArgs,
		RunE:  SetRoleCmd,
	}
	setRoleCmd.Flags().String("id", "", "ID of the user")
	setRoleCmd.Flags().String("role", "", "New role (admin or user)")
	for _, flag := range []string{"id", "role"} {
		if err := setRoleCmd.MarkFlagRequired(flag); err != nil {
			return fmt.Errorf("failed to mark %s as required: %w", flag, err)
		}
	}
	userCmd.AddCommand(setRoleCmd)

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List users, newest first",
		Args:  cobra.NoArgs,
		RunE:  ListUsersCmd,
	}
	listCmd.Flags().Int("page", users.DefaultPage, "Page to show")
	listCmd.Flags().Int("limit", users.DefaultLimit, "Users per page")
	userCmd.AddCommand(listCmd)

	rootCmd.AddCommand(userCmd)
	return nil
}
