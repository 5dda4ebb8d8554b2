package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hance08/txgate/internal/auth"
	"github.com/hance08/txgate/internal/config"
	"github.com/hance08/txgate/internal/constants"
	"github.com/hance08/txgate/internal/service"
	"github.com/hance08/txgate/internal/ui/prompts"
	"github.com/hance08/txgate/internal/validation"
)

type userAddFlags struct {
	Role string
}

type userAddRunner struct {
	svc   *service.Service
	flags *userAddFlags
}

func NewUserCmd(svc *service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the users allowed to sign in",
	}

	flags := &userAddFlags{}
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Add or update a user in the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &userAddRunner{svc: svc, flags: flags}
			return runner.Run(args[0])
		},
	}
	add.Flags().StringVarP(&flags.Role, "role", "r", constants.RoleUser, "Role: admin or user")

	cmd.AddCommand(add)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderUsers(svc.Config.Auth.Users)
		},
	})

	return cmd
}

func (r *userAddRunner) Run(username string) error {
	if err := validation.ValidateName(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}

	if _, ok := r.svc.Config.Auth.Roles[r.flags.Role]; !ok {
		return fmt.Errorf("unknown role %q", r.flags.Role)
	}

	password, err := prompts.PromptPassword(fmt.Sprintf("Password for %s:", username))
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	users := upsertUser(r.svc.Config.Auth.Users, config.UserConfig{
		Username:     username,
		PasswordHash: hash,
		Role:         r.flags.Role,
	})

	raw := make([]map[string]string, 0, len(users))
	for _, u := range users {
		raw = append(raw, map[string]string{
			"username":      u.Username,
			"password_hash": u.PasswordHash,
			"role":          u.Role,
		})
	}
	viper.Set("auth.users", raw)

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config to file: %w", err)
	}
	r.svc.Config.Auth.Users = users

	pterm.Success.Printf("User %s saved with role %s\n", username, r.flags.Role)
	return nil
}

// upsertUser replaces the entry with the same username or appends u.
func upsertUser(users []config.UserConfig, u config.UserConfig) []config.UserConfig {
	out := make([]config.UserConfig, 0, len(users)+1)
	replaced := false
	for _, existing := range users {
		if existing.Username == u.Username {
			out = append(out, u)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, u)
	}
	return out
}

func renderUsers(users []config.UserConfig) error {
	if len(users) == 0 {
		pterm.Warning.Println("No users configured, add one with `txgate user add <name> --role admin`")
		return nil
	}

	tableData := pterm.TableData{{"Username", "Role"}}
	for _, u := range users {
		tableData = append(tableData, []string{u.Username, u.Role})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
