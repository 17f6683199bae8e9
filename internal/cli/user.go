package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/spf13/cobra"
)

func newUserCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}
	cmd.AddCommand(newUserCreateCommand(opts))
	cmd.AddCommand(newUserDeleteCommand(opts))
	return cmd
}

func newUserCreateCommand(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print its API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if password == "" {
				pw, err := GetPassword("Password: ", cmd.ErrOrStderr())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(pw)
			}

			b, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			u, err := b.Users.Register(cmd.Context(), email, password)
			if err != nil {
				var verr *common.ValidationError
				if errors.As(err, &verr) {
					return verr
				}
				return fmt.Errorf("create user: %w", err)
			}

			fmt.Fprintf(out, "id: %d\n", u.ID)
			fmt.Fprintf(out, "email: %s\n", u.Email)
			fmt.Fprintf(out, "token: %s\n", u.APIToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&password, "password", "", "user password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserDeleteCommand(opts *rootOptions) *cobra.Command {
	var (
		email string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user and all of their notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !yes {
				ok, err := Confirm(bufio.NewReader(cmd.InOrStdin()),
					fmt.Sprintf("Delete %s and all of their notes?", email), out)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "aborted")
					return nil
				}
			}

			b, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			u, err := b.Users.GetByEmail(cmd.Context(), email)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return fmt.Errorf("user %s not found", email)
				}
				return fmt.Errorf("find user: %w", err)
			}

			if err := b.Users.Delete(cmd.Context(), u.ID); err != nil {
				return fmt.Errorf("delete user: %w", err)
			}

			fmt.Fprintf(out, "deleted user %d (%s)\n", u.ID, u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
