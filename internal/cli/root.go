// Package cli implements gophnotes-cli, the administrative command line for
// schema migrations and user management.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	dsn  string
	open Opener
}

// connect opens the backend selected by --dsn.
func (o *rootOptions) connect(ctx context.Context) (*Backend, error) {
	return o.open(ctx, o.dsn)
}

// NewRootCommand builds the command tree. open is called lazily by each
// subcommand with the value of --dsn.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "gophnotes-cli",
		Short:         "Administer a gophnotes database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", defaultDSN(), "database DSN")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newUserCommand(opts))

	return cmd
}
