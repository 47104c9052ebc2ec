// Package firewall is the `cmd/firewall` CLI surface: init, validate and
// replay subcommands bound onto one cobra root command. It is grounded
// on main.go's cobra.Command{Use: "pmg", TraverseChildren: true} shape
// and on cmd/setup/setup.go and cmd/version/version.go for individual
// subcommand structure.
package firewall

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safedep/firewall/config"
)

// NewRootCommand builds the firewall root command with every subcommand
// attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:              "firewall",
		Short:            "In-process supply-chain firewall for package managers and build tools",
		TraverseChildren: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("firewall: %s is not a valid command", args[0])
		},
	}

	config.ApplyCobraFlags(cmd)

	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewReplayCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
