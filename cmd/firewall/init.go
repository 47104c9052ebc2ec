package firewall

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/internal/ui"
)

// NewInitCommand writes a starter config file seeded from the embedded
// baseline policy, grounded on cmd/setup/setup.go's "write something the
// user can edit in place" shape.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter firewall config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if force {
				if err := config.RemoveConfig(); err != nil {
					return fmt.Errorf("failed to remove existing config: %w", err)
				}
			}

			path, err := config.CreateConfig()
			if errors.Is(err, config.ErrConfigAlreadyExists) {
				fmt.Printf("%s %s\n", ui.Colors.Yellow("!"), "config already exists at "+path)
				fmt.Println("Re-run with --force to overwrite it.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s wrote starter config to %s\n", ui.Colors.Green("✓"), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
