package firewall

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safedep/firewall/internal/ui"
	"github.com/safedep/firewall/internal/version"
)

// NewVersionCommand prints the banner, binary version and commit,
// grounded on cmd/version/version.go.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(ui.GenerateBanner(version.Version, version.Commit))
			return nil
		},
	}
}
