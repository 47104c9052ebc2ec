package firewall

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/internal/ui"
)

// NewValidateCommand parses the effective config (embedded baseline
// merged with an on-disk file) and prints a summary plus the full
// resolved YAML, so a user can see exactly what policy the engine would
// run with.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse and print the effective firewall policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			var cfg config.Config
			var err error

			if configPath != "" {
				cfg, err = config.LoadFile(configPath)
			} else {
				cfg, err = config.Load(cmd.Flags())
			}
			if err != nil {
				return err
			}

			ui.PrintInfoSection("Effective firewall policy", map[string]string{
				"mode":               string(cfg.Mode),
				"blocked_read_paths": strconv.Itoa(len(cfg.Filesystem.BlockedReadPaths)),
				"blocked_write_paths": strconv.Itoa(len(cfg.Filesystem.BlockedWritePaths)),
				"blocked_domains":    strconv.Itoa(len(cfg.Network.BlockedDomains)),
				"blocked_patterns":   strconv.Itoa(len(cfg.Commands.BlockedPatterns)),
				"trusted_modules":    strconv.Itoa(len(cfg.TrustedModules)),
				"exceptions":         strconv.Itoa(len(cfg.Exceptions.Modules)),
			})

			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render effective config: %w", err)
			}

			fmt.Println()
			fmt.Println(string(out))

			return nil
		},
	}

	return cmd
}
