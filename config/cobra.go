package config

import "github.com/spf13/cobra"

// ApplyCobraFlags binds the handful of config keys that make sense as CLI
// flags to the root command. The full Config is otherwise only settable
// through the config file and environment overrides (see Load).
func ApplyCobraFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("mode", string(ModeEnabled),
		"Enforcement mode: enabled, strict, alert_only, silent, interactive")
	cmd.PersistentFlags().String("config", "", "Path to a config file, overriding the default config directory")
}
