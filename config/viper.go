package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadFile loads a config file from an explicit path (e.g. the --config
// flag), merges it over the embedded baseline, and returns the result.
// Used by `cmd/firewall validate` to check a file before pointing the
// engine at it.
func LoadFile(path string) (Config, error) {
	baseline, err := BaselineConfig()
	if err != nil {
		return Config{}, fmt.Errorf("failed to load embedded baseline: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return baseline, fmt.Errorf("config file does not exist: %s", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FIREWALL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := v.ReadInConfig(); err != nil {
		return baseline, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var user Config
	if err := v.Unmarshal(&user); err != nil {
		return baseline, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return MergeOverUser(baseline, user), nil
}
