package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// This file centralizes all path-related helpers for the config package,
// standardizing where the firewall stores its configuration.

const (
	firewallConfigName = "config"
	firewallConfigType = "yml"
	firewallConfigPath = "safedep/firewall"

	FIREWALL_CONFIG_DIR_ENV = "FIREWALL_CONFIG_DIR"
)

// ErrConfigAlreadyExists is returned when creating the config without
// force and it already exists.
var ErrConfigAlreadyExists = errors.New("firewall config already exists")

// ConfigDir returns the base application config directory.
// If FIREWALL_CONFIG_DIR is set, its value is used as the base before
// appending safedep/firewall. Otherwise the defaults are:
//   - macOS:   ~/Library/Application Support/safedep/firewall
//   - Linux:   ~/.config/safedep/firewall
//   - Windows: %AppData%\safedep\firewall
func ConfigDir() (string, error) {
	dir := os.Getenv(FIREWALL_CONFIG_DIR_ENV)
	if dir != "" {
		return filepath.Join(dir, firewallConfigPath), nil
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve user config directory: %w", err)
	}

	return filepath.Join(userConfigDir, firewallConfigPath), nil
}

func createConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return dir, nil
}

// ConfigFilePath returns the absolute path to the main config file (e.g.
// config.yml), without creating any directories.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s", firewallConfigName, firewallConfigType)), nil
}

// CreateConfig writes a starter config file (the baseline policy, so the
// user has something concrete to edit) and returns its absolute path.
func CreateConfig() (string, error) {
	if _, err := createConfigDir(); err != nil {
		return "", err
	}

	cfgFile, err := ConfigFilePath()
	if err != nil {
		return "", err
	}

	baseline, err := BaselineConfig()
	if err != nil {
		return "", fmt.Errorf("failed to prepare starter config: %w", err)
	}

	writer := viper.New()
	writer.SetConfigType(firewallConfigType)

	if err := writer.MergeConfigMap(configAsMap(baseline)); err != nil {
		return "", fmt.Errorf("failed to prepare starter config: %w", err)
	}

	if err := writer.WriteConfigAs(cfgFile); err != nil {
		var alreadyExistsErr viper.ConfigFileAlreadyExistsError
		if errors.As(err, &alreadyExistsErr) {
			return cfgFile, ErrConfigAlreadyExists
		}
		return "", fmt.Errorf("error writing config file: %w", err)
	}

	return cfgFile, nil
}

// RemoveConfig removes the configuration directory and its contents.
func RemoveConfig() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove config directory %s: %w", dir, err)
	}
	return nil
}

func configAsMap(cfg Config) map[string]any {
	return map[string]any{
		"mode":            string(cfg.Mode),
		"filesystem":      cfg.Filesystem,
		"network":         cfg.Network,
		"commands":        cfg.Commands,
		"environment":     cfg.Environment,
		"exceptions":      cfg.Exceptions,
		"trusted_modules": cfg.TrustedModules,
		"behavioral":      cfg.Behavioral,
		"github_api":      cfg.GithubAPI,
		"module_scan":     cfg.ModuleScan,
	}
}
