package config

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type configKey struct{}
type contextValue struct {
	Config Config
}

var (
	setupOnce sync.Once
	setupErr  error
)

// Load reads the embedded baseline policy, merges the on-disk config file
// (if any) and environment/flag overrides on top of it via viper, and
// returns the resulting immutable Config. A parse failure or a missing
// file never prevents the engine from having a policy: the baseline is
// always applied.
func Load(fs *pflag.FlagSet) (Config, error) {
	baseline, err := BaselineConfig()
	if err != nil {
		// The embedded baseline is compiled in; a failure here is a build
		// defect, not a runtime condition. Fall back to the Go zero value
		// rather than refuse to start, the deny floor already shipped in
		// the binary as regexes/paths is still better than nothing if
		// this ever happens.
		baseline = Config{}
	}

	if err := ensureViperConfigured(); err != nil {
		return baseline, err
	}

	bindFlags(fs)

	var user Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return baseline, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := viper.Unmarshal(&user); err != nil {
		return baseline, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return MergeOverUser(baseline, user), nil
}

// Inject stores cfg in ctx so downstream interceptors and the engine can
// retrieve the same immutable value without a package-level global.
func (c Config) Inject(ctx context.Context) context.Context {
	return context.WithValue(ctx, configKey{}, &contextValue{Config: c})
}

// FromContext extracts the Config injected by Inject.
func FromContext(ctx context.Context) (Config, error) {
	c, ok := ctx.Value(configKey{}).(*contextValue)
	if !ok {
		return Config{}, fmt.Errorf("config not found in context")
	}

	return c.Config, nil
}

func ensureViperConfigured() error {
	setupOnce.Do(func() {
		dir, err := ConfigDir()
		if err != nil {
			setupErr = err
			return
		}

		v := viper.GetViper()
		v.SetConfigName(firewallConfigName)
		v.SetConfigType(firewallConfigType)
		v.AddConfigPath(dir)

		v.SetEnvPrefix("FIREWALL")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
	})

	return setupErr
}

func bindFlags(fs *pflag.FlagSet) {
	if fs == nil {
		return
	}

	bind := func(key, flag string) {
		if f := fs.Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}

	bind("mode", "mode")
}
