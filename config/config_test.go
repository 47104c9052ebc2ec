package config

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineConfig_HasDenyFloor(t *testing.T) {
	assert := assert.New(t)

	cfg, err := BaselineConfig()
	require.NoError(t, err)

	assert.Equal(ModeEnabled, cfg.Mode)
	assert.Contains(cfg.Filesystem.BlockedReadPaths, "~/.ssh/**")
	assert.Contains(cfg.Filesystem.OutputFiles, "firewall-audit.jsonl")
	assert.NotEmpty(cfg.Behavioral.MaxFileReads)
	assert.NotEmpty(cfg.ModuleScan.MaliciousPatterns)
}

func TestMergeOverUser_UnionsDenyLists(t *testing.T) {
	assert := assert.New(t)

	baseline, err := BaselineConfig()
	require.NoError(t, err)

	user := Config{
		Filesystem: FilesystemPolicy{
			BlockedReadPaths: []string{"/custom/secret"},
		},
	}

	merged := MergeOverUser(baseline, user)

	assert.Contains(merged.Filesystem.BlockedReadPaths, "~/.ssh/**")
	assert.Contains(merged.Filesystem.BlockedReadPaths, "/custom/secret")
}

func TestMergeOverUser_UserCannotRemoveBaselineEntries(t *testing.T) {
	assert := assert.New(t)

	baseline, err := BaselineConfig()
	require.NoError(t, err)

	// A user config that tries to narrow blocked_read_paths still gets the
	// baseline entries unioned in: deny lists are additive only.
	user := Config{
		Filesystem: FilesystemPolicy{
			BlockedReadPaths: []string{},
		},
	}

	merged := MergeOverUser(baseline, user)
	assert.Equal(baseline.Filesystem.BlockedReadPaths, merged.Filesystem.BlockedReadPaths)
}

func TestMergeOverUser_InjectsMandatoryDenyPatterns(t *testing.T) {
	assert := assert.New(t)

	baseline, err := BaselineConfig()
	require.NoError(t, err)

	merged := MergeOverUser(baseline, Config{})

	hasSSHWriteDeny := false
	for _, p := range merged.Filesystem.BlockedWritePaths {
		if strings.HasSuffix(p, ".ssh") {
			hasSSHWriteDeny = true
			break
		}
	}
	assert.True(hasSSHWriteDeny, "mandatory deny patterns for .ssh should be injected into BlockedWritePaths")
}

func TestConfig_InjectAndFromContext(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{Mode: ModeStrict}
	ctx := cfg.Inject(context.Background())

	got, err := FromContext(ctx)
	assert.NoError(err)
	assert.Equal(ModeStrict, got.Mode)
}

func TestConfig_FromContext_Missing(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.Error(t, err)
}
