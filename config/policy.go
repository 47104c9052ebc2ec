package config

// Mode controls how the evaluator's raw verdict is adjusted before it
// reaches the interceptor ("mode flags are applied last").
type Mode string

const (
	ModeEnabled    Mode = "enabled"
	ModeStrict     Mode = "strict"
	ModeAlertOnly  Mode = "alert_only"
	ModeSilent     Mode = "silent"
	ModeInteractive Mode = "interactive"
)

// Config is the immutable-after-load policy. Every field here is a direct
// Go-native encoding of a config key; the sub-policies mirror the
// allow/deny shape of sandbox.SandboxPolicy.
type Config struct {
	Mode Mode `mapstructure:"mode" yaml:"mode"`

	Filesystem  FilesystemPolicy  `mapstructure:"filesystem" yaml:"filesystem"`
	Network     NetworkPolicy     `mapstructure:"network" yaml:"network"`
	Commands    CommandsPolicy    `mapstructure:"commands" yaml:"commands"`
	Environment EnvironmentPolicy `mapstructure:"environment" yaml:"environment"`
	Exceptions  ExceptionsPolicy  `mapstructure:"exceptions" yaml:"exceptions"`

	// TrustedModules is the set of module ids permitted to read protected
	// environment variables.
	TrustedModules []string `mapstructure:"trusted_modules" yaml:"trusted_modules"`

	Behavioral BehavioralPolicy `mapstructure:"behavioral" yaml:"behavioral"`
	GithubAPI  GithubAPIPolicy  `mapstructure:"github_api" yaml:"github_api"`
	ModuleScan ModuleScanPolicy `mapstructure:"module_scan" yaml:"module_scan"`
}

// FilesystemPolicy is the `filesystem` config section.
type FilesystemPolicy struct {
	BlockedReadPaths  []string `mapstructure:"blocked_read_paths" yaml:"blocked_read_paths"`
	BlockedWritePaths []string `mapstructure:"blocked_write_paths" yaml:"blocked_write_paths"`
	BlockedExtensions []string `mapstructure:"blocked_extensions" yaml:"blocked_extensions"`
	AllowedPaths      []string `mapstructure:"allowed_paths" yaml:"allowed_paths"`

	// OutputFiles is the engine's own audit/report path list, protected by
	// the self-protection rule.
	OutputFiles []string `mapstructure:"output_files" yaml:"output_files"`
}

// NetworkPolicy is the `network` config section.
type NetworkPolicy struct {
	BlockedDomains      []string `mapstructure:"blocked_domains" yaml:"blocked_domains"`
	AllowedDomains      []string `mapstructure:"allowed_domains" yaml:"allowed_domains"`
	SuspiciousPorts     []int    `mapstructure:"suspicious_ports" yaml:"suspicious_ports"`
	CredentialPatterns  []string `mapstructure:"credential_patterns" yaml:"credential_patterns"`
	LocalhostAllowed    bool     `mapstructure:"localhost_allowed" yaml:"localhost_allowed"`
	PrivateNetsAllowed  bool     `mapstructure:"private_nets_allowed" yaml:"private_nets_allowed"`
}

// CommandPattern is a blocked-command regex paired with the severity it
// should raise when matched.
type CommandPattern struct {
	Pattern  string `mapstructure:"pattern" yaml:"pattern"`
	Severity string `mapstructure:"severity" yaml:"severity"`
}

// CommandsPolicy is the `commands` config section.
type CommandsPolicy struct {
	BlockedPatterns []CommandPattern `mapstructure:"blocked_patterns" yaml:"blocked_patterns"`
	AllowedCommands []string         `mapstructure:"allowed_commands" yaml:"allowed_commands"`
}

// EnvironmentPolicy is the `environment` config section.
type EnvironmentPolicy struct {
	ProtectedVariables        []string `mapstructure:"protected_variables" yaml:"protected_variables"`
	AllowTrustedModulesAccess bool     `mapstructure:"allow_trusted_modules_access" yaml:"allow_trusted_modules_access"`
}

// ExceptionEntry grants one caller-origin module id a capability set.
// VersionRange, when set, scopes the exception to a semver range of
// that module's resolved version, matched via Masterminds/semver.
type ExceptionEntry struct {
	AllowFilesystem  bool     `mapstructure:"allow_filesystem" yaml:"allow_filesystem"`
	AllowNetwork     bool     `mapstructure:"allow_network" yaml:"allow_network"`
	AllowCommands    bool     `mapstructure:"allow_commands" yaml:"allow_commands"`
	AllowedPaths     []string `mapstructure:"allowed_paths" yaml:"allowed_paths"`
	AllowedHosts     []string `mapstructure:"allowed_hosts" yaml:"allowed_hosts"`
	VersionRange     string   `mapstructure:"version_range" yaml:"version_range"`
	Reason           string   `mapstructure:"reason" yaml:"reason"`
}

// ExceptionsPolicy is the `exceptions` config section.
type ExceptionsPolicy struct {
	Modules map[string]ExceptionEntry `mapstructure:"modules" yaml:"modules"`
}

// AlertThreshold is a per-metric soft warning level.
type AlertThreshold struct {
	Metric    string `mapstructure:"metric" yaml:"metric"`
	Threshold int    `mapstructure:"threshold" yaml:"threshold"`
}

// BehavioralPolicy is the `behavioral` config section.
type BehavioralPolicy struct {
	MaxFileReads        int              `mapstructure:"max_file_reads" yaml:"max_file_reads"`
	MaxFileWrites       int              `mapstructure:"max_file_writes" yaml:"max_file_writes"`
	MaxNetworkRequests  int              `mapstructure:"max_network_requests" yaml:"max_network_requests"`
	MaxProcessSpawns    int              `mapstructure:"max_process_spawns" yaml:"max_process_spawns"`
	AlertThresholds     []AlertThreshold `mapstructure:"alert_thresholds" yaml:"alert_thresholds"`
	MonitorLifecycleScripts bool         `mapstructure:"monitor_lifecycle_scripts" yaml:"monitor_lifecycle_scripts"`

	// InstallModeMultiplier scales every max* limit while
	// ProcessContext.InstallMode is true.
	InstallModeMultipliers InstallModeMultipliers `mapstructure:"install_mode_multipliers" yaml:"install_mode_multipliers"`
}

// InstallModeMultipliers scales every max* behavioral limit while
// ProcessContext.InstallMode is true (reads ×100, writes ×100,
// spawns ×20, network ×10 in the baseline config).
type InstallModeMultipliers struct {
	FileReads       int `mapstructure:"file_reads" yaml:"file_reads"`
	FileWrites      int `mapstructure:"file_writes" yaml:"file_writes"`
	ProcessSpawns   int `mapstructure:"process_spawns" yaml:"process_spawns"`
	NetworkRequests int `mapstructure:"network_requests" yaml:"network_requests"`
}

// GithubAPIPolicy is the `github_api` config section.
type GithubAPIPolicy struct {
	Host                     string   `mapstructure:"host" yaml:"host"`
	BlockedRepoNames         []string `mapstructure:"blocked_repo_names" yaml:"blocked_repo_names"`
	BlockedWorkflowPatterns  []string `mapstructure:"blocked_workflow_patterns" yaml:"blocked_workflow_patterns"`
	MonitorRepoCreation      bool     `mapstructure:"monitor_repo_creation" yaml:"monitor_repo_creation"`
	MonitorWorkflowCreation  bool     `mapstructure:"monitor_workflow_creation" yaml:"monitor_workflow_creation"`
}

// ModulePattern is a malicious source pattern tagged with a family name.
type ModulePattern struct {
	Tag     string `mapstructure:"tag" yaml:"tag"`
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
}

// ModuleScanPolicy is the `module_scan` config section.
type ModuleScanPolicy struct {
	MaliciousPatterns []ModulePattern `mapstructure:"malicious_patterns" yaml:"malicious_patterns"`
}
