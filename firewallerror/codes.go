package firewallerror

// Standard error codes that can be re-used across the project.
// We will use a human friendly format for the error codes and not align with posix error codes.
// Keep this minimal. Reuse first before adding new ones.
const (
	ErrCodeInvalidArgument               = "InvalidArgument"
	ErrCodePermissionDenied              = "PermissionDenied"
	ErrCodeNotFound                      = "NotFound"
	ErrCodeTimeout                       = "Timeout"
	ErrCodeCanceled                      = "Canceled"
	ErrCodeUnexpectedEOF                 = "UnexpectedEOF"
	ErrCodeUnknown                       = "Unknown"
	ErrCodeLifecycle                     = "Lifecycle"
	ErrCodeNetwork                       = "Network"
	ErrCodePackageManagerExecutionFailed = "PackageManagerExecutionFailed"

	// Firewall-specific codes. Returned by the engine and its interceptors
	// when an operation is refused or when the engine itself cannot reach a
	// safe operating state.
	ErrCodeFirewallBlocked       = "FIREWALL_BLOCKED"
	ErrCodeFirewallModuleBlocked = "FIREWALL_MODULE_BLOCKED"
	ErrCodeFirewallEnvBlocked    = "FIREWALL_ENV_BLOCKED"
	ErrCodeFirewallTamperBlocked = "FIREWALL_TAMPER_BLOCKED"
	ErrCodeFirewallFailClosed    = "FIREWALL_FAIL_CLOSED"
)
