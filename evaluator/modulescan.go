package evaluator

import (
	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/model"
)

// scanModuleSource runs before any user module is executed: its resolved
// source is scanned for a small, high-precision set of malicious
// patterns. A match blocks loading entirely; no code from the module
// executes. scanLimit's regex-safety cap is about bounding a single regex
// match, not about rejecting legitimate modules outright: real module
// sources routinely exceed 64 KiB, so a source over the cap is scanned on
// its leading scanLimit bytes instead of being refused entirely.
func scanModuleSource(source string, patterns []config.ModulePattern) (tag string, ok bool) {
	scanned := source
	if len(scanned) > scanLimit {
		scanned = scanned[:scanLimit]
	}

	for _, p := range patterns {
		re, err := compileCached(p.Pattern)
		if err != nil {
			continue
		}
		if re.MatchString(scanned) {
			return p.Tag, true
		}
	}

	return "", false
}
