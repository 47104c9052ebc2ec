package evaluator

import (
	"regexp"
	"strings"
	"sync"

	"github.com/safedep/firewall/internal/pathmatch"
)

// scanLimit bounds the input length handed to any regex match (env
// values, request bodies, command strings): a length cap on inputs to
// prevent catastrophic backtracking. A hit on the cap is the caller's
// job to treat as Block with reason "scan-limit-exceeded".
const scanLimit = 1 << 16 // 64 KiB

var (
	regexCacheMu sync.Mutex
	regexCache   = map[string]*regexp.Regexp{}
)

func compileCached(pattern string) (*regexp.Regexp, error) {
	regexCacheMu.Lock()
	defer regexCacheMu.Unlock()

	if re, ok := regexCache[pattern]; ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	regexCache[pattern] = re
	return re, nil
}

// exceedsScanLimit reports whether s is too long to safely run through a
// user-supplied regex.
func exceedsScanLimit(s string) bool {
	return len(s) > scanLimit
}

// matchesAnyPattern compiles each pattern to a glob-or-literal-prefix
// matcher (ContainsGlob decides which) and returns the first pattern that
// matches target, plus the longest-prefix specificity used for tie-break.
func matchesAnyPattern(target string, patterns []string) (matched string, specificity int, ok bool) {
	best := -1
	var bestPattern string

	for _, raw := range patterns {
		expanded := expandPathPattern(raw)

		if pathmatch.ContainsGlob(expanded) {
			re, err := compileCached(pathmatch.GlobToRegex(expanded))
			if err != nil {
				continue
			}
			if re.MatchString(target) {
				spec := len(strings.TrimRight(strings.SplitN(expanded, "*", 2)[0], "/"))
				if spec > best {
					best = spec
					bestPattern = raw
				}
			}
			continue
		}

		if strings.HasPrefix(target, expanded) {
			if len(expanded) > best {
				best = len(expanded)
				bestPattern = raw
			}
		}
	}

	if best < 0 {
		return "", 0, false
	}

	return bestPattern, best, true
}

// expandPathPattern turns a leading "~" into ${HOME} and resolves
// variables, matching the sandbox.ExpandVariables convention. Expansion
// failures degrade to the raw pattern (never to a panic), trading a
// missed match for safety over a crash.
func expandPathPattern(pattern string) string {
	if strings.HasPrefix(pattern, "~/") {
		pattern = "${HOME}/" + strings.TrimPrefix(pattern, "~/")
	} else if pattern == "~" {
		pattern = "${HOME}"
	}

	expanded, err := pathmatch.ExpandVariables(pattern)
	if err != nil {
		return pattern
	}

	return expanded
}

// anyRegexMatches scans body/text against a list of raw regex patterns,
// returning the first tag+pattern that matched. Oversized input is
// treated as its own match so the caller can Block with
// "scan-limit-exceeded".
func anyRegexMatches(text string, patterns []string) (pattern string, ok bool) {
	if exceedsScanLimit(text) {
		return "scan-limit-exceeded", true
	}

	for _, p := range patterns {
		re, err := compileCached(p)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return p, true
		}
	}

	return "", false
}
