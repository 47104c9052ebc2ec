package evaluator

import (
	"net"
	"strings"
)

// splitHostPort separates "host:port"; a missing port yields port="".
func splitHostPort(target string) (host, port string) {
	if h, p, err := net.SplitHostPort(target); err == nil {
		return h, p
	}
	return target, ""
}

// isLoopbackHost reports whether host resolves to a loopback literal or
// the conventional "localhost" name.
func isLoopbackHost(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// isPrivateNetHost reports whether host is an RFC1918/ULA private
// address literal.
func isPrivateNetHost(host string) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsPrivate()
}

// hostMatches implements the "exact match beats suffix match" rule:
// host is matched case-insensitively against each pattern, trying exact
// equality first across all patterns, then suffix ("*.github.com" or
// bare "github.com" as a domain suffix) across all patterns.
func hostMatches(host string, patterns []string) (matched string, exact bool, ok bool) {
	host = strings.ToLower(host)

	for _, p := range patterns {
		if strings.EqualFold(host, p) {
			return p, true, true
		}
	}

	for _, p := range patterns {
		suffix := strings.ToLower(strings.TrimPrefix(p, "*."))
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return p, false, true
		}
	}

	return "", false, false
}
