package evaluator

import (
	"regexp"
	"strings"

	"github.com/safedep/firewall/config"
	"github.com/safedep/firewall/model"
)

// evaluateGithubAPI is the GitHub API sub-evaluator: when the target
// host is the configured GitHub API host, inspect path+body for
// repository creation matching blocked_repo_names or workflow file
// paths matching blocked_workflow_patterns. Grounded on the npm/pypi
// registry-domain exact-vs-suffix matching in
// proxy/interceptors/npm_registry.go and pypi_registry.go, generalized
// from "is this host the npm/pypi registry" to "is this host the GitHub
// API, and does the request body/path look like a blocked action."
func evaluateGithubAPI(op model.Operation, cfg config.GithubAPIPolicy) (model.Verdict, bool) {
	if cfg.Host == "" {
		return model.Verdict{}, false
	}

	host, _ := splitHostPort(op.Target)
	if !strings.EqualFold(host, cfg.Host) {
		return model.Verdict{}, false
	}

	body := string(op.Body)
	if exceedsScanLimit(body) {
		return model.Block(model.SeverityHigh, "scan-limit-exceeded"), true
	}

	for _, name := range cfg.BlockedRepoNames {
		re, err := regexp.Compile(`(?i)"name"\s*:\s*"` + regexp.QuoteMeta(name) + `"`)
		if err != nil {
			continue
		}
		if re.MatchString(body) {
			return model.Block(model.SeverityHigh, "github_api:blocked_repo_name:"+name), true
		}
	}

	for _, pattern := range cfg.BlockedWorkflowPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(op.Target) || re.MatchString(body) {
			return model.Block(model.SeverityHigh, "github_api:blocked_workflow_pattern"), true
		}
	}

	return model.Verdict{}, false
}
