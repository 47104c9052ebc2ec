// Package moduleload is the module-load interception seam: before any
// resolved module's source runs, it is scanned for a small set of
// high-precision malicious patterns. Grounded on the
// analyzer.PackageVersionAnalyzer contract (analyze a package before
// trusting it), generalized from "fetch a malware verdict from a
// registry analysis service" to "scan this module's own source text
// against the compiled pattern set locally", since this engine has no
// network analysis backend to call and the scan is pulled in-process
// here.
package moduleload

import (
	"github.com/safedep/firewall/callerorigin"
	"github.com/safedep/firewall/interceptors"
	"github.com/safedep/firewall/model"
)

// Guard checks a module's resolved source before it is allowed to
// execute.
type Guard struct {
	pipeline *interceptors.Pipeline
}

// New wraps pipeline as a moduleload Guard.
func New(pipeline *interceptors.Pipeline) *Guard {
	return &Guard{pipeline: pipeline}
}

// CheckSource evaluates moduleID's resolved source before it runs.
func (g *Guard) CheckSource(moduleID string, source []byte) error {
	op := model.Operation{
		Kind:         model.OpModuleLoad,
		Target:       moduleID,
		CallerOrigin: callerorigin.Resolve(2),
		Body:         source,
	}

	_, err := g.pipeline.Decide(op)
	return err
}
