// Package callerorigin identifies the caller-origin of an intercepted
// operation: the source file of the innermost non-engine frame on the
// call stack. It walks the return-address chain via runtime.Caller and
// maps frames to source paths through the binary's own debug metadata,
// generalized to Go's runtime facilities instead of a VM host's stack
// inspection API.
package callerorigin

import (
	"path/filepath"
	"runtime"
	"strings"
)

// EngineMarker is returned by Resolve when every frame up to the top of
// the stack is inside the engine's own module, meaning the call
// originated from engine-internal code rather than from code the engine
// is supposed to be policing.
const EngineMarker = "<engine>"

var engineRoot string

func init() {
	_, file, _, ok := runtime.Caller(0)
	if ok {
		// file is .../github.com/safedep/firewall/callerorigin/callerorigin.go;
		// its parent is the module root.
		engineRoot = filepath.Dir(filepath.Dir(file))
	}
}

// Resolve returns the absolute source path of the innermost frame, at or
// above skip call frames from its own caller, that is not inside the
// engine's own module. skip=1 means "start from my immediate caller."
func Resolve(skip int) string {
	for i := skip + 1; i < skip+64; i++ {
		_, file, _, ok := runtime.Caller(i)
		if !ok {
			break
		}

		if !isEngineFrame(file) {
			return file
		}
	}

	return EngineMarker
}

func isEngineFrame(file string) bool {
	if engineRoot == "" {
		return false
	}

	// Exact absolute-path-prefix equality, not a substring match, so a
	// same-named shim file living outside the engine's module root
	// cannot impersonate an engine frame.
	return file == engineRoot || strings.HasPrefix(file, engineRoot+string(filepath.Separator))
}

// IsVerifiedEngineFrame reports whether origin is the engine-internal
// marker, i.e. whether the call into the self-protected path originated
// from the engine's own code rather than from policed user code.
func IsVerifiedEngineFrame(origin string) bool {
	return origin == EngineMarker
}
