// Package filesystem is the file-read/write/unlink/readdir interception
// seam. It is grounded on proxy/interceptors/base_registry.go's
// analyze-decide-enforce shape,
// generalized from "is this package registry request safe" to "is this
// filesystem operation safe", and on proxy/interceptor.go's
// ShouldIntercept/HandleRequest split, collapsed here into a single
// Check* call per operation kind since there is exactly one filesystem
// policy rather than several competing interceptors.
package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/safedep/firewall/callerorigin"
	"github.com/safedep/firewall/interceptors"
	"github.com/safedep/firewall/model"
)

// Guard checks filesystem operations against the firewall pipeline
// before they are performed.
type Guard struct {
	pipeline *interceptors.Pipeline
}

// New wraps pipeline as a filesystem Guard.
func New(pipeline *interceptors.Pipeline) *Guard {
	return &Guard{pipeline: pipeline}
}

// CheckRead evaluates a read of path, returning a non-nil error (carrying
// a firewallerror.UsefulError) when the operation is blocked.
func (g *Guard) CheckRead(path string) error {
	return g.decide(model.OpFileRead, path)
}

// CheckWrite evaluates a write (including create/truncate) of path.
func (g *Guard) CheckWrite(path string) error {
	return g.decide(model.OpFileWrite, path)
}

// CheckUnlink evaluates removal of path.
func (g *Guard) CheckUnlink(path string) error {
	return g.decide(model.OpFileUnlink, path)
}

// CheckReaddir evaluates listing the contents of dir.
func (g *Guard) CheckReaddir(dir string) error {
	return g.decide(model.OpFileReaddir, dir)
}

// CheckOpen evaluates an open of path under the given os.OpenFile flags,
// classifying it as a write if any write/create/truncate/append bit is
// set and a read otherwise. This covers the common "open for read" case;
// a descriptor later used to write is still caught by GuardedFile.Write's
// own re-check.
func (g *Guard) CheckOpen(path string, flag int) error {
	if isWriteFlag(flag) {
		return g.decide(model.OpFileWrite, path)
	}
	return g.decide(model.OpFileOpen, path)
}

func isWriteFlag(flag int) bool {
	return flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0
}

func (g *Guard) decide(kind model.OperationKind, target string) error {
	op := model.Operation{
		Kind:         kind,
		Target:       canonicalizeTarget(target),
		CallerOrigin: callerorigin.Resolve(2),
	}

	_, err := g.pipeline.Decide(op)
	return err
}

// canonicalizeTarget expands a leading "~" the same way
// evaluator/matcher.go's expandPathPattern expands deny patterns, then
// absolutizes and cleans the result so ".." segments and relative paths
// can't slip past a pattern written against the absolute form. A path
// that can't be canonicalized (e.g. no home directory available) is
// passed through unchanged rather than dropped, so the decision still
// runs against whatever the caller gave.
func canonicalizeTarget(target string) string {
	if target == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			target = home
		}
	} else if strings.HasPrefix(target, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			target = filepath.Join(home, strings.TrimPrefix(target, "~/"))
		}
	}

	if abs, err := filepath.Abs(target); err == nil {
		return abs
	}

	return target
}

// GuardedFile wraps an *os.File so that every Write re-evaluates the
// write policy even when the descriptor was opened read-only and then
// reused for writing, a descriptor-reuse bypass the static open-time
// check alone cannot catch.
type GuardedFile struct {
	*os.File
	guard *Guard
	path  string
}

// OpenFile is the guarded equivalent of os.OpenFile: it evaluates the
// open itself, then returns a file whose Write method re-evaluates on
// every call.
func (g *Guard) OpenFile(path string, flag int, perm os.FileMode) (*GuardedFile, error) {
	if err := g.CheckOpen(path, flag); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &GuardedFile{File: f, guard: g, path: path}, nil
}

// Write re-checks the write policy before delegating to the underlying
// file, so a descriptor opened read-only and later coerced into a
// writable one by the caller's own fd tricks is still caught.
func (f *GuardedFile) Write(p []byte) (int, error) {
	if err := f.guard.CheckWrite(f.path); err != nil {
		return 0, err
	}
	return f.File.Write(p)
}
