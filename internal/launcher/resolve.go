package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sontallive/envhub/internal/errdefs"
)

// resolveTarget turns a target_binary value into a concrete executable
// path, in tiers:
//
//   - absolute path: used as-is, subject to the self-reference guard;
//   - path containing a separator: resolved against the working directory,
//     must exist;
//   - bare name: first existing executable candidate in PATH order.
//
// Any candidate whose file identity matches the launcher itself is
// rejected, so a shim that shadows its own target can never re-exec the
// launcher in a loop.
func resolveTarget(target string, environ []string, selfPath string) (string, error) {
	if filepath.IsAbs(target) {
		return ensureNotSelf(target, selfPath)
	}

	if strings.ContainsRune(target, '/') || strings.ContainsRune(target, os.PathSeparator) {
		if _, err := os.Stat(target); err != nil {
			return "", errdefs.TargetNotFound(target, fmt.Sprintf("target %q not found", target))
		}
		return ensureNotSelf(target, selfPath)
	}

	resolved, ok := searchPath(target, environ, selfPath)
	if !ok {
		return "", errdefs.TargetNotFound(target, fmt.Sprintf("target %q not found in PATH", target))
	}
	return resolved, nil
}

// searchPath walks the PATH entries of the environment snapshot in order
// and returns the first acceptable candidate. Candidates matching the
// launcher itself are skipped, not fatal: a later PATH entry may hold the
// real target.
func searchPath(target string, environ []string, selfPath string) (string, bool) {
	pathValue, ok := envValue(environ, "PATH")
	if !ok {
		return "", false
	}

	exts := executableExtensions(environ)
	for _, dir := range filepath.SplitList(pathValue) {
		if dir == "" {
			continue
		}
		for _, candidate := range candidatesIn(dir, target, exts) {
			if !isExecutable(candidate) {
				continue
			}
			if sameExecutable(candidate, selfPath) {
				continue
			}
			return candidate, true
		}
	}
	return "", false
}

// candidatesIn lists the file names a bare target may resolve to inside one
// PATH directory: the bare name, plus name+extension per the extensions
// list on Windows.
func candidatesIn(dir, target string, exts []string) []string {
	out := []string{filepath.Join(dir, target)}
	for _, ext := range exts {
		out = append(out, filepath.Join(dir, target+ext))
	}
	return out
}

// executableExtensions returns the Windows executable-extension list from
// PATHEXT, defaulting to .EXE; empty on other platforms.
func executableExtensions(environ []string) []string {
	if runtime.GOOS != "windows" {
		return nil
	}
	raw, ok := envValue(environ, "PATHEXT")
	if !ok || raw == "" {
		return []string{".EXE"}
	}
	var exts []string
	for _, e := range strings.Split(raw, ";") {
		if e != "" {
			exts = append(exts, e)
		}
	}
	if len(exts) == 0 {
		return []string{".EXE"}
	}
	return exts
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}

// ensureNotSelf rejects a resolved path whose identity matches the
// launcher's own executable.
func ensureNotSelf(path, selfPath string) (string, error) {
	if sameExecutable(path, selfPath) {
		return "", errdefs.TargetNotFound(path, "target binary resolves to the launcher itself")
	}
	return path, nil
}

// sameExecutable compares two paths by canonical form, falling back to
// underlying file identity when canonicalization disagrees. Only a proven
// match counts: any stat failure means "not the same".
func sameExecutable(path, selfPath string) bool {
	if selfPath == "" {
		return false
	}
	canonical, err1 := filepath.EvalSymlinks(path)
	canonicalSelf, err2 := filepath.EvalSymlinks(selfPath)
	if err1 == nil && err2 == nil && canonical == canonicalSelf {
		return true
	}
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	si, err := os.Stat(selfPath)
	if err != nil {
		return false
	}
	return os.SameFile(fi, si)
}
