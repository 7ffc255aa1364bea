//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"
)

// testEnv holds the isolated directories one integration test works in.
type testEnv struct {
	StatePath  string // state document location
	BinDir     string // a PATH directory holding target binaries
	InstallDir string // where shims and the launcher get installed
}

// setupTestEnv creates isolated temp directories so every operation is
// sandboxed; nothing touches the real per-user state or PATH.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		StatePath:  filepath.Join(t.TempDir(), "state.json"),
		BinDir:     t.TempDir(),
		InstallDir: t.TempDir(),
	}
}

// writeExecutable drops a runnable stand-in binary into dir and returns
// its path.
func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("writeExecutable(%s): %v", name, err)
	}
	return path
}

// writeFile writes a hand-edited state document verbatim.
func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		t.Errorf("expected file to exist: %s (%v)", path, err)
	}
}

// envWith builds a minimal environment snapshot for launcher resolution.
func envWith(pathDirs string, extra ...string) []string {
	env := []string{"PATH=" + pathDirs, "HOME=/home/test"}
	return append(env, extra...)
}
