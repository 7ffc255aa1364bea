//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sontallive/envhub/internal/install"
	"github.com/sontallive/envhub/internal/launcher"
	"github.com/sontallive/envhub/internal/registry"
	"github.com/sontallive/envhub/internal/state"
)

// TestShimInstallThenLaunchSkipsSelf installs a real shim for an alias and
// resolves a launch where the shim shadows the target on PATH. The shim
// must be skipped in favor of the real binary later on PATH.
func TestShimInstallThenLaunchSkipsSelf(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink shims are a unix notion")
	}
	env := setupTestEnv(t)
	launcherPath := writeExecutable(t, env.BinDir, "envhub-launcher")

	if err := registry.RegisterApp(env.StatePath, "tool", "tool"); err != nil {
		t.Fatalf("RegisterApp: %v", err)
	}

	stub, err := install.InstallShimIn("tool", env.InstallDir, launcherPath)
	if err != nil {
		t.Fatalf("InstallShimIn: %v", err)
	}
	assertFileExists(t, stub)
	if !install.IsShimInstalledIn("tool", env.InstallDir) {
		t.Error("IsShimInstalledIn = false after install")
	}

	// The shim dir shadows the real tool; resolution must skip the shim
	// because it is the launcher itself.
	realDir := t.TempDir()
	want := writeExecutable(t, realDir, "tool")
	pathValue := env.InstallDir + string(os.PathListSeparator) + realDir

	launch, err := launcher.Resolve(launcher.Invocation{
		Argv0:     stub,
		Environ:   envWith(pathValue),
		StatePath: env.StatePath,
		SelfPath:  launcherPath,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if launch.Path != want {
		t.Errorf("Path = %q, want the real binary %q", launch.Path, want)
	}
}

// TestShimReinstallReplacesStub reinstalls over an existing stub and
// checks the stub tracks the new launcher location.
func TestShimReinstallReplacesStub(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink shims are a unix notion")
	}
	env := setupTestEnv(t)
	oldLauncher := writeExecutable(t, env.BinDir, "envhub-launcher")
	newDir := t.TempDir()
	newLauncher := writeExecutable(t, newDir, "envhub-launcher")

	if _, err := install.InstallShimIn("tool", env.InstallDir, oldLauncher); err != nil {
		t.Fatalf("first install: %v", err)
	}
	stub, err := install.InstallShimIn("tool", env.InstallDir, newLauncher)
	if err != nil {
		t.Fatalf("reinstall: %v", err)
	}

	resolved, err := filepath.EvalSymlinks(stub)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	if resolved != newLauncher {
		t.Errorf("stub resolves to %q, want %q", resolved, newLauncher)
	}
}

// TestInstallHonorsAppOverride places the shim in the app's install_path
// override rather than the mode's default directory.
func TestInstallHonorsAppOverride(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink shims are a unix notion")
	}
	env := setupTestEnv(t)
	launcherPath := writeExecutable(t, env.BinDir, "envhub-launcher")
	override := t.TempDir()

	st := state.New()
	app := state.NewAppConfig()
	app.TargetBinary = "tool-bin"
	app.InstallPath = override
	st.Apps.Set("tool", app)

	stub, err := install.InstallShimForState(st, "tool", install.ModeUser, launcherPath)
	if err != nil {
		t.Fatalf("InstallShimForState: %v", err)
	}
	if filepath.Dir(stub) != override {
		t.Errorf("stub placed in %q, want override %q", filepath.Dir(stub), override)
	}
}
