// Package install places launcher shims: alias-named stubs in an install
// directory that cause the OS to start the launcher under the alias name.
// It also installs the launcher binary itself and answers presence checks.
// Installation state is always derived from the filesystem; the installed
// flag in the state document is only a display hint.
package install

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sontallive/envhub/internal/errdefs"
	"github.com/sontallive/envhub/internal/platform"
	"github.com/sontallive/envhub/internal/state"
)

// LauncherName is the launcher's base executable name.
const LauncherName = "envhub-launcher"

// Mode selects the install directory scope on Unix. Windows always installs
// under the per-user application data directory.
type Mode int

const (
	// ModeUser installs under ~/.envhub/bin.
	ModeUser Mode = iota
	// ModeGlobal installs under /usr/local/bin.
	ModeGlobal
)

// Platform describes where shims go on the current platform.
type Platform struct {
	Windows    bool
	InstallDir string
}

// DetectPlatform resolves the install directory for the given mode.
func DetectPlatform(mode Mode) (Platform, error) {
	if runtime.GOOS == "windows" {
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			return Platform{}, errdefs.InstallPath("LOCALAPPDATA is not set", nil)
		}
		return Platform{
			Windows:    true,
			InstallDir: filepath.Join(base, "EnvHub", "bin"),
		}, nil
	}

	if mode == ModeGlobal {
		return Platform{InstallDir: "/usr/local/bin"}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Platform{}, errdefs.InstallPath("failed to resolve home directory", err)
	}
	return Platform{InstallDir: filepath.Join(home, ".envhub", "bin")}, nil
}

// InstallLauncher copies the launcher binary into the mode's install
// directory under its own name and marks it executable. Returns the
// installed path.
func InstallLauncher(mode Mode, launcherPath string) (string, error) {
	p, err := DetectPlatform(mode)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(launcherPath); err != nil {
		return "", errdefs.MissingLauncher(launcherPath)
	}
	if err := ensureDir(p.InstallDir); err != nil {
		return "", err
	}

	dest := filepath.Join(p.InstallDir, LauncherName+platform.ExecutableSuffix())
	if err := copyExecutable(launcherPath, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// InstallShim places an alias stub in the mode's install directory.
func InstallShim(alias string, mode Mode, launcherPath string) (string, error) {
	p, err := DetectPlatform(mode)
	if err != nil {
		return "", err
	}
	return InstallShimIn(alias, p.InstallDir, launcherPath)
}

// InstallShimIn places an alias stub in an explicit install directory:
// a symlink to the launcher on Unix, a full copy on Windows. Reinstalling
// replaces the existing stub.
func InstallShimIn(alias, installDir, launcherPath string) (string, error) {
	if strings.TrimSpace(alias) == "" {
		return "", errdefs.InvalidState("app name must be non-empty")
	}
	if _, err := os.Stat(launcherPath); err != nil {
		return "", errdefs.MissingLauncher(launcherPath)
	}
	if err := ensureDir(installDir); err != nil {
		return "", err
	}

	dest := filepath.Join(installDir, platform.StubName(alias))
	if err := platform.PlaceStub(launcherPath, dest); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", errdefs.Permission("failed to create shim", err)
		}
		return "", errdefs.IO("failed to create shim", err)
	}
	return dest, nil
}

// InstallShimForState installs the shim for a registered app, honoring its
// install_path override when set.
func InstallShimForState(st *state.State, alias string, mode Mode, launcherPath string) (string, error) {
	app, ok := st.Apps.Get(alias)
	if !ok {
		return "", errdefs.AppNotFound(alias)
	}
	installDir := app.InstallPath
	if installDir == "" {
		p, err := DetectPlatform(mode)
		if err != nil {
			return "", err
		}
		installDir = p.InstallDir
	}
	return InstallShimIn(alias, installDir, launcherPath)
}

// LauncherPath locates the launcher binary on PATH.
func LauncherPath() (string, bool) {
	path, err := exec.LookPath(LauncherName)
	if err != nil {
		return "", false
	}
	return path, true
}

// IsLauncherInstalled reports whether the launcher is findable on PATH.
func IsLauncherInstalled() bool {
	_, ok := LauncherPath()
	return ok
}

// IsShimInstalled is a pure filesystem existence test for an alias stub in
// the mode's install directory, independent of registry state.
func IsShimInstalled(alias string, mode Mode) bool {
	if strings.TrimSpace(alias) == "" {
		return false
	}
	p, err := DetectPlatform(mode)
	if err != nil {
		return false
	}
	return IsShimInstalledIn(alias, p.InstallDir)
}

// IsShimInstalledIn checks for an alias stub in an explicit directory.
func IsShimInstalledIn(alias, installDir string) bool {
	if strings.TrimSpace(alias) == "" {
		return false
	}
	_, err := os.Lstat(filepath.Join(installDir, platform.StubName(alias)))
	return err == nil
}

// IsUserPathConfigured reports whether the user-mode install directory
// appears in the PATH entry of the given environment snapshot. A plain
// string comparison per entry: good enough for a UI hint.
func IsUserPathConfigured(environ []string) bool {
	p, err := DetectPlatform(ModeUser)
	if err != nil {
		return false
	}
	var pathValue string
	for _, kv := range environ {
		if strings.HasPrefix(kv, "PATH=") {
			pathValue = strings.TrimPrefix(kv, "PATH=")
			break
		}
	}
	for _, dir := range filepath.SplitList(pathValue) {
		if dir == p.InstallDir {
			return true
		}
	}
	return false
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return errdefs.Permission("failed to create install directory", err)
		}
		return errdefs.InstallPath("failed to create install directory", err)
	}
	return nil
}

func copyExecutable(src, dest string) error {
	staged := dest + ".new"
	in, err := os.Open(src)
	if err != nil {
		return classifyIO("failed to read launcher", err)
	}
	defer in.Close()

	out, err := os.Create(staged)
	if err != nil {
		return classifyIO("failed to copy launcher", err)
	}
	if _, err := out.ReadFrom(in); err != nil {
		out.Close()
		os.Remove(staged)
		return classifyIO("failed to copy launcher", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(staged)
		return classifyIO("failed to copy launcher", err)
	}
	if err := platform.Chmod(staged, 0755); err != nil {
		os.Remove(staged)
		return classifyIO("failed to mark launcher executable", err)
	}
	if err := os.Rename(staged, dest); err != nil {
		os.Remove(staged)
		return classifyIO("failed to replace launcher", err)
	}
	return nil
}

func classifyIO(detail string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return errdefs.Permission(detail, err)
	}
	return errdefs.IO(detail, err)
}
