package platform

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// ExecutableSuffix returns the platform's executable file suffix: ".exe" on
// Windows, empty elsewhere.
func ExecutableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// StubName returns the stub file name for an alias, with the executable
// suffix where the platform requires one.
func StubName(alias string) string {
	return alias + ExecutableSuffix()
}

// PlaceStub puts an alias stub at stubPath pointing at launcherPath. On
// Unix the stub is a symlink, so the launcher recovers the alias from its
// own invoked file name. On Windows, where symlinks need elevated rights,
// the stub is a full copy. An existing stub is replaced atomically: the new
// stub is staged under a temporary name and renamed over the old one.
func PlaceStub(launcherPath, stubPath string) error {
	staged := stubPath + ".new"

	if runtime.GOOS == "windows" {
		if err := copyFile(launcherPath, staged); err != nil {
			return fmt.Errorf("staging stub copy: %w", err)
		}
	} else {
		os.Remove(staged)
		if err := os.Symlink(launcherPath, staged); err != nil {
			return fmt.Errorf("staging stub symlink: %w", err)
		}
	}

	if err := os.Rename(staged, stubPath); err != nil {
		os.Remove(staged)
		return fmt.Errorf("replacing stub: %w", err)
	}
	return nil
}

// RemoveStub removes an alias stub. A missing stub is not an error.
func RemoveStub(stubPath string) error {
	err := os.Remove(stubPath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
