package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sontallive/envhub/internal/errdefs"
)

// DefaultPath returns the per-user state file location:
// <user config dir>/envhub/state.json (EnvHub on Windows).
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errdefs.InstallPath("failed to resolve config directory", err)
	}
	dir := "envhub"
	if runtime.GOOS == "windows" {
		dir = "EnvHub"
	}
	return filepath.Join(base, dir, "state.json"), nil
}

// Load reads the state document at path. An absent file is not an error:
// it yields an empty State.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, errdefs.IO("failed to read state file", err)
	}
	return Decode(data)
}

// Save writes the full state document at path, creating parent directories
// as needed. The document is staged in a temp file and renamed into place,
// so a reader never observes a partially written file. Concurrent writers
// still race at the whole-file level: last write wins.
func Save(path string, st *State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errdefs.IO("failed to create state directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return errdefs.IO("failed to stage state file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errdefs.IO("failed to write state file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errdefs.IO("failed to write state file", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return errdefs.IO("failed to write state file", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errdefs.IO("failed to replace state file", err)
	}
	return nil
}
