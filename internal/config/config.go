package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const (
	fileName = "cli"
	fileType = "yaml"
)

// Preference keys. Each is overridable via the matching ENVHUB_* variable
// (dots become underscores, e.g. ENVHUB_STATE_PATH).
const (
	KeyStatePath    = "state.path"    // state document location override
	KeyInstallMode  = "install.mode"  // default install mode: "user" or "global"
	KeyLauncherPath = "launcher.path" // launcher binary location override
)

// Dir returns the envhub config directory (~/.config/envhub or the
// platform equivalent).
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "envhub")
	}
	name := "envhub"
	if runtime.GOOS == "windows" {
		name = "EnvHub"
	}
	return filepath.Join(base, name)
}

// FilePath returns the full path to the CLI preferences file. This sits
// next to the state document but is a separate concern: preferences shape
// CLI defaults, never launch resolution.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read preferences from the file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix("ENVHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if the preferences file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a preference value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a preference and saves the file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
