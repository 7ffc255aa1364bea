// Package launcher is the launch resolution engine: it turns an invoked
// alias into a concrete executable path, merged environment, and assembled
// argument list, then hands control to a platform Transfer. It runs once
// per invocation, reads the state file exactly once, and never mutates it.
package launcher

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sontallive/envhub/internal/errdefs"
	"github.com/sontallive/envhub/internal/state"
)

// Invocation is everything the engine needs, passed explicitly so tests can
// inject fixtures: no ambient environment or default-path reads happen here.
type Invocation struct {
	Argv0     string   // the OS-supplied program name
	Args      []string // trailing user-supplied arguments
	Environ   []string // inherited process environment snapshot
	StatePath string   // state document location
	SelfPath  string   // the launcher's own executable path
}

// Launch is a fully resolved target: executable path, assembled arguments
// (profile extras first, then user arguments unmodified), and the merged
// child environment.
type Launch struct {
	Path string
	Args []string
	Env  []string
}

// AliasFromArgv0 extracts the invoked alias from argv[0]: the file name,
// stripped of the executable suffix on Windows. An undeterminable alias is
// an invalid-state failure with no fallback.
func AliasFromArgv0(argv0 string) (string, error) {
	name := filepath.Base(argv0)
	if runtime.GOOS == "windows" {
		if ext := filepath.Ext(name); strings.EqualFold(ext, ".exe") {
			name = name[:len(name)-len(ext)]
		}
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", errdefs.InvalidState("missing argv[0]")
	}
	return name, nil
}

// Resolve maps an invocation to a Launch. An alias that matches no
// registered app passes through: the alias itself is the target and no
// profile is applied. A registered app with a blank target_binary fails
// explicitly rather than falling back to pass-through.
func Resolve(inv Invocation) (*Launch, error) {
	alias, err := AliasFromArgv0(inv.Argv0)
	if err != nil {
		return nil, err
	}

	st, err := state.Load(inv.StatePath)
	if err != nil {
		return nil, err
	}

	target := alias
	var profile *state.Profile
	if app, ok := st.Apps.Get(alias); ok {
		if strings.TrimSpace(app.TargetBinary) == "" {
			return nil, errdefs.BlankTarget(alias)
		}
		target = app.TargetBinary
		profile = selectProfile(app)
	}

	resolved, err := resolveTarget(target, inv.Environ, inv.SelfPath)
	if err != nil {
		return nil, err
	}

	var extraArgs []string
	env := inv.Environ
	if profile != nil {
		extraArgs = profile.Args
		env = mergeEnv(inv.Environ, profile)
	}

	args := make([]string, 0, len(extraArgs)+len(inv.Args))
	args = append(args, extraArgs...)
	args = append(args, inv.Args...)

	return &Launch{Path: resolved, Args: args, Env: env}, nil
}

// selectProfile picks the profile whose env and args get injected: the
// active profile when it still exists, otherwise the first profile in
// insertion order. An app with no profiles injects nothing.
func selectProfile(app *state.AppConfig) *state.Profile {
	if app.Profiles.Len() == 0 {
		return nil
	}
	name := app.ActiveProfile
	if name == "" || !app.Profiles.Has(name) {
		name, _ = app.Profiles.First()
	}
	p, _ := app.Profiles.Get(name)
	return p
}

// mergeEnv overlays profile bindings on the inherited environment. Profile
// values win on key collision; inherited keys the profile does not mention
// are never removed.
func mergeEnv(environ []string, profile *state.Profile) []string {
	env := make([]string, len(environ))
	copy(env, environ)
	for _, key := range profile.Env.Keys() {
		value, _ := profile.Env.Get(key)
		env = setEnv(env, key, value)
	}
	return env
}

// setEnv sets or replaces one variable in an environment slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// envValue looks up a variable in an environment snapshot. Key comparison
// is case-insensitive on Windows.
func envValue(environ []string, key string) (string, bool) {
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if k == key || (runtime.GOOS == "windows" && strings.EqualFold(k, key)) {
			return v, true
		}
	}
	return "", false
}
