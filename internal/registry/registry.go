// Package registry implements the mutating operations on the persisted
// state: registering apps, managing profiles, and editing env bindings.
// Every call is a full load → mutate → validate → save cycle against the
// given state path; there is no resident state and no cross-process lock,
// so concurrent writers follow last-write-wins at the file level.
package registry

import (
	"strings"

	"github.com/sontallive/envhub/internal/errdefs"
	"github.com/sontallive/envhub/internal/state"
)

// RegisterApp creates or overwrites the app under name with the given
// target binary, ensuring a "default" profile and an active profile exist.
// The installed flag is reset: a new target invalidates any previous shim.
func RegisterApp(path, name, target string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(target) == "" {
		return errdefs.InvalidState("app name and target must be non-empty")
	}
	st, err := state.Load(path)
	if err != nil {
		return err
	}
	app, ok := st.Apps.Get(name)
	if !ok {
		app = state.NewAppConfig()
		st.Apps.Set(name, app)
	}
	app.TargetBinary = target
	if app.ActiveProfile == "" {
		app.ActiveProfile = "default"
	}
	if app.Profiles.Len() == 0 {
		app.Profiles.Set("default", state.NewProfile())
	}
	app.Installed = false
	return validateAndSave(path, st)
}

// MarkInstalled updates the best-effort installed cache for an app. The
// flag is a display hint only; installation truth is always re-derived from
// the filesystem.
func MarkInstalled(path, name string, installed bool) error {
	st, app, err := loadApp(path, name)
	if err != nil {
		return err
	}
	app.Installed = installed
	return validateAndSave(path, st)
}

// SetActiveProfile switches the active profile of a registered app.
func SetActiveProfile(path, name, profile string) error {
	st, app, err := loadApp(path, name)
	if err != nil {
		return err
	}
	if !app.Profiles.Has(profile) {
		return errdefs.ProfileNotFound(name, profile)
	}
	app.ActiveProfile = profile
	return validateAndSave(path, st)
}

// ListApps returns registered aliases in insertion order.
func ListApps(path string) ([]string, error) {
	st, err := state.Load(path)
	if err != nil {
		return nil, err
	}
	return st.Apps.Keys(), nil
}

// ListProfiles returns an app's profile names in insertion order.
func ListProfiles(path, name string) ([]string, error) {
	_, app, err := loadApp(path, name)
	if err != nil {
		return nil, err
	}
	return app.Profiles.Keys(), nil
}

// App returns a registered app's configuration.
func App(path, name string) (*state.AppConfig, error) {
	_, app, err := loadApp(path, name)
	return app, err
}

// AddProfile creates an empty profile. Adding an existing name is a no-op.
// The new profile becomes active if the app had no active profile.
func AddProfile(path, name, profile string) error {
	if strings.TrimSpace(profile) == "" {
		return errdefs.InvalidState("profile name must be non-empty")
	}
	st, app, err := loadApp(path, name)
	if err != nil {
		return err
	}
	if !app.Profiles.Has(profile) {
		app.Profiles.Set(profile, state.NewProfile())
	}
	if app.ActiveProfile == "" {
		app.ActiveProfile = profile
	}
	return validateAndSave(path, st)
}

// RemoveProfile deletes a profile. If the removed profile was active, the
// first remaining profile becomes active; with none remaining, validation
// resynthesizes an empty "default".
func RemoveProfile(path, name, profile string) error {
	st, app, err := loadApp(path, name)
	if err != nil {
		return err
	}
	if !app.Profiles.Delete(profile) {
		return errdefs.ProfileNotFound(name, profile)
	}
	if app.ActiveProfile == profile {
		first, _ := app.Profiles.First()
		app.ActiveProfile = first
	}
	return validateAndSave(path, st)
}

// CloneProfile deep-copies the bindings and extra arguments of one profile
// into a new one. The destination must not already exist.
func CloneProfile(path, name, from, to string) error {
	if strings.TrimSpace(to) == "" {
		return errdefs.InvalidState("target profile name must be non-empty")
	}
	st, app, err := loadApp(path, name)
	if err != nil {
		return err
	}
	src, ok := app.Profiles.Get(from)
	if !ok {
		return errdefs.ProfileNotFound(name, from)
	}
	if app.Profiles.Has(to) {
		return errdefs.DuplicateProfile(name, to)
	}
	app.Profiles.Set(to, src.Clone())
	if app.ActiveProfile == "" {
		app.ActiveProfile = to
	}
	return validateAndSave(path, st)
}

// SetProfileEnv sets one env binding on a profile. Re-setting an existing
// key overwrites the value in place, keeping the key's position.
func SetProfileEnv(path, name, profile, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errdefs.InvalidState("environment key must be non-empty")
	}
	st, p, err := loadProfile(path, name, profile)
	if err != nil {
		return err
	}
	p.Env.Set(key, value)
	return validateAndSave(path, st)
}

// SetProfileArgs replaces a profile's extra argument tokens. The tokens are
// prepended, in order, to user-supplied arguments at launch. An empty list
// clears them.
func SetProfileArgs(path, name, profile string, args []string) error {
	st, p, err := loadProfile(path, name, profile)
	if err != nil {
		return err
	}
	p.Args = append([]string(nil), args...)
	return validateAndSave(path, st)
}

// RemoveProfileEnv removes one env binding from a profile.
func RemoveProfileEnv(path, name, profile, key string) error {
	st, p, err := loadProfile(path, name, profile)
	if err != nil {
		return err
	}
	if !p.Env.Delete(key) {
		return errdefs.KeyNotFound(name, profile, key)
	}
	return validateAndSave(path, st)
}

func loadApp(path, name string) (*state.State, *state.AppConfig, error) {
	st, err := state.Load(path)
	if err != nil {
		return nil, nil, err
	}
	app, ok := st.Apps.Get(name)
	if !ok {
		return nil, nil, errdefs.AppNotFound(name)
	}
	return st, app, nil
}

func loadProfile(path, name, profile string) (*state.State, *state.Profile, error) {
	st, app, err := loadApp(path, name)
	if err != nil {
		return nil, nil, err
	}
	p, ok := app.Profiles.Get(profile)
	if !ok {
		return nil, nil, errdefs.ProfileNotFound(name, profile)
	}
	return st, p, nil
}

func validateAndSave(path string, st *state.State) error {
	if err := state.Validate(st); err != nil {
		return err
	}
	return state.Save(path, st)
}
