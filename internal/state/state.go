package state

import (
	"encoding/json"
	"strings"

	"github.com/sontallive/envhub/internal/errdefs"
)

// State is the root of the persisted configuration: an insertion-ordered
// mapping from alias to app, plus any top-level fields this version does
// not recognize, preserved verbatim for round-tripping.
type State struct {
	Apps  *OrderedMap[*AppConfig]
	Extra *OrderedMap[json.RawMessage]
}

// AppConfig describes one registered alias. InstallPath and ActiveProfile
// use the empty string for "unset" and serialize as null in that case.
// Installed is a best-effort cache; installation truth is always re-derived
// from the filesystem.
type AppConfig struct {
	Installed     bool
	TargetBinary  string
	InstallPath   string
	ActiveProfile string
	Profiles      *OrderedMap[*Profile]
	Extra         *OrderedMap[json.RawMessage]
}

// Profile is a named set of environment overrides plus extra argument
// tokens prepended to user-supplied arguments at launch.
type Profile struct {
	Env  *OrderedMap[string]
	Args []string
}

// New returns an empty State.
func New() *State {
	return &State{
		Apps:  NewOrderedMap[*AppConfig](),
		Extra: NewOrderedMap[json.RawMessage](),
	}
}

// NewAppConfig returns an AppConfig with initialized collections.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Profiles: NewOrderedMap[*Profile](),
		Extra:    NewOrderedMap[json.RawMessage](),
	}
}

// NewProfile returns a Profile with no bindings and no extra arguments.
func NewProfile() *Profile {
	return &Profile{Env: NewOrderedMap[string]()}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := NewProfile()
	for _, k := range p.Env.Keys() {
		v, _ := p.Env.Get(k)
		c.Env.Set(k, v)
	}
	c.Args = append([]string(nil), p.Args...)
	return c
}

// Validate applies the state invariants in place and returns the explicit
// failure, if any. Self-healing repairs are silent: an app with no profiles
// gains an empty "default" profile, and a missing or dangling active_profile
// is reset to the first profile in insertion order. An app whose
// target_binary is blank is an invalid-state failure, never repaired.
func Validate(st *State) error {
	for _, name := range st.Apps.Keys() {
		app, _ := st.Apps.Get(name)
		if strings.TrimSpace(app.TargetBinary) == "" {
			return errdefs.BlankTarget(name)
		}
		if app.Profiles == nil {
			app.Profiles = NewOrderedMap[*Profile]()
		}
		if app.Profiles.Len() == 0 {
			app.Profiles.Set("default", NewProfile())
		}
		if app.ActiveProfile == "" || !app.Profiles.Has(app.ActiveProfile) {
			first, _ := app.Profiles.First()
			app.ActiveProfile = first
		}
	}
	return nil
}
