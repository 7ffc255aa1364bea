package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/sontallive/envhub/internal/errdefs"
)

// The codec is built on gjson/sjson rather than encoding/json structs:
// gjson iterates object members in document order, which is what gives the
// apps, profiles, and env maps their insertion-order semantics, and sjson
// rebuilds the document member by member so unknown fields round-trip
// untouched.

// Decode parses a state document.
func Decode(data []byte) (*State, error) {
	if !gjson.ValidBytes(data) {
		return nil, errdefs.Parse("state document is not valid JSON", nil)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errdefs.Parse("state document must be a JSON object", nil)
	}

	st := New()
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "apps" {
			err = decodeApps(st, value)
		} else {
			st.Extra.Set(key.String(), json.RawMessage(value.Raw))
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func decodeApps(st *State, apps gjson.Result) error {
	if apps.Type == gjson.Null {
		return nil
	}
	if !apps.IsObject() {
		return errdefs.Parse(`"apps" must be a JSON object`, nil)
	}
	var err error
	apps.ForEach(func(key, value gjson.Result) bool {
		var app *AppConfig
		app, err = decodeApp(key.String(), value)
		if err != nil {
			return false
		}
		st.Apps.Set(key.String(), app)
		return true
	})
	return err
}

func decodeApp(alias string, v gjson.Result) (*AppConfig, error) {
	if !v.IsObject() {
		return nil, errdefs.Parse(fmt.Sprintf("app %q must be a JSON object", alias), nil)
	}
	app := NewAppConfig()
	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "installed":
			if value.Type != gjson.True && value.Type != gjson.False {
				err = errdefs.Parse(fmt.Sprintf("app %q: installed must be a boolean", alias), nil)
				return false
			}
			app.Installed = value.Bool()
		case "target_binary":
			if value.Type != gjson.String {
				err = errdefs.Parse(fmt.Sprintf("app %q: target_binary must be a string", alias), nil)
				return false
			}
			app.TargetBinary = value.String()
		case "install_path":
			app.InstallPath, err = optionalString(alias, "install_path", value)
		case "active_profile":
			app.ActiveProfile, err = optionalString(alias, "active_profile", value)
		case "profiles":
			err = decodeProfiles(alias, app, value)
		default:
			app.Extra.Set(key.String(), json.RawMessage(value.Raw))
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func optionalString(alias, field string, v gjson.Result) (string, error) {
	switch v.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return v.String(), nil
	}
	return "", errdefs.Parse(fmt.Sprintf("app %q: %s must be a string or null", alias, field), nil)
}

func decodeProfiles(alias string, app *AppConfig, v gjson.Result) error {
	if v.Type == gjson.Null {
		return nil
	}
	if !v.IsObject() {
		return errdefs.Parse(fmt.Sprintf("app %q: profiles must be a JSON object", alias), nil)
	}
	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		var p *Profile
		p, err = decodeProfile(alias, key.String(), value)
		if err != nil {
			return false
		}
		app.Profiles.Set(key.String(), p)
		return true
	})
	return err
}

// decodeProfile accepts the canonical shape {"env": {...}, "args": [...]}
// and, for documents written before extra arguments existed, a flat
// string-to-string map whose members are env bindings. A flat map is only
// assumed when the object has no "env" object member and no "args" (or
// "command_args") array member; re-saving always writes the canonical shape.
func decodeProfile(alias, name string, v gjson.Result) (*Profile, error) {
	if !v.IsObject() {
		return nil, errdefs.Parse(fmt.Sprintf("app %q: profile %q must be a JSON object", alias, name), nil)
	}
	if env := v.Get("env"); env.IsObject() || (env.Exists() && env.Type == gjson.Null) {
		return decodeRichProfile(alias, name, v)
	}
	if args := v.Get("args"); args.IsArray() {
		return decodeRichProfile(alias, name, v)
	}
	if args := v.Get("command_args"); args.IsArray() {
		return decodeRichProfile(alias, name, v)
	}

	// Legacy flat shape: every member must be a string binding.
	p := NewProfile()
	var err error
	v.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = errdefs.Parse(fmt.Sprintf(
				"app %q: profile %q has non-string value for %q", alias, name, key.String()), nil)
			return false
		}
		p.Env.Set(key.String(), value.String())
		return true
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func decodeRichProfile(alias, name string, v gjson.Result) (*Profile, error) {
	p := NewProfile()
	var err error
	if env := v.Get("env"); env.IsObject() {
		env.ForEach(func(key, value gjson.Result) bool {
			if value.Type != gjson.String {
				err = errdefs.Parse(fmt.Sprintf(
					"app %q: profile %q env value for %q must be a string", alias, name, key.String()), nil)
				return false
			}
			p.Env.Set(key.String(), value.String())
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	args := v.Get("args")
	if !args.Exists() {
		args = v.Get("command_args")
	}
	if args.IsArray() {
		for _, item := range args.Array() {
			if item.Type != gjson.String {
				return nil, errdefs.Parse(fmt.Sprintf(
					"app %q: profile %q args must be strings", alias, name), nil)
			}
			p.Args = append(p.Args, item.String())
		}
	}
	return p, nil
}

// Encode serializes a state document. Known fields come first in their
// fixed order, then preserved unknown fields in their original order. The
// output is indented for hand-editing.
func Encode(st *State) ([]byte, error) {
	out, err := encodeState(st)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, out, "", "  "); err != nil {
		return nil, errdefs.Parse("failed to serialize state", err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON emits the compact document form.
func (st *State) MarshalJSON() ([]byte, error) { return encodeState(st) }

// MarshalJSON emits the persisted app shape.
func (app *AppConfig) MarshalJSON() ([]byte, error) { return encodeApp(app) }

// MarshalJSON emits the canonical profile shape.
func (p *Profile) MarshalJSON() ([]byte, error) { return encodeProfile(p) }

func encodeState(st *State) ([]byte, error) {
	out := []byte(`{}`)
	appsRaw, err := encodeApps(st.Apps)
	if err != nil {
		return nil, err
	}
	out, err = sjson.SetRawBytes(out, "apps", appsRaw)
	if err != nil {
		return nil, errdefs.Parse("failed to serialize state", err)
	}
	return encodeExtras(out, st.Extra)
}

func encodeApps(apps *OrderedMap[*AppConfig]) ([]byte, error) {
	out := []byte(`{}`)
	for _, alias := range apps.Keys() {
		app, _ := apps.Get(alias)
		appRaw, err := encodeApp(app)
		if err != nil {
			return nil, err
		}
		out, err = sjson.SetRawBytes(out, escapePath(alias), appRaw)
		if err != nil {
			return nil, errdefs.Parse("failed to serialize state", err)
		}
	}
	return out, nil
}

func encodeApp(app *AppConfig) ([]byte, error) {
	out := []byte(`{}`)
	var err error
	set := func(path string, value interface{}) {
		if err != nil {
			return
		}
		out, err = sjson.SetBytes(out, path, value)
	}
	setRaw := func(path string, raw []byte) {
		if err != nil {
			return
		}
		out, err = sjson.SetRawBytes(out, path, raw)
	}

	set("installed", app.Installed)
	set("target_binary", app.TargetBinary)
	setRaw("install_path", encodeOptional(app.InstallPath))
	setRaw("active_profile", encodeOptional(app.ActiveProfile))

	profilesRaw := []byte(`{}`)
	for _, name := range app.Profiles.Keys() {
		p, _ := app.Profiles.Get(name)
		var pRaw []byte
		pRaw, err = encodeProfile(p)
		if err != nil {
			return nil, err
		}
		profilesRaw, err = sjson.SetRawBytes(profilesRaw, escapePath(name), pRaw)
		if err != nil {
			break
		}
	}
	setRaw("profiles", profilesRaw)
	if err != nil {
		return nil, errdefs.Parse("failed to serialize state", err)
	}
	return encodeExtras(out, app.Extra)
}

func encodeProfile(p *Profile) ([]byte, error) {
	envRaw := []byte(`{}`)
	var err error
	for _, k := range p.Env.Keys() {
		v, _ := p.Env.Get(k)
		envRaw, err = sjson.SetBytes(envRaw, escapePath(k), v)
		if err != nil {
			return nil, errdefs.Parse("failed to serialize state", err)
		}
	}
	args := p.Args
	if args == nil {
		args = []string{}
	}
	argsRaw, merr := json.Marshal(args)
	if merr != nil {
		return nil, errdefs.Parse("failed to serialize state", merr)
	}

	out := []byte(`{}`)
	out, err = sjson.SetRawBytes(out, "env", envRaw)
	if err == nil {
		out, err = sjson.SetRawBytes(out, "args", argsRaw)
	}
	if err != nil {
		return nil, errdefs.Parse("failed to serialize state", err)
	}
	return out, nil
}

func encodeExtras(out []byte, extra *OrderedMap[json.RawMessage]) ([]byte, error) {
	var err error
	for _, k := range extra.Keys() {
		raw, _ := extra.Get(k)
		out, err = sjson.SetRawBytes(out, escapePath(k), []byte(raw))
		if err != nil {
			return nil, errdefs.Parse("failed to serialize state", err)
		}
	}
	return out, nil
}

func encodeOptional(s string) []byte {
	if s == "" {
		return []byte("null")
	}
	raw, _ := json.Marshal(s)
	return raw
}

// escapePath quotes sjson path metacharacters so map keys are treated as
// literal single path components.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '\\', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
