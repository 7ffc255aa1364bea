package registry

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sontallive/envhub/internal/errdefs"
	"github.com/sontallive/envhub/internal/state"
)

func tempStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state.json")
}

func TestRegisterAppCreatesDefaultProfile(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatalf("RegisterApp: %v", err)
	}

	st, err := state.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	app, ok := st.Apps.Get("tool")
	if !ok {
		t.Fatal("app not saved")
	}
	if app.TargetBinary != "tool-bin" {
		t.Errorf("TargetBinary = %q", app.TargetBinary)
	}
	if !app.Profiles.Has("default") {
		t.Error("default profile missing")
	}
	if app.ActiveProfile != "default" {
		t.Errorf("ActiveProfile = %q", app.ActiveProfile)
	}
	if app.Installed {
		t.Error("installed flag should start false")
	}
}

func TestRegisterAppRejectsBlankInput(t *testing.T) {
	path := tempStatePath(t)
	tests := []struct{ name, target string }{
		{"", "bin"},
		{"  ", "bin"},
		{"tool", ""},
		{"tool", "  "},
	}
	for _, tt := range tests {
		err := RegisterApp(path, tt.name, tt.target)
		if !errdefs.IsKind(err, errdefs.KindInvalidState) {
			t.Errorf("RegisterApp(%q, %q) = %v, want invalid_state", tt.name, tt.target, err)
		}
	}
}

func TestRegisterAppOverwriteKeepsProfilesResetsInstalled(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "old-bin"); err != nil {
		t.Fatal(err)
	}
	if err := AddProfile(path, "tool", "work"); err != nil {
		t.Fatal(err)
	}
	if err := MarkInstalled(path, "tool", true); err != nil {
		t.Fatal(err)
	}

	if err := RegisterApp(path, "tool", "new-bin"); err != nil {
		t.Fatal(err)
	}

	app, err := App(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	if app.TargetBinary != "new-bin" {
		t.Errorf("TargetBinary = %q", app.TargetBinary)
	}
	if !app.Profiles.Has("work") {
		t.Error("existing profiles should survive re-registration")
	}
	if app.Installed {
		t.Error("re-registration must reset the installed flag")
	}
}

func TestSetActiveProfileRequiresExistingProfile(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}

	err := SetActiveProfile(path, "tool", "missing")
	if !errdefs.IsKind(err, errdefs.KindProfileNotFound) {
		t.Errorf("err = %v, want profile_not_found", err)
	}
	err = SetActiveProfile(path, "ghost", "default")
	if !errdefs.IsKind(err, errdefs.KindAppNotFound) {
		t.Errorf("err = %v, want app_not_found", err)
	}
}

func TestAddAndRemoveProfileUpdatesActive(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}
	if err := AddProfile(path, "tool", "work"); err != nil {
		t.Fatal(err)
	}
	if err := SetActiveProfile(path, "tool", "work"); err != nil {
		t.Fatal(err)
	}
	if err := RemoveProfile(path, "tool", "work"); err != nil {
		t.Fatal(err)
	}

	app, err := App(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	if app.ActiveProfile == "work" {
		t.Error("active profile should have fallen back after removal")
	}
	if app.ActiveProfile != "default" {
		t.Errorf("ActiveProfile = %q, want default", app.ActiveProfile)
	}
}

func TestAddProfileActivatesWhenNoneActive(t *testing.T) {
	path := tempStatePath(t)
	// Hand-edited document: profiles exist but no active_profile recorded.
	doc := `{"apps":{"tool":{"installed":false,"target_binary":"tool-bin","profiles":{"work":{"env":{},"args":[]}}}}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if err := AddProfile(path, "tool", "scratch"); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}

	app, err := App(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	// The added profile becomes active; validation keeps it rather than
	// repairing to the first profile in insertion order.
	if app.ActiveProfile != "scratch" {
		t.Errorf("ActiveProfile = %q, want the added profile", app.ActiveProfile)
	}
}

func TestRemoveLastProfileResynthesizesDefault(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}
	// "default" is the only profile; removing it triggers the validation
	// invariant that every app keeps at least one profile.
	if err := RemoveProfile(path, "tool", "default"); err != nil {
		t.Fatal(err)
	}

	app, err := App(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	if app.Profiles.Len() != 1 || !app.Profiles.Has("default") {
		t.Errorf("profiles = %v, want synthesized default", app.Profiles.Keys())
	}
	if app.ActiveProfile != "default" {
		t.Errorf("ActiveProfile = %q", app.ActiveProfile)
	}
}

func TestRemoveProfileNotFound(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}
	err := RemoveProfile(path, "tool", "ghost")
	if !errdefs.IsKind(err, errdefs.KindProfileNotFound) {
		t.Errorf("err = %v, want profile_not_found", err)
	}
}

func TestCloneProfile(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}
	if err := SetProfileEnv(path, "tool", "default", "KEY", "VALUE"); err != nil {
		t.Fatal(err)
	}
	if err := SetProfileArgs(path, "tool", "default", []string{"--fast"}); err != nil {
		t.Fatal(err)
	}

	if err := CloneProfile(path, "tool", "default", "work"); err != nil {
		t.Fatalf("CloneProfile: %v", err)
	}

	app, err := App(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	work, ok := app.Profiles.Get("work")
	if !ok {
		t.Fatal("cloned profile missing")
	}
	if v, _ := work.Env.Get("KEY"); v != "VALUE" {
		t.Errorf("cloned binding = %q", v)
	}
	if !reflect.DeepEqual(work.Args, []string{"--fast"}) {
		t.Errorf("cloned args = %v", work.Args)
	}
}

func TestCloneProfileErrors(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}
	if err := AddProfile(path, "tool", "work"); err != nil {
		t.Fatal(err)
	}
	if err := SetProfileEnv(path, "tool", "work", "KEEP", "ME"); err != nil {
		t.Fatal(err)
	}

	err := CloneProfile(path, "tool", "ghost", "copy")
	if !errdefs.IsKind(err, errdefs.KindProfileNotFound) {
		t.Errorf("missing source: err = %v, want profile_not_found", err)
	}

	err = CloneProfile(path, "tool", "default", "work")
	if !errdefs.IsKind(err, errdefs.KindInvalidState) {
		t.Errorf("existing destination: err = %v, want invalid_state", err)
	}

	// The failed clone must leave the destination untouched.
	app, err := App(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	work, _ := app.Profiles.Get("work")
	if v, _ := work.Env.Get("KEEP"); v != "ME" {
		t.Errorf("destination bindings modified by failed clone: %q", v)
	}
}

func TestSetAndRemoveProfileEnv(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}
	if err := SetProfileEnv(path, "tool", "default", "KEY", "VALUE"); err != nil {
		t.Fatal(err)
	}

	app, err := App(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	p, _ := app.Profiles.Get("default")
	if v, _ := p.Env.Get("KEY"); v != "VALUE" {
		t.Errorf("binding = %q", v)
	}

	if err := RemoveProfileEnv(path, "tool", "default", "KEY"); err != nil {
		t.Fatal(err)
	}
	app, err = App(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	p, _ = app.Profiles.Get("default")
	if p.Env.Has("KEY") {
		t.Error("binding should be removed")
	}

	// Removing again deterministically fails with the same kind.
	err = RemoveProfileEnv(path, "tool", "default", "KEY")
	if !errdefs.IsKind(err, errdefs.KindInvalidState) {
		t.Errorf("err = %v, want invalid_state", err)
	}
}

func TestSetProfileEnvErrors(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}

	err := SetProfileEnv(path, "tool", "default", "  ", "v")
	if !errdefs.IsKind(err, errdefs.KindInvalidState) {
		t.Errorf("blank key: err = %v, want invalid_state", err)
	}
	err = SetProfileEnv(path, "tool", "ghost", "K", "v")
	if !errdefs.IsKind(err, errdefs.KindProfileNotFound) {
		t.Errorf("missing profile: err = %v, want profile_not_found", err)
	}
	err = SetProfileEnv(path, "ghost", "default", "K", "v")
	if !errdefs.IsKind(err, errdefs.KindAppNotFound) {
		t.Errorf("missing app: err = %v, want app_not_found", err)
	}
}

func TestMutationsAreIdempotent(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "tool", "tool-bin"); err != nil {
		t.Fatal(err)
	}

	// Same call twice reproduces the same shape.
	if err := AddProfile(path, "tool", "work"); err != nil {
		t.Fatal(err)
	}
	if err := AddProfile(path, "tool", "work"); err != nil {
		t.Fatalf("repeated AddProfile: %v", err)
	}
	if err := SetProfileEnv(path, "tool", "work", "K", "V"); err != nil {
		t.Fatal(err)
	}
	if err := SetProfileEnv(path, "tool", "work", "K", "V"); err != nil {
		t.Fatalf("repeated SetProfileEnv: %v", err)
	}

	profiles, err := ListProfiles(path, "tool")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(profiles, []string{"default", "work"}) {
		t.Errorf("profiles = %v", profiles)
	}
}

func TestListApps(t *testing.T) {
	path := tempStatePath(t)
	if err := RegisterApp(path, "beta", "b"); err != nil {
		t.Fatal(err)
	}
	if err := RegisterApp(path, "alpha", "a"); err != nil {
		t.Fatal(err)
	}

	apps, err := ListApps(path)
	if err != nil {
		t.Fatal(err)
	}
	// Insertion order, not alphabetical.
	if !reflect.DeepEqual(apps, []string{"beta", "alpha"}) {
		t.Errorf("apps = %v", apps)
	}
}
