package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sontallive/envhub/internal/install"
	"github.com/sontallive/envhub/internal/state"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()("[ OK ]")
	warnMark = color.New(color.FgYellow).SprintFunc()("[WARN]")
	failMark = color.New(color.FgRed).SprintFunc()("[FAIL]")
	missMark = color.New(color.FgYellow).SprintFunc()("[MISS]")
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check state, launcher, and shim health",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}

		fmt.Println("State document:")
		st, ok := checkStateDocument(path)

		fmt.Println("Launcher:")
		launcherPath := checkLauncher()

		if st != nil {
			fmt.Println("Shims:")
			checkShims(st)
		}

		// A non-nil return makes the exit code reflect the findings, so
		// scripts can gate on `envhub doctor`.
		if !ok || launcherPath == "" {
			return errors.New("problems found; see messages above")
		}
		fmt.Println("\nAll checks passed.")
		return nil
	},
}

// checkStateDocument reports parse, schema, and invariant health of the
// state file. Schema issues are advisory; the loader tolerates more than
// the schema describes.
func checkStateDocument(path string) (*state.State, bool) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Printf("  %s no state file at %s (an empty state applies)\n", okMark, path)
		return state.New(), true
	}
	if err != nil {
		fmt.Printf("  %s cannot read %s: %v\n", failMark, path, err)
		return nil, false
	}

	result, err := state.CheckDocument(data)
	if err != nil {
		fmt.Printf("  %s %s is not valid JSON: %v\n", failMark, path, err)
		return nil, false
	}
	if result.Valid {
		fmt.Printf("  %s %s matches the document schema\n", okMark, path)
	} else {
		for _, issue := range result.Issues {
			fmt.Printf("  %s %s: %s\n", warnMark, issue.Path, issue.Message)
		}
	}

	st, err := state.Decode(data)
	if err != nil {
		fmt.Printf("  %s %v\n", failMark, err)
		return nil, false
	}
	if err := state.Validate(st); err != nil {
		fmt.Printf("  %s %v\n", failMark, err)
		return st, false
	}
	fmt.Printf("  %s invariants hold for %d app(s)\n", okMark, st.Apps.Len())
	return st, true
}

func checkLauncher() string {
	launcherPath, ok := install.LauncherPath()
	if !ok {
		fmt.Printf("  %s %s not found on PATH; run 'envhub install launcher'\n", missMark, install.LauncherName)
		return ""
	}
	fmt.Printf("  %s %s\n", okMark, launcherPath)

	checkLauncherVersion(launcherPath)

	if install.IsUserPathConfigured(os.Environ()) {
		fmt.Printf("  %s user install directory is on PATH\n", okMark)
	} else if p, err := install.DetectPlatform(install.ModeUser); err == nil {
		fmt.Printf("  %s %s is not on PATH; user-mode shims will not be found\n", warnMark, p.InstallDir)
	}
	return launcherPath
}

// checkLauncherVersion compares the installed launcher's reported version
// against this CLI's. Unparsable versions (dev builds) are skipped.
func checkLauncherVersion(launcherPath string) {
	out, err := exec.Command(launcherPath, "--version").Output()
	if err != nil {
		fmt.Printf("  %s launcher did not report a version: %v\n", warnMark, err)
		return
	}
	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) == 0 {
		return
	}
	reported := strings.TrimPrefix(fields[len(fields)-1], "v")

	lv, err := semver.NewVersion(reported)
	if err != nil {
		return
	}
	cv, err := semver.NewVersion(strings.TrimPrefix(buildVersion, "v"))
	if err != nil {
		return
	}
	switch {
	case lv.LessThan(cv):
		fmt.Printf("  %s launcher %s is older than the CLI (%s); reinstall with 'envhub install launcher'\n", warnMark, lv, cv)
	case lv.GreaterThan(cv):
		fmt.Printf("  %s launcher %s is newer than the CLI (%s)\n", warnMark, lv, cv)
	default:
		fmt.Printf("  %s launcher version matches the CLI (%s)\n", okMark, cv)
	}
}

func checkShims(st *state.State) {
	if st.Apps.Len() == 0 {
		fmt.Printf("  %s no apps registered\n", okMark)
		return
	}
	for _, alias := range st.Apps.Keys() {
		app, _ := st.Apps.Get(alias)
		present := false
		if app.InstallPath != "" {
			present = install.IsShimInstalledIn(alias, app.InstallPath)
		} else {
			present = install.IsShimInstalled(alias, install.ModeUser) ||
				install.IsShimInstalled(alias, install.ModeGlobal)
		}
		switch {
		case present:
			fmt.Printf("  %s %s\n", okMark, alias)
		case app.Installed:
			fmt.Printf("  %s %s: state says installed but no stub found; run 'envhub install shim %s'\n", warnMark, alias, alias)
		default:
			fmt.Printf("  %s %s: not installed; run 'envhub install shim %s'\n", missMark, alias, alias)
		}
	}
}
