package cli

import (
	"github.com/spf13/cobra"

	"github.com/sontallive/envhub/internal/config"
	"github.com/sontallive/envhub/internal/state"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var stateFlag string

var rootCmd = &cobra.Command{
	Use:   "envhub",
	Short: "Register command aliases with switchable environment profiles",
	Long: `envhub registers external command-line tools under short aliases and
attaches named profiles of environment overrides and extra arguments to
each. An installed shim makes the alias start the envhub launcher, which
injects the active profile and hands control to the real binary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateFlag, "state", "", "State file path (default: per-user config location)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// statePath resolves the state document location: the --state flag, then
// the state.path preference (or ENVHUB_STATE_PATH), then the per-user
// default.
func statePath() (string, error) {
	if stateFlag != "" {
		return stateFlag, nil
	}
	if p := config.Get(config.KeyStatePath); p != "" {
		return p, nil
	}
	return state.DefaultPath()
}
