package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sontallive/envhub/internal/errdefs"
	"github.com/sontallive/envhub/internal/registry"
)

func init() {
	envCmd.AddCommand(envSetCmd)
	envCmd.AddCommand(envUnsetCmd)
	envCmd.AddCommand(envListCmd)
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage a profile's environment bindings",
}

var envSetCmd = &cobra.Command{
	Use:   "set <alias> <profile> <KEY=VALUE>",
	Short: "Set an environment binding on a profile",
	Long: `Set one environment override. Values are literal: no templating and no
shell expansion. Re-setting an existing key overwrites the value in place
without changing the key's position.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		key, value, ok := strings.Cut(args[2], "=")
		if !ok {
			return fmt.Errorf("binding must be KEY=VALUE, got %q", args[2])
		}
		if err := registry.SetProfileEnv(path, args[0], args[1], key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s on %s/%s\n", key, args[0], args[1])
		return nil
	},
}

var envUnsetCmd = &cobra.Command{
	Use:   "unset <alias> <profile> <KEY>",
	Short: "Remove an environment binding from a profile",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		if err := registry.RemoveProfileEnv(path, args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("Unset %s on %s/%s\n", args[2], args[0], args[1])
		return nil
	},
}

var envListCmd = &cobra.Command{
	Use:   "list <alias> <profile>",
	Short: "Show a profile's bindings and extra arguments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		app, err := registry.App(path, args[0])
		if err != nil {
			return err
		}
		p, ok := app.Profiles.Get(args[1])
		if !ok {
			return errdefs.ProfileNotFound(args[0], args[1])
		}
		for _, k := range p.Env.Keys() {
			v, _ := p.Env.Get(k)
			fmt.Printf("  %s=%s\n", k, v)
		}
		if len(p.Args) > 0 {
			fmt.Printf("  args: %s\n", strings.Join(p.Args, " "))
		}
		return nil
	},
}
