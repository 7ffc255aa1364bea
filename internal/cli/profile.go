package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sontallive/envhub/internal/registry"
)

func init() {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileCloneCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileSetArgsCmd)
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage an app's environment profiles",
	Long:  `Manage the named profiles of environment overrides and extra arguments attached to an app.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list <alias>",
	Short: "Show an app's profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		app, err := registry.App(path, args[0])
		if err != nil {
			return err
		}
		for _, name := range app.Profiles.Keys() {
			if name == app.ActiveProfile {
				fmt.Printf("  %s (active)\n", name)
			} else {
				fmt.Printf("  %s\n", name)
			}
		}
		return nil
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add <alias> <profile>",
	Short: "Add an empty profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		if err := registry.AddProfile(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Added profile %q to %q\n", args[1], args[0])
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <alias> <profile>",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		if err := registry.RemoveProfile(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Removed profile %q from %q\n", args[1], args[0])
		return nil
	},
}

var profileCloneCmd = &cobra.Command{
	Use:   "clone <alias> <from> <to>",
	Short: "Clone a profile's bindings and arguments into a new profile",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		if err := registry.CloneProfile(path, args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Printf("Cloned profile %q to %q on %q\n", args[1], args[2], args[0])
		return nil
	},
}

var profileSetArgsCmd = &cobra.Command{
	Use:   "set-args <alias> <profile> [-- <token>...]",
	Short: "Replace a profile's extra launch arguments",
	Long: `Replace the argument tokens prepended to user-supplied arguments at
launch. Tokens are passed through verbatim with no shell reinterpretation.
With no tokens, the list is cleared.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		if err := registry.SetProfileArgs(path, args[0], args[1], args[2:]); err != nil {
			return err
		}
		fmt.Printf("Set %d argument(s) on %s/%s\n", len(args[2:]), args[0], args[1])
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <alias> <profile>",
	Short: "Switch an app's active profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		if err := registry.SetActiveProfile(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Switched %q to profile %q\n", args[0], args[1])
		return nil
	},
}
