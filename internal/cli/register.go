package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sontallive/envhub/internal/registry"
)

func init() {
	rootCmd.AddCommand(registerCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register <alias> <target>",
	Short: "Register an app under an alias",
	Long: `Register an external tool under a short alias. The target may be an
absolute path, a path relative to the working directory, or a bare command
name resolved through PATH at launch time. Registering an existing alias
overwrites its target and clears the installed flag.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		if err := registry.RegisterApp(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Registered %q -> %q\n", args[0], args[1])
		return nil
	},
}
