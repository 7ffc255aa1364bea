package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sontallive/envhub/internal/state"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show registered apps",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := statePath()
		if err != nil {
			return err
		}
		st, err := state.Load(path)
		if err != nil {
			return err
		}

		aliases := st.Apps.Keys()
		if len(aliases) == 0 {
			fmt.Println("No apps registered. Run 'envhub register <alias> <target>' to add one.")
			return nil
		}

		for _, alias := range aliases {
			app, _ := st.Apps.Get(alias)
			active := app.ActiveProfile
			if active == "" {
				active = "-"
			}
			fmt.Printf("  %s -> %s (profile: %s, %d profiles)\n",
				alias, app.TargetBinary, active, app.Profiles.Len())
		}
		return nil
	},
}
