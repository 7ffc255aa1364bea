package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sontallive/envhub/internal/config"
	"github.com/sontallive/envhub/internal/errdefs"
	"github.com/sontallive/envhub/internal/install"
	"github.com/sontallive/envhub/internal/registry"
	"github.com/sontallive/envhub/internal/state"
)

var (
	installModeFlag     string
	installLauncherFlag string
)

func init() {
	installCmd.PersistentFlags().StringVar(&installModeFlag, "mode", "", `Install scope: "user" or "global" (default from preferences, then "user")`)
	installCmd.PersistentFlags().StringVar(&installLauncherFlag, "launcher", "", "Launcher binary to install from (default: preferences, then PATH)")

	installCmd.AddCommand(installShimCmd)
	installCmd.AddCommand(installLauncherCmd)
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the launcher and alias shims",
}

var installShimCmd = &cobra.Command{
	Use:   "shim <alias>",
	Short: "Place an alias stub pointing at the launcher",
	Long: `Place a stub named after the alias in the install directory (or the
app's install_path override). Running the alias then starts the launcher,
which injects the active profile and hands control to the target binary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		alias := args[0]
		path, err := statePath()
		if err != nil {
			return err
		}
		mode, err := resolveInstallMode()
		if err != nil {
			return err
		}
		launcherPath, err := resolveLauncherSource()
		if err != nil {
			return err
		}

		st, err := state.Load(path)
		if err != nil {
			return err
		}
		dest, err := install.InstallShimForState(st, alias, mode, launcherPath)
		if err != nil {
			return err
		}
		// Best-effort cache; the stub on disk is the truth.
		if err := registry.MarkInstalled(path, alias, true); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record installed flag: %v\n", err)
		}

		fmt.Printf("Installed shim %s\n", dest)
		if mode == install.ModeUser && !install.IsUserPathConfigured(os.Environ()) {
			p, derr := install.DetectPlatform(install.ModeUser)
			if derr == nil {
				fmt.Printf("Note: %s is not on your PATH; the alias will not be found until it is.\n", p.InstallDir)
			}
		}
		return nil
	},
}

var installLauncherCmd = &cobra.Command{
	Use:   "launcher",
	Short: "Copy the launcher binary into the install directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := resolveInstallMode()
		if err != nil {
			return err
		}
		launcherPath, err := resolveLauncherSource()
		if err != nil {
			return err
		}
		dest, err := install.InstallLauncher(mode, launcherPath)
		if err != nil {
			return err
		}
		fmt.Printf("Installed launcher %s\n", dest)
		return nil
	},
}

func resolveInstallMode() (install.Mode, error) {
	mode := installModeFlag
	if mode == "" {
		mode = config.Get(config.KeyInstallMode)
	}
	switch mode {
	case "", "user":
		return install.ModeUser, nil
	case "global":
		return install.ModeGlobal, nil
	}
	return install.ModeUser, fmt.Errorf("unknown install mode %q (want \"user\" or \"global\")", mode)
}

// resolveLauncherSource finds the launcher binary to install from: the
// --launcher flag, the launcher.path preference, then PATH lookup.
func resolveLauncherSource() (string, error) {
	if installLauncherFlag != "" {
		return installLauncherFlag, nil
	}
	if p := config.Get(config.KeyLauncherPath); p != "" {
		return p, nil
	}
	if p, ok := install.LauncherPath(); ok {
		return p, nil
	}
	return "", errdefs.MissingLauncher(install.LauncherName + " (not found on PATH)")
}
