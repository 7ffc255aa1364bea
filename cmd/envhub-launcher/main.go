// The envhub-launcher binary is installed under alias names by the shim
// installer. It reads the invoked alias from its own program name, resolves
// the target binary and active profile, and hands control to the target.
// It is never meant to be run under its own name except for --version and
// --help.
package main

import (
	"fmt"
	"os"

	"github.com/sontallive/envhub/internal/install"
	"github.com/sontallive/envhub/internal/launcher"
	"github.com/sontallive/envhub/internal/state"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	os.Exit(run(os.Args, os.Environ()))
}

func run(argv, environ []string) int {
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "envhub-launcher error: invalid_state: missing argv[0]")
		return 1
	}

	alias, err := launcher.AliasFromArgv0(argv[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "envhub-launcher error: %v\n", err)
		return 1
	}

	// Only a direct invocation gets flag handling; an alias passes every
	// argument through to the target untouched.
	if alias == install.LauncherName {
		return runDirect(argv[1:])
	}

	statePath := os.Getenv("ENVHUB_STATE_PATH")
	if statePath == "" {
		statePath, err = state.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "envhub-launcher error: %v\n", err)
			return 1
		}
	}

	selfPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "envhub-launcher error: io_error: failed to resolve launcher path: %v\n", err)
		return 1
	}

	l, err := launcher.Resolve(launcher.Invocation{
		Argv0:     argv[0],
		Args:      argv[1:],
		Environ:   environ,
		StatePath: statePath,
		SelfPath:  selfPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "envhub-launcher error: %v\n", err)
		return 1
	}

	code, err := launcher.NewTransfer().Exec(l)
	if err != nil {
		fmt.Fprintf(os.Stderr, "envhub-launcher error: %v\n", err)
		return 1
	}
	return code
}

func runDirect(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v":
			fmt.Printf("envhub-launcher %s\n", version)
			return 0
		case "--help", "-h":
			printHelp()
			return 0
		}
	}

	fmt.Fprintln(os.Stderr, "Error: envhub-launcher should not be run directly.")
	fmt.Fprintln(os.Stderr, "This binary is meant to be symlinked or copied under an app alias.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  1. Register an app: envhub register <alias> <target>")
	fmt.Fprintln(os.Stderr, "  2. Install its shim: envhub install shim <alias>")
	fmt.Fprintln(os.Stderr, "  3. Run the app by its alias name")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "For more information, run: envhub-launcher --help")
	return 1
}

func printHelp() {
	fmt.Printf("envhub-launcher %s\n", version)
	fmt.Println()
	fmt.Println("A lightweight shim that intercepts command calls and injects environment")
	fmt.Println("variables and extra arguments from the alias's active profile.")
	fmt.Println()
	fmt.Println("This binary should not be run directly. It is installed under an alias")
	fmt.Println("name; running the alias makes the launcher:")
	fmt.Println("  - read the state document to find the alias's active profile")
	fmt.Println("  - merge the profile's environment overrides into the inherited environment")
	fmt.Println("  - resolve the real target binary (skipping the launcher itself)")
	fmt.Println("  - hand control to the target with profile arguments prepended")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -h, --help       Show this help message")
	fmt.Println("  -v, --version    Show version information")
}
