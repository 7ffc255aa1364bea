package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/sontallive/envhub/internal/registry"
	"github.com/sontallive/envhub/internal/state"
)

var (
	showYAML bool
	showJSON bool
)

func init() {
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Output as YAML")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <alias>",
	Short: "Show an app's configuration",
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

		if showJSON {
			out, err := json.MarshalIndent(app, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling app as JSON: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		if showYAML {
			out, err := yaml.Marshal(appYAML(app))
			if err != nil {
				return fmt.Errorf("marshaling app as YAML: %w", err)
			}
			fmt.Print(string(out))
			return nil
		}

		// Default: human-readable format.
		fmt.Printf("App: %s\n", args[0])
		fmt.Println("---")
		fmt.Printf("  target_binary:  %s\n", app.TargetBinary)
		if app.InstallPath != "" {
			fmt.Printf("  install_path:   %s\n", app.InstallPath)
		}
		fmt.Printf("  active_profile: %s\n", app.ActiveProfile)
		fmt.Printf("  installed:      %t (cached hint)\n", app.Installed)
		for _, name := range app.Profiles.Keys() {
			p, _ := app.Profiles.Get(name)
			marker := " "
			if name == app.ActiveProfile {
				marker = "*"
			}
			fmt.Printf("  %s profile %s\n", marker, name)
			for _, k := range p.Env.Keys() {
				v, _ := p.Env.Get(k)
				fmt.Printf("      %s=%s\n", k, v)
			}
			if len(p.Args) > 0 {
				fmt.Printf("      args: %s\n", strings.Join(p.Args, " "))
			}
		}
		return nil
	},
}

// appYAML builds a yaml.Node by hand so profile and env ordering survives
// the trip; yaml.Marshal of plain maps would sort keys.
func appYAML(app *state.AppConfig) *yaml.Node {
	root := mappingNode()
	appendScalar(root, "installed", fmt.Sprintf("%t", app.Installed), "!!bool")
	appendScalar(root, "target_binary", app.TargetBinary, "")
	if app.InstallPath != "" {
		appendScalar(root, "install_path", app.InstallPath, "")
	}
	if app.ActiveProfile != "" {
		appendScalar(root, "active_profile", app.ActiveProfile, "")
	}

	profiles := mappingNode()
	for _, name := range app.Profiles.Keys() {
		p, _ := app.Profiles.Get(name)

		env := mappingNode()
		for _, k := range p.Env.Keys() {
			v, _ := p.Env.Get(k)
			appendScalar(env, k, v, "")
		}
		argsNode := &yaml.Node{Kind: yaml.SequenceNode}
		for _, a := range p.Args {
			argsNode.Content = append(argsNode.Content, scalarNode(a, ""))
		}

		profileNode := mappingNode()
		profileNode.Content = append(profileNode.Content, scalarNode("env", ""), env)
		profileNode.Content = append(profileNode.Content, scalarNode("args", ""), argsNode)
		profiles.Content = append(profiles.Content, scalarNode(name, ""), profileNode)
	}
	root.Content = append(root.Content, scalarNode("profiles", ""), profiles)
	return root
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func scalarNode(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: tag}
}

func appendScalar(m *yaml.Node, key, value, tag string) {
	m.Content = append(m.Content, scalarNode(key, ""), scalarNode(value, tag))
}
