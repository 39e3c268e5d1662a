package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/homeweave/weavectl/internal/core/domain"
)

// newPluginsCommand creates the plugins command group
func newPluginsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Manage plugins on the Weave server",
		Long: `List the plugins the Weave server knows about and install, remove,
enable, or disable them. All state lives on the server; every command
issues a single API call and re-reads nothing.`,
		Example: `  # List plugins
  weavectl plugins list

  # Install a plugin
  weavectl plugins install <plugin-id>

  # Enable an installed plugin
  weavectl plugins enable <plugin-id>

  # Disable a running plugin
  weavectl plugins disable <plugin-id>

  # Remove an installed plugin
  weavectl plugins remove <plugin-id>`,
	}

	cmd.AddCommand(newPluginsListCommand())
	cmd.AddCommand(newPluginsInstallCommand())
	cmd.AddCommand(newPluginsRemoveCommand())
	cmd.AddCommand(newPluginsEnableCommand())
	cmd.AddCommand(newPluginsDisableCommand())

	return cmd
}

func newPluginsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List plugins",
		Long:  `List all plugins reported by the server's plugin API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsList(cmd)
		},
	}
}

func newPluginsInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install <plugin-id>",
		Short: "Install a plugin",
		Long:  `Ask the server to install the plugin with the given id.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsAction(cmd, "install", args[0])
		},
	}
}

func newPluginsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <plugin-id>",
		Aliases: []string{"uninstall"},
		Short:   "Remove an installed plugin",
		Long:    `Ask the server to uninstall the plugin with the given id.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsAction(cmd, "remove", args[0])
		},
	}
}

func newPluginsEnableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <plugin-id>",
		Short: "Enable an installed plugin",
		Long:  `Ask the server to enable and start the plugin with the given id.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsAction(cmd, "enable", args[0])
		},
	}
}

func newPluginsDisableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <plugin-id>",
		Short: "Disable an enabled plugin",
		Long:  `Ask the server to stop and disable the plugin with the given id.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsAction(cmd, "disable", args[0])
		},
	}
}

// runPluginsList handles the plugins list command
func runPluginsList(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client := newClient(cfg)
	ctx := context.Background()

	fmt.Println("🔍 Fetching plugins...")
	plugins, err := client.ListPlugins(ctx)
	if err != nil {
		return fmt.Errorf("failed to list plugins: %w", err)
	}

	if len(plugins) == 0 {
		fmt.Println("The server reports no plugins.")
		return nil
	}

	fmt.Printf("\nPlugins (%d):\n\n", len(plugins))

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATE\tSTATUS\tDESCRIPTION")
	fmt.Fprintln(w, "--\t----\t-----\t------\t-----------")

	for _, p := range plugins {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Name,
			stateLabel(p),
			p.Status(),
			p.Description,
		)
	}

	w.Flush()
	fmt.Println("\nTo install a plugin, run: weavectl plugins install <plugin-id>")

	return nil
}

// runPluginsAction dispatches one mutating call for the given verb.
func runPluginsAction(cmd *cobra.Command, verb, id string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	client := newClient(cfg)
	ctx := context.Background()

	switch verb {
	case "install":
		fmt.Printf("📦 Installing plugin: %s\n", id)
		_, err = client.Install(ctx, id)
	case "remove":
		fmt.Printf("🗑️  Removing plugin: %s\n", id)
		_, err = client.Uninstall(ctx, id)
	case "enable":
		fmt.Printf("▶️  Enabling plugin: %s\n", id)
		_, err = client.Activate(ctx, id)
	case "disable":
		fmt.Printf("⏹️  Disabling plugin: %s\n", id)
		_, err = client.Deactivate(ctx, id)
	default:
		return fmt.Errorf("unknown action: %s", verb)
	}

	if err != nil {
		return fmt.Errorf("failed to %s plugin: %w", verb, err)
	}

	fmt.Printf("✅ Successfully dispatched %s for plugin: %s\n", verb, id)
	fmt.Println("Run 'weavectl plugins list' to see the server's current state.")
	return nil
}

// stateLabel summarizes the lifecycle flags for the list table.
func stateLabel(p domain.Plugin) string {
	switch {
	case !p.Installed:
		return "available"
	case !p.Enabled:
		return "disabled"
	default:
		return "enabled"
	}
}

// controlsLabel renders the offered controls, e.g. "Remove/Disable".
func controlsLabel(p domain.Plugin) string {
	controls := p.Controls()
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, "/")
}
