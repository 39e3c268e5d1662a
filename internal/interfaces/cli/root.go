package cli

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/homeweave/weavectl/internal/config"
	apihttp "github.com/homeweave/weavectl/internal/http"
	"github.com/homeweave/weavectl/internal/logging"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// NewRootCommand creates the base command when called without any subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "weavectl",
		Short: "Weave plugin console",
		Long: `weavectl is a console for the plugin API of a Weave home server.

It lists the plugins the server knows about and dispatches install,
uninstall, enable, and disable actions against the server, which stays
the source of truth for all plugin state.`,
		Version: Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.weave/console.json)")
	rootCmd.PersistentFlags().String("api-url", "", "Plugin API base URL (overrides config)")

	rootCmd.AddCommand(newPluginsCommand())
	rootCmd.AddCommand(newConsoleCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}

// goVersion returns the Go version used to build the binary.
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// loadConfig loads the configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("api-url") {
		if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
			cfg.APIURL = apiURL
		}
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}

	return cfg, nil
}

// newClient builds the API client for the configured backend.
func newClient(cfg *config.Config) *apihttp.ConsoleClient {
	logger := logging.NewConsoleLogger("[ConsoleClient]", cfg.Debug)
	return apihttp.NewConsoleClient(cfg.APIURL, cfg.Timeout(), logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
