package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/als-astro/als/internal/config"
	"github.com/als-astro/als/internal/logging"
)

var version = "dev"

var (
	noColor    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "als",
	Short:         "Astro Live Stacker settings and services",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", !term.IsTerminal(int(os.Stderr.Fd())), "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "settings file")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// openSettings loads the settings file, installs process logging at the
// configured level and dumps the effective values at DEBUG. A malformed
// file is returned as an error and aborts the command.
func openSettings(cmd *cobra.Command) (*config.Settings, error) {
	settings, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, err
	}
	logging.Setup(logWriter(cmd), settings.LogLevel())
	settings.Dump()
	return settings, nil
}

// logWriter picks the log stream for cmd. Only serve logs to stdout; every
// other command keeps stdout for its results or, for mcp, the protocol.
func logWriter(cmd *cobra.Command) io.Writer {
	if cmd.Name() == "serve" {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}
