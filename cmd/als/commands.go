package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/als-astro/als/internal/config"
)

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update user settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Long: `Show effective settings.

Formats:
  text  aligned key = value lines, user overrides marked (default)
  json  array of {key, value, default, overridden}
  yaml  key: value mapping`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		settings, err := openSettings(cmd)
		if err != nil {
			return err
		}
		infos := config.ShowAll(settings)
		out := cmd.OutOrStdout()

		switch format {
		case "text":
			writeSettings(out, infos)
			return nil
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		case "yaml":
			values := make(map[string]string, len(infos))
			for _, info := range infos {
				values[info.Key] = info.Value
			}
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(values)
		default:
			return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := config.ParseKey(args[0])
		if err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}
		settings, err := openSettings(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), settings.Get(k))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting and save it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := openSettings(cmd)
		if err != nil {
			return err
		}

		k, err := config.SetKey(settings, args[0], args[1])
		if err != nil {
			return err
		}
		if err := settings.Save(); err != nil {
			return fmt.Errorf("your settings could not be saved: %w", err)
		}

		printSuccess("Set %s = %s", k, settings.Get(k))
		return nil
	},
}

var configApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply preference values and save them",
	Long: `Apply preference values and save them.

The port is checked first; if it is rejected nothing is applied.

Examples:
  als config apply --scan-folder ~/als/scan --work-folder ~/als/work
  als config apply --port 8080 --debug=false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		type change struct {
			key   config.Key
			value string
		}
		var changes []change

		if flags.Changed("port") {
			raw, _ := flags.GetString("port")
			v, err := config.ValidateValue(config.KeyWWWServerPort, raw)
			if err != nil {
				return err
			}
			changes = append(changes, change{config.KeyWWWServerPort, v})
		}
		for _, f := range []struct {
			flag string
			key  config.Key
		}{
			{"scan-folder", config.KeyScanFolderPath},
			{"work-folder", config.KeyWorkFolderPath},
		} {
			if !flags.Changed(f.flag) {
				continue
			}
			raw, _ := flags.GetString(f.flag)
			v, err := config.ValidateValue(f.key, raw)
			if err != nil {
				return err
			}
			changes = append(changes, change{f.key, v})
		}
		debugChanged := flags.Changed("debug")

		if len(changes) == 0 && !debugChanged {
			printWarning("Nothing to apply. Use --scan-folder, --work-folder, --port or --debug.")
			return nil
		}

		settings, err := openSettings(cmd)
		if err != nil {
			return err
		}
		for _, c := range changes {
			settings.Set(c.key, c.value)
		}
		if debugChanged {
			debug, _ := flags.GetBool("debug")
			settings.SetDebugLog(debug)
		}

		if err := settings.Save(); err != nil {
			return fmt.Errorf("your settings could not be saved: %w", err)
		}
		printSuccess("Preferences saved to %s", settings.Path())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configPath)
		return nil
	},
}

func init() {
	configShowCmd.Flags().String("format", "text", "output format: text, json or yaml")
	configApplyCmd.Flags().String("scan-folder", "", "folder watched for new raw images")
	configApplyCmd.Flags().String("work-folder", "", "folder receiving stacking results")
	configApplyCmd.Flags().String("port", "", fmt.Sprintf("web server port (%d-%d)", config.MinPort, config.MaxPort))
	configApplyCmd.Flags().Bool("debug", false, "enable debug logs")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configApplyCmd)
	configCmd.AddCommand(configPathCmd)
}
