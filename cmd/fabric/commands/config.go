package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/fabric/config"
	"github.com/teranos/fabric/display"
	"github.com/teranos/fabric/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fabric configuration",
	Long: `Display and manage fabric configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (FABRIC_* prefix)
3. Project config (fabric.toml, searched up from the working directory)
4. User config (~/.fabric/fabric.toml)
5. Default values

Examples:
  fabric config show                  # Show current configuration
  fabric config show --format yaml    # Show configuration as YAML
  fabric config get barrel.mode       # Get a specific value
  fabric config where                 # Show where each value comes from
  fabric config init                  # Write a fabric.toml with defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., output.root, process.mode)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value is loaded from",
	RunE:  runConfigWhere,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a fabric.toml with default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var (
	configFormat string
	whereFormat  string
	configForce  bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	configWhereCmd.Flags().StringVar(&whereFormat, "format", "text", "Output format: text, json, yaml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file (previous versions are kept as backups)")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

// loadConfig honours the --config flag, falling back to the layered configuration
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromFile(path)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		return display.WriteJSON(out, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# fabric configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# fabric configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := config.GetViper()
	if !v.IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), config.Get(key))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	settings := config.Introspect(config.GetViper())
	out := cmd.OutOrStdout()

	switch whereFormat {
	case "json":
		return display.WriteJSON(out, settings)
	case "yaml":
		data, err := yaml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal settings to YAML")
		}
		fmt.Fprint(out, string(data))
		return nil
	case "text":
	default:
		return errors.Newf("unsupported format: %s (supported: text, json, yaml)", whereFormat)
	}

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [USER]     %s\n", config.UserConfigPath())
	fmt.Fprintln(out, "  3. [PROJECT]  ./fabric.toml (searches up directories)")
	fmt.Fprintln(out, "  4. [ENV]      FABRIC_* environment variables")
	fmt.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(out).Render()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) == 1 {
		path = args[0]
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, config.FileName)
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		err := errors.Newf("%s already exists", path)
		return errors.WithHint(err, "pass --force to overwrite it")
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}
