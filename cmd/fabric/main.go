package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/fabric/cmd/fabric/commands"
	"github.com/teranos/fabric/config"
	"github.com/teranos/fabric/errors"
	"github.com/teranos/fabric/logger"
)

var rootCmd = &cobra.Command{
	Use:   "fabric",
	Short: "fabric - File generation from declarative manifests",
	Long: `fabric - File generation from declarative manifests.

fabric merges file descriptions that share a path, prunes imports the
sources never use, prints each file through the parser registered for its
extension and writes the result, adding barrel files along the way.

Available commands:
  generate - Generate files from manifests
  config   - Manage fabric configuration
  version  - Show version information

Examples:
  fabric generate -m fabric.yaml      # Generate files
  fabric generate -m fabric.yaml -vv  # With per-file events and timing
  fabric config show                  # Show current configuration`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json-log")
		if !cmd.Flags().Changed("json-log") {
			jsonOutput = config.GetViper().GetBool("log.json")
		}
		if theme := config.GetString("log.theme"); theme != "" {
			logger.SetTheme(theme)
		}
		if err := logger.InitializeWithVerbosity(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: fabric.toml searched up from the working directory)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
