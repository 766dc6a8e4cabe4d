package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/valuescan/internal/screenconfig"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Threshold configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved thresholds and their hash",
	Long: `Prints the thresholds a scan would use: built-in defaults, then
--thresholds (or SCAN_THRESHOLDS_FILE). Exits non-zero if they are invalid.

Example:
  go run ./cmd/screener config show
  go run ./cmd/screener config show --thresholds config/screen/default.yaml`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	// Only thresholds are needed, no provider wiring
	path, err := thresholdsPath()
	if err != nil {
		return err
	}
	cfg, err := screenconfig.Resolve(path, screenconfig.Overrides{})
	if err != nil {
		return err
	}

	data, err := screenconfig.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal thresholds: %w", err)
	}
	hash, err := screenconfig.Hash(cfg)
	if err != nil {
		return fmt.Errorf("hash thresholds: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, string(data))
	fmt.Fprintf(out, "# hash: %s\n", hash)
	return nil
}
