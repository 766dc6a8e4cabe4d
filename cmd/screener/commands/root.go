package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	thresholdsFile string
	verbose        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Value stock screener",
	Long: `valuescan screens stocks against six value criteria.

Each ticker is scored on Traditional Value, Quality Metrics, GARP,
Graham Style, Profitability and Technical Factors, ranked, and the
top picks get an investment thesis.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener scan KO PEP JNJ
  go run ./cmd/screener scan --tickers-file universe.txt --format json
  go run ./cmd/screener api --port 8080
  go run ./cmd/screener scheduler start
  go run ./cmd/screener config show`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&thresholdsFile, "thresholds", "", "threshold YAML file (default: SCAN_THRESHOLDS_FILE or built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
