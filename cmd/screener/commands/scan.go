package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/valuescan/internal/screenconfig"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [tickers...]",
	Short: "Screen tickers and print the ranking",
	Long: `Fetches fundamentals for each ticker, scores it on the six value
criteria, ranks the results and prints a thesis for each top pick.

Tickers come from arguments, --tickers-file, or SCAN_TICKERS.
Threshold flags override the thresholds file for this run only.

Example:
  go run ./cmd/screener scan KO PEP JNJ
  go run ./cmd/screener scan --tickers-file universe.txt --pe-max 12
  go run ./cmd/screener scan WALMEX FEMSAUBD --market-suffix .MX --format json`,
	RunE: runScan,
}

var (
	scanTickersFile string
	scanFormat      string
	scanFlags       overrideFlags
)

// overrideFlags binds one flag per threshold
type overrideFlags struct {
	peMax, pbMax, pegMax, deMax                 float64
	currentRatioMin, operatingMarginMin         float64
	earningsGrowthMin, dividendYieldMin         float64
	roaMin, roeMin, profitMarginMin, beatenDown float64
	minMarketCap                                float64
	passThreshold, topN                         int
	marketSuffix                                string
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Flags
	scanCmd.Flags().StringVar(&scanTickersFile, "tickers-file", "", "file with one ticker per line (# comments allowed)")
	scanCmd.Flags().StringVar(&scanFormat, "format", FormatTable, "output format (table|json)")
	scanFlags.register(scanCmd)
}

// register adds the threshold override flags to cmd
func (f *overrideFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.peMax, "pe-max", 0, "P/E must be below")
	fs.Float64Var(&f.pbMax, "pb-max", 0, "P/B must be below")
	fs.Float64Var(&f.pegMax, "peg-max", 0, "PEG must be below")
	fs.Float64Var(&f.deMax, "de-max", 0, "debt/equity (percent) must be below")
	fs.Float64Var(&f.currentRatioMin, "current-ratio-min", 0, "current ratio must exceed")
	fs.Float64Var(&f.operatingMarginMin, "operating-margin-min", 0, "operating margin (fraction) must exceed")
	fs.Float64Var(&f.earningsGrowthMin, "earnings-growth-min", 0, "earnings growth (fraction) must exceed")
	fs.Float64Var(&f.dividendYieldMin, "dividend-yield-min", 0, "dividend yield (fraction) must exceed")
	fs.Float64Var(&f.roaMin, "roa-min", 0, "ROA (fraction) must exceed")
	fs.Float64Var(&f.roeMin, "roe-min", 0, "ROE (fraction) must exceed")
	fs.Float64Var(&f.profitMarginMin, "profit-margin-min", 0, "profit margin (fraction) must exceed")
	fs.Float64Var(&f.beatenDown, "beaten-down-min", 0, "minimum fraction below the 52-week high")
	fs.Float64Var(&f.minMarketCap, "min-market-cap", 0, "exclude tickers with a smaller market cap")
	fs.IntVar(&f.passThreshold, "pass-threshold", 0, "criteria needed for a top pick (1-6)")
	fs.IntVar(&f.topN, "top-n", 0, "number of top picks to report")
	fs.StringVar(&f.marketSuffix, "market-suffix", "", "exchange suffix appended to bare tickers, e.g. .MX")
}

// overrides returns only the flags the user actually set
func (f *overrideFlags) overrides(cmd *cobra.Command) screenconfig.Overrides {
	fs := cmd.Flags()
	var o screenconfig.Overrides

	float := func(name string, v float64) *float64 {
		if !fs.Changed(name) {
			return nil
		}
		return &v
	}
	integer := func(name string, v int) *int {
		if !fs.Changed(name) {
			return nil
		}
		return &v
	}

	o.PEMax = float("pe-max", f.peMax)
	o.PBMax = float("pb-max", f.pbMax)
	o.PEGMax = float("peg-max", f.pegMax)
	o.DEMax = float("de-max", f.deMax)
	o.CurrentRatioMin = float("current-ratio-min", f.currentRatioMin)
	o.OperatingMarginMin = float("operating-margin-min", f.operatingMarginMin)
	o.EarningsGrowthMin = float("earnings-growth-min", f.earningsGrowthMin)
	o.DividendYieldMin = float("dividend-yield-min", f.dividendYieldMin)
	o.ROAMin = float("roa-min", f.roaMin)
	o.ROEMin = float("roe-min", f.roeMin)
	o.ProfitMarginMin = float("profit-margin-min", f.profitMarginMin)
	o.BeatenDownMin = float("beaten-down-min", f.beatenDown)
	o.MinMarketCap = float("min-market-cap", f.minMarketCap)
	o.CriteriaPassThreshold = integer("pass-threshold", f.passThreshold)
	o.TopN = integer("top-n", f.topN)
	if fs.Changed("market-suffix") {
		suffix := f.marketSuffix
		o.MarketSuffix = &suffix
	}

	return o
}

func runScan(cmd *cobra.Command, args []string) error {
	// Validate format before any network work
	if scanFormat != FormatTable && scanFormat != FormatJSON {
		return fmt.Errorf("unknown format %q (want %s or %s)", scanFormat, FormatTable, FormatJSON)
	}

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Invalid thresholds fail here, before any fetch
	thresholds, err := a.thresholds(scanFlags.overrides(cmd))
	if err != nil {
		return err
	}

	tickers := args
	if scanTickersFile != "" {
		fromFile, err := readTickersFile(scanTickersFile)
		if err != nil {
			return err
		}
		tickers = append(tickers, fromFile...)
	}
	if len(tickers) == 0 {
		tickers = a.cfg.Scan.Tickers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scan, err := a.orchestrator.Run(ctx, tickers, thresholds)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	return renderScan(cmd.OutOrStdout(), scan, scanFormat)
}

// readTickersFile reads one ticker per line, skipping blanks and # comments
func readTickersFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tickers file: %w", err)
	}
	defer f.Close()

	var tickers []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			tickers = append(tickers, field)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tickers file: %w", err)
	}
	return tickers, nil
}
