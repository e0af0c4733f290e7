// stockscope — multi-ticker stock analysis and reporting.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/devashah/stockscope/internal/analysis/technical"
	"github.com/devashah/stockscope/internal/analyzer"
	"github.com/devashah/stockscope/internal/config"
	"github.com/devashah/stockscope/internal/datasource"
	"github.com/devashah/stockscope/internal/report"
	"github.com/devashah/stockscope/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfg    *config.Config
	logger log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockscope",
	Short: "stockscope — stock price analysis and HTML reporting",
	Long: `stockscope fetches daily price history and company metadata for one
or more tickers, computes technical indicators (EMA, MACD, rolling
volatility) and portfolio metrics (returns, Sharpe ratio, max drawdown),
and renders self-contained HTML reports with embedded charts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			cfg.Logging.Level = override
		}
		logger = newLogger(cfg.Logging)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(quoteCmd)
}

// newLogger builds the process logger from config.
func newLogger(lc config.LoggingConfig) log.Logger {
	l := log.Logger{
		Level:      log.ParseLevel(lc.Level),
		TimeFormat: "15:04:05",
	}
	if lc.Format != "json" {
		l.Writer = &log.ConsoleWriter{ColorOutput: true}
	}
	return l
}

// newAnalyzer wires the data sources and pipeline from config and flags.
func newAnalyzer(riskFree float64, skipMetadata bool) *analyzer.Analyzer {
	source := datasource.NewYahoo(datasource.YahooOptions{
		Timeout:        time.Duration(cfg.Source.TimeoutSec) * time.Second,
		CacheTTL:       time.Duration(cfg.Source.CacheTTLSec) * time.Second,
		RequestsPerSec: cfg.Source.RequestsPerSec,
		Logger:         &logger,
	})
	news := datasource.NewNewsSource(time.Duration(cfg.Source.CacheTTLSec) * time.Second)

	opts := analyzer.Options{
		Indicators: technical.Config{
			SMAWindow:    cfg.Indicators.SMAWindow,
			EMAFast:      cfg.Indicators.EMAFast,
			EMASlow:      cfg.Indicators.EMASlow,
			MACDFast:     cfg.Indicators.MACDFast,
			MACDSlow:     cfg.Indicators.MACDSlow,
			MACDSignal:   cfg.Indicators.MACDSignal,
			VolWindow:    cfg.Indicators.VolatilityWindow,
			ZWindow:      cfg.Indicators.ZScoreWindow,
			AnnualizeVol: cfg.Indicators.AnnualizeVol,
		},
		RiskFreeRate: riskFree,
		NewsLimit:    cfg.Source.NewsLimit,
		SkipMetadata: skipMetadata,
	}
	return analyzer.New(source, news, opts, &logger)
}

// parseRange resolves --start/--end flags, defaulting to the past year.
func parseRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	from, to := utils.DefaultDateRange()

	if s, _ := cmd.Flags().GetString("start"); s != "" {
		parsed, err := utils.ParseDate(s)
		if err != nil {
			return from, to, fmt.Errorf("invalid --start: %w", err)
		}
		from = parsed
	}
	if s, _ := cmd.Flags().GetString("end"); s != "" {
		parsed, err := utils.ParseDate(s)
		if err != nil {
			return from, to, fmt.Errorf("invalid --end: %w", err)
		}
		to = parsed
	}
	if !to.After(from) {
		return from, to, fmt.Errorf("end date %s is not after start date %s",
			utils.FormatDate(to), utils.FormatDate(from))
	}
	return from, to, nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stockscope %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [tickers...]",
	Short: "Analyze one or more tickers and write HTML reports",
	Long: `Fetch price history and metadata for the given tickers, compute
indicators and performance metrics, and write one HTML report per ticker.
With two or more tickers a combined equal-weight portfolio row is printed,
aligned on the tickers' common trading days.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		riskFree, _ := cmd.Flags().GetFloat64("risk-free")
		if !cmd.Flags().Changed("risk-free") {
			riskFree = cfg.Portfolio.RiskFreeRate
		}
		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		textOnly, _ := cmd.Flags().GetBool("text")
		noMetadata, _ := cmd.Flags().GetBool("no-metadata")

		from, to, err := parseRange(cmd)
		if err != nil {
			return err
		}

		a := newAnalyzer(riskFree, noMetadata)
		result, err := a.Run(cmd.Context(), args, from, to)
		if err != nil {
			return err
		}

		for ticker, ferr := range result.Errors {
			fmt.Fprintf(os.Stderr, "⚠ %s: %v\n", ticker, ferr)
		}

		if textOnly || strings.EqualFold(cfg.Output.Format, "text") {
			for _, analysis := range result.Analyses {
				text, err := report.GenerateText(analysis, report.DefaultReportConfig())
				if err != nil {
					return err
				}
				fmt.Print(text)
			}
		} else {
			paths, err := a.WriteHTMLReports(result, outDir, report.DefaultReportConfig())
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Printf("✓ wrote %s\n", p)
			}
		}

		fmt.Print(report.PortfolioText(result.Summary))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("start", "", "start date (YYYY-MM-DD, default: 1 year ago)")
	analyzeCmd.Flags().String("end", "", "end date (YYYY-MM-DD, default: today)")
	analyzeCmd.Flags().Float64("risk-free", 0.02, "annual risk-free rate for Sharpe ratio")
	analyzeCmd.Flags().String("out", "", "output directory for HTML reports")
	analyzeCmd.Flags().Bool("text", false, "print text reports instead of writing HTML")
	analyzeCmd.Flags().Bool("no-metadata", false, "skip quote/profile/news fetches")
}

// --- Metrics Command ---

var metricsCmd = &cobra.Command{
	Use:   "metrics [tickers...]",
	Short: "Print performance metrics without writing reports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		riskFree, _ := cmd.Flags().GetFloat64("risk-free")
		if !cmd.Flags().Changed("risk-free") {
			riskFree = cfg.Portfolio.RiskFreeRate
		}

		from, to, err := parseRange(cmd)
		if err != nil {
			return err
		}

		a := newAnalyzer(riskFree, true)
		result, err := a.Run(cmd.Context(), args, from, to)
		if err != nil {
			return err
		}

		for ticker, ferr := range result.Errors {
			fmt.Fprintf(os.Stderr, "⚠ %s: %v\n", ticker, ferr)
		}
		fmt.Print(report.PortfolioText(result.Summary))
		return nil
	},
}

func init() {
	metricsCmd.Flags().String("start", "", "start date (YYYY-MM-DD, default: 1 year ago)")
	metricsCmd.Flags().String("end", "", "end date (YYYY-MM-DD, default: today)")
	metricsCmd.Flags().Float64("risk-free", 0.02, "annual risk-free rate for Sharpe ratio")
}

// --- Quote Command ---

var quoteCmd = &cobra.Command{
	Use:   "quote [ticker]",
	Short: "Print a live quote for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := datasource.NewYahoo(datasource.YahooOptions{
			Timeout:        time.Duration(cfg.Source.TimeoutSec) * time.Second,
			CacheTTL:       time.Duration(cfg.Source.CacheTTLSec) * time.Second,
			RequestsPerSec: cfg.Source.RequestsPerSec,
			Logger:         &logger,
		})

		quote, err := source.GetQuote(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)", quote.Name, quote.Ticker)
		if quote.Exchange != "" {
			fmt.Printf(" — %s", quote.Exchange)
		}
		fmt.Println()
		fmt.Printf("  Price:      %s (%s, %s)\n",
			utils.FormatUSD(quote.LastPrice), utils.FormatUSD(quote.Change), utils.FormatPct(quote.ChangePct/100))
		fmt.Printf("  Day Range:  %s — %s\n", utils.FormatUSD(quote.Low), utils.FormatUSD(quote.High))
		fmt.Printf("  52W Range:  %s — %s\n", utils.FormatUSD(quote.WeekLow52), utils.FormatUSD(quote.WeekHigh52))
		fmt.Printf("  Volume:     %s\n", utils.FormatVolume(quote.Volume))
		fmt.Printf("  Market Cap: %s\n", utils.FormatUSDCompact(quote.MarketCap))
		if quote.PE > 0 {
			fmt.Printf("  P/E:        %.2f\n", quote.PE)
		}
		return nil
	},
}
