package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"credpoints/internal/agent"
	"credpoints/internal/badge"
	"credpoints/internal/config"
	"credpoints/internal/logging"
	"credpoints/internal/perception"
	"credpoints/internal/points"
	"credpoints/internal/scraper"
	"credpoints/internal/tools"
	"credpoints/internal/types"
	"credpoints/internal/validity"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	workspace string
	timeout   time.Duration
	headless  bool

	// Logger
	logger *zap.Logger

	// Output styles
	sentenceStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	detailStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credpoints",
	Short: "credpoints - certification badge credit-point evaluator",
	Long: `credpoints answers "how many credit points is this certification worth?".

Given a query containing a Credly badge URL it scrapes the badge page with a
headless browser, checks the expiry date, classifies the certification into
one of three point tiers, and renders a one-sentence answer. Queries without
a URL go through LLM name extraction and are answered hypothetically.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// askCmd runs the full pipeline on a free-text query
var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer a credit-point question",
	Long: `Processes a question through the static pipeline:
  1. Extract a Credly badge URL from the query (or LLM-extract a name)
  2. Scrape the badge page
  3. Check expiry-date validity
  4. Classify into a point tier
  5. Render the answer sentence

Examples:
  credpoints ask "How many points for https://www.credly.com/badges/e192db17-f8c5-46aa-8f99-8a565223f1d6?"
  credpoints ask "If I clear AWS Solutions Architect Professional how many points will I get?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// scrapeCmd scrapes a badge or profile page and prints the record as JSON
var scrapeCmd = &cobra.Command{
	Use:   "scrape [url]",
	Short: "Scrape a Credly badge or profile page",
	Args:  cobra.ExactArgs(1),
	RunE:  runScrape,
}

// classifyCmd classifies a certification name
var classifyCmd = &cobra.Command{
	Use:   "classify [name]",
	Short: "Classify a certification name into a point tier",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

// validityCmd checks an expiry line
var validityCmd = &cobra.Command{
	Use:   "validity [expiry-text]",
	Short: "Check whether an expiry line is still valid",
	Long: `Evaluates a raw expiry line against the current date.

Examples:
  credpoints validity "Expires: September 26, 2027"
  credpoints validity "No Expiration Date"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidity,
}

// statusCmd shows system status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show credpoints configuration status",
	RunE:  showStatus,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY env)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", true, "Run the browser headless")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(validityCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// loadConfig loads configuration and applies CLI flag overrides.
func loadConfig() *config.Config {
	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}
	cfg, err := config.Load(filepath.Join(ws, ".credpoints", "config.yaml"))
	if err != nil {
		logger.Warn("failed to load config, using defaults", zap.Error(err))
		cfg = config.DefaultConfig()
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	cfg.Browser.Headless = headless
	return cfg
}

// buildLLM returns the configured LLM client, or nil when no key is set.
func buildLLM(cfg *config.Config) types.LLMClient {
	if cfg.LLM.APIKey == "" {
		return nil
	}
	return perception.NewGeminiClientWithConfig(perception.GeminiConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.GetLLMTimeout(),
	})
}

// buildClassifier opens the tier store when configured, falling back to the
// compiled-in table. The returned closer is a no-op for the fallback.
func buildClassifier(cfg *config.Config) (tools.Classifier, func()) {
	if cfg.Points.DatabasePath == "" {
		return points.Classify, func() {}
	}
	store, err := points.OpenStore(cfg.Points.DatabasePath)
	if err != nil {
		logger.Warn("tier store unavailable, using compiled-in table", zap.Error(err))
		return points.Classify, func() {}
	}
	return store.Classify, func() { _ = store.Close() }
}

// withSignalContext returns a context cancelled by SIGINT/SIGTERM.
func withSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// runAsk executes the full pipeline on a query
func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := withSignalContext(context.Background())
	defer cancel()

	cfg := loadConfig()
	query := strings.Join(args, " ")

	classify, closeStore := buildClassifier(cfg)
	defer closeStore()

	sc := scraper.New(cfg.Browser)
	defer func() {
		if err := sc.Shutdown(context.Background()); err != nil {
			logger.Debug("browser shutdown", zap.Error(err))
		}
	}()

	registry := tools.NewRegistry()
	tools.RegisterAll(registry, sc, classify, nil)

	a := agent.New(registry, buildLLM(cfg))
	outcome, err := a.Answer(ctx, query)
	if err != nil {
		return err
	}

	fmt.Println(sentenceStyle.Render(outcome.Sentence))
	if verbose {
		fmt.Println(detailStyle.Render(fmt.Sprintf("state=%s cert=%q category=%q points=%s reason=%q",
			outcome.State, outcome.CertName, outcome.Classification.Category,
			formatPoints(outcome.CreditPoints), outcome.Validity.Reason)))
	}
	return nil
}

// runScrape scrapes a single page and prints the result as JSON
func runScrape(cmd *cobra.Command, args []string) error {
	ctx, cancel := withSignalContext(context.Background())
	defer cancel()

	cfg := loadConfig()
	url := args[0]

	sc := scraper.New(cfg.Browser)
	defer func() { _ = sc.Shutdown(context.Background()) }()

	var result any
	if _, ok := badge.ExtractBadgeURL(url); ok {
		record, err := sc.ScrapeBadge(ctx, url)
		if err != nil {
			return err
		}
		result = record
	} else if _, ok := badge.ExtractProfileURL(url); ok {
		profile, err := sc.ScrapeProfile(ctx, url)
		if err != nil {
			return err
		}
		result = profile
	} else {
		return fmt.Errorf("not a Credly badge or profile URL: %s", url)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// runClassify classifies a certification name
func runClassify(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	name := strings.Join(args, " ")

	classify, closeStore := buildClassifier(cfg)
	defer closeStore()

	c := classify(name)
	fmt.Println(sentenceStyle.Render(fmt.Sprintf("%s: %s (%s points)", name, c.Category, formatPoints(c.Points))))
	return nil
}

// runValidity checks an expiry line against now
func runValidity(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	result := validity.Check(text, time.Now())

	if result.IsValid {
		if result.HasDaysRemaining {
			fmt.Println(sentenceStyle.Render(fmt.Sprintf("valid (%d days remaining)", result.DaysRemaining)))
		} else {
			fmt.Println(sentenceStyle.Render("valid (no expiration)"))
		}
		return nil
	}
	fmt.Println(errorStyle.Render(fmt.Sprintf("invalid (%s)", result.Reason)))
	return nil
}

// showStatus shows configuration status
func showStatus(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	fmt.Printf("credpoints %s\n\n", cfg.Version)
	fmt.Printf("  LLM provider:   %s (%s)\n", cfg.LLM.Provider, cfg.LLM.Model)
	fmt.Printf("  LLM configured: %v\n", cfg.LLM.APIKey != "")
	fmt.Printf("  Browser:        headless=%v timeout=%s\n", cfg.Browser.Headless, cfg.Browser.NavigationTimeout())
	fmt.Printf("  Tier store:     %s\n", cfg.Points.DatabasePath)
	fmt.Printf("  Debug logging:  %v\n", logging.IsDebugMode())
	return nil
}

func formatPoints(p float64) string {
	s := fmt.Sprintf("%.1f", p)
	return strings.TrimSuffix(s, ".0")
}
