package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/config"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

var (
	envFile     string
	cfg         *config.Config
	logger      zerolog.Logger
	omekaClient *omeka.Client
	operations  *collection.Operations

	// Command flags
	dryRun    bool
	itemSetID string
	logLevel  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "omeka2dsp",
	Short: "Sync Omeka S item metadata and media for DSP ingestion",
	Long: `omeka2dsp reads the items of an Omeka S item set, flattens their
metadata, downloads their media files and writes DSP resource URIs back
into the source items.

Configuration is read from environment variables, optionally loaded
from a .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default is ./.env if present)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "log write-backs instead of performing them")
	rootCmd.PersistentFlags().StringVar(&itemSetID, "item-set", "", "item set id (overrides ITEM_SET_ID)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(writebackCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(selfUpdateCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override from command line if specified
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}
	if cmd.Flags().Changed("item-set") {
		if _, err := strconv.Atoi(itemSetID); err != nil {
			return fmt.Errorf("invalid --item-set: %q", itemSetID)
		}
		cfg.Omeka.ItemSetID = itemSetID
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(logLevel)
	}

	logger = setupLogger(cfg.Logging)

	terms, err := cfg.Omeka.PropertyTerms()
	if err != nil {
		return err
	}

	opts := []omeka.Option{
		omeka.WithPageSize(cfg.Omeka.PerPage),
		omeka.WithRateLimit(cfg.Omeka.RateLimit),
		omeka.WithVocabulary(omeka.DefaultVocabulary().With(terms)),
	}
	if cfg.Omeka.Timeout > 0 {
		opts = append(opts, omeka.WithTimeout(cfg.Omeka.Timeout))
	}

	creds := omeka.Credentials{
		Identity:   cfg.Omeka.KeyIdentity,
		Credential: cfg.Omeka.KeyCredential,
	}
	omekaClient, err = omeka.NewClient(cfg.Omeka.APIURL, creds, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Omeka client: %w", err)
	}

	if !cfg.Omeka.HasCredentials() {
		logger.Warn().Msg("KEY_IDENTITY and KEY_CREDENTIAL not set, using anonymous access")
	}

	operations = collection.NewOperations(omekaClient, logger)

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	runID := uuid.NewString()

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Str("run_id", runID).Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Str("run_id", runID).Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to Omeka",
	Long:  `Test the connection to the Omeka S API and display basic information about the configured item set.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Printf("Testing connection to Omeka at %s...\n", omekaClient.BaseURL())

	if err := omekaClient.TestConnection(ctx); err != nil {
		var reqErr *omeka.RequestError
		if errors.As(err, &reqErr) && reqErr.IsUnauthorized() {
			fmt.Println("✗ Omeka rejected the request; check KEY_IDENTITY and KEY_CREDENTIAL")
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Println("✓ Connection successful!")

	items := omekaClient.GetItemsFromCollection(ctx, cfg.Omeka.ItemSetID)

	fmt.Printf("\nOmeka Statistics:\n")
	fmt.Printf("- Item set: %s\n", cfg.Omeka.ItemSetID)
	fmt.Printf("- Items: %d\n", len(items))
	fmt.Printf("- Authenticated: %s\n", boolToStatus(cfg.Omeka.HasCredentials()))
	fmt.Printf("- Dry run: %s\n", boolToStatus(cfg.Safety.DryRun))

	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}

// parseItemID parses an item id argument
func parseItemID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id: %q", s)
	}
	return id, nil
}
