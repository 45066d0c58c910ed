package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/dataglance/internal/config"
	"github.com/KaramelBytes/dataglance/internal/logging"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/KaramelBytes/dataglance/cmd.version=..."
var version = "dev"

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger      = slog.Default()
	closeLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:     "dataglance",
	Short:   "dataglance: upload a CSV and explore it",
	Long:    `dataglance loads a CSV (or XLSX) dataset, summarizes every column, draws default charts and exports the data back out, from a browser dashboard or the command line.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	closeLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataglance/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so read-only commands still work
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{PreviewRows: 5, ListenAddr: ":8501", SessionTTLMinutes: 60}
	}
	cfg = c
}

// setupLogger replaces the process logger from the loaded config and --debug.
func setupLogger() error {
	if cfg == nil {
		loadConfig()
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	l, closeFn, err := logging.SetupLogger(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		SeqURL: cfg.SeqURL,
		Output: os.Stderr,
	})
	if err != nil {
		return err
	}
	closeLogger()
	logger, closeLogger = l, closeFn
	slog.SetDefault(logger)
	return nil
}
