package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"admissions/internal/common/config"
	"admissions/internal/common/logger"
	"admissions/internal/submission"
	"admissions/internal/tui"
	"admissions/internal/wizard"
)

var (
	// Global flags
	verbose   bool
	serverURL string
	timeout   time.Duration
	logFile   string

	zapLog *zap.Logger
	log    logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "apply",
	Short: "Royal African College application for admission",
	Long: `apply walks an applicant through the five-step admission form
(personal information, education, essays, credentials, review) and submits
it to the admission service.

Run without arguments to start the interactive form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if serverURL == "" || !cmd.Flags().Changed("timeout") {
			cfg, err := config.Load()
			if err == nil {
				if serverURL == "" {
					serverURL = cfg.Client.BaseURL
				}
				if !cmd.Flags().Changed("timeout") {
					timeout = config.GetDuration(cfg.Client.Timeout)
				}
			}
		}
		if serverURL == "" {
			serverURL = "http://localhost:8080"
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		// The interactive form owns the terminal.
		switch {
		case logFile != "":
			zcfg.OutputPaths = []string{logFile}
			zcfg.ErrorOutputPaths = []string{logFile}
		case cmd == cmd.Root():
			zapLog = zap.NewNop()
			log = logger.NewZapAdapter(zapLog)
			return nil
		}
		var err error
		zapLog, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = logger.NewZapAdapter(zapLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			_ = zapLog.Sync()
		}
	},
	RunE: runWizard,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Admission service base URL (default: client.base_url)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resendCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *submission.Client {
	return submission.NewClient(serverURL, timeout, log)
}

// runWizard starts the interactive form.
func runWizard(cmd *cobra.Command, args []string) error {
	session := wizard.NewSession(newClient(), log)
	log.Info("starting application wizard", map[string]interface{}{"server": serverURL})
	return tui.Run(cmd.Context(), session)
}
