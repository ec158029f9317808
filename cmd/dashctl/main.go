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
)

var (
	// Global flags
	apiURL   string
	token    string
	email    string
	password string
	verbose  bool
	timeout  time.Duration

	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dashctl",
	Short: "Work with dispatch admin list views from the terminal",
	Long: `dashctl opens the same filtered list views as the admin dashboard.

A view can be seeded from a shared dashboard URL and adjusted with flags;
the canonical query is printed so the result can be shared back.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("DASHCTL_API", "http://localhost:8080"), "Admin API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("DASHCTL_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().StringVar(&email, "email", os.Getenv("DASHCTL_EMAIL"), "Admin email, used when no token is set")
	rootCmd.PersistentFlags().StringVar(&password, "password", os.Getenv("DASHCTL_PASSWORD"), "Admin password")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(bookingsCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
