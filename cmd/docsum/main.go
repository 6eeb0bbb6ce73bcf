// Package main is the entry point for the docsum CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dgallion1/docsum/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docsum",
	Short: "Summarize PDF course material into a single document",
	Long: `docsum extracts the text of one or more documents, condenses it chunk by
chunk with a summarization model, renders the result to PDF and merges it
behind a title page.

Settings come from flags, DOCSUM_* environment variables, docsum.yaml and
built-in defaults, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal.
		_ = godotenv.Load()

		c, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = c
		logger = cfg.Log.NewLogger(os.Stderr)
		slog.SetDefault(logger)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docsum.yaml or ~/.config/docsum/docsum.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	mustBind("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBind("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Configure(viper.GetViper(), cfgFile)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind %s: %v", key, err))
	}
}
