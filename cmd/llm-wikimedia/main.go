// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the llm-wikimedia CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/llm-wikimedia/internal/logging"
	"github.com/pdiddy/llm-wikimedia/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets
	// logger is built from the log settings before any command runs.
	logger = logging.Discard()
	// configErr records a failure to read an explicitly named config file.
	configErr error
)

// rootCmd is the base command for the llm-wikimedia CLI.
var rootCmd = &cobra.Command{
	Use:   "llm-wikimedia",
	Short: "Fetch Wikipedia and Wiktionary articles for LLM prompts",
	Long: `llm-wikimedia fetches the raw wikitext of the latest revision of a
Wikipedia or Wiktionary page through the MediaWiki Special:Export endpoint.

It can print an article, act as a function-calling tool, resolve
wikipedia:/wiktionary: fragment references, and split an article into
top-level sections and embed them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		l, err := logging.NewLogger(os.Stderr, viper.GetString("log_level"), viper.GetString("log_format"))
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.WithField("file", f).Debug("using config file")
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			logger.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./llm-wikimedia.yaml or ~/.config/llm-wikimedia/llm-wikimedia.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default warn)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json (default text)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("llm-wikimedia")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "llm-wikimedia"))
		}
	}

	viper.SetEnvPrefix("LLM_WIKIMEDIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		configErr = fmt.Errorf("reading config file %s: %w", cfgFile, err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
