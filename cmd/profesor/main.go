package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikitagawde10/spanish-professor/internal/config"
)

// globalFlags holds flags shared across all commands.
type globalFlags struct {
	ConfigPath string
	LogLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "profesor",
		Short: "Spanish tutor for beginners, backed by a language model and linguistic tools",
		Long: "profesor answers beginner Spanish questions (vocabulary, pronunciation, grammar, numbers).\n" +
			"Without a subcommand it starts the HTTP server.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "optional TOML config file")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newAskCmd(flags))
	root.AddCommand(newConjugateCmd())
	root.AddCommand(newIPACmd())
	root.AddCommand(newNumberCmd())
	return root
}

// newLogger builds the process logger. Output goes to stderr so stdout stays
// clean for answers.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// loadConfig reads and validates configuration. A missing model credential
// is a hard failure.
func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
