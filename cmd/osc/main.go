// Command osc sends, receives and decodes Open Sound Control packets.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// GlobalFlags holds the flags shared by every subcommand.
type GlobalFlags struct {
	LogLevel  string
	LogFormat string
}

var (
	globalFlags GlobalFlags
	logger      zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "osc",
	Short:         "Send, receive and decode OSC 1.0 packets",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(cmd.ErrOrStderr(), globalFlags)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "info", "log level: trace|debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "console", "log format: console|json")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(decodeCmd)
}

func newLogger(w io.Writer, f GlobalFlags) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(f.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("--log-level: %w", err)
	}

	switch f.LogFormat {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	case "json":
	default:
		return zerolog.Logger{}, fmt.Errorf("--log-format: unknown format %q", f.LogFormat)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
