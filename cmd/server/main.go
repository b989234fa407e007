package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docqa/config"
)

var (
	version = "0.1.0"
	cfg     config.AppConfig
)

func main() {
	root := &cobra.Command{
		Use:     "docqa",
		Short:   "Document ingestion and question answering over company files",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			slog.SetDefault(newLogger(cfg))
			return nil
		},
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(ingestDirCmd())
	root.AddCommand(exportTrainingCmd())

	if err := root.Execute(); err != nil {
		slog.Error("exit", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
