package cmd

import (
	"fmt"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/viper"
)

// initLogging installs the default logger: a text handler on stderr, fanned
// out to a log file when one is configured.
func initLogging() {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	options := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, options)}

	if logFile := viper.GetString("log-file"); logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open log file %q: %v\n", logFile, err)
		} else {
			// Log files always capture debug records.
			handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
}
