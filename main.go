package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/tictactoe-rounds/internal"
	"github.com/rocketscienceinc/tictactoe-rounds/internal/config"
)

func main() {
	conf, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "tictactoe: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(conf)

	if err = app.RunApp(logger, conf); err != nil {
		logger.Error("app run failed", "error", err)
		os.Exit(1)
	}
}

// newLogger - JSON logs on stdout, or on stderr when the console game owns stdout.
func newLogger(conf *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if conf.Mode == config.ModeConsole {
		out = os.Stderr
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: conf.Level()}))
}
