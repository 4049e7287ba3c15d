package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/appengine-ltd/survive-it/internal/config"
)

// version, commit, date are injected at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
