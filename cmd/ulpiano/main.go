package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/ulpiano/internal/cli"
	"github.com/alexanderramin/ulpiano/internal/config"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A --config flag reloads this inside the root command.
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	app := &cli.App{
		Config: cfg,
		Logger: logger.NewLogger(cfg.LoggerConfig()),
	}

	// Spinners only make sense when a person is watching stderr.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}
