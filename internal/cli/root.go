// Package cli implements the ulpiano command tree.
package cli

import (
	"context"

	ulpianoapp "github.com/alexanderramin/ulpiano/internal/app"
	"github.com/alexanderramin/ulpiano/internal/config"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/spf13/cobra"
)

// App holds the configuration and use cases the commands run against.
// Nil use cases fall back to the defaults built from Config.
type App struct {
	Config *config.Config
	Logger logger.Logger

	// Build assembles the tutor runtime. Defaults to app.Build.
	Build         func(ctx context.Context, cfg *config.Config, log logger.Logger) (*ulpianoapp.Runtime, error)
	ImportCorpus  ulpianoapp.ImportCorpusUseCase
	ConvertDigest ulpianoapp.ConvertDigestUseCase
	// TranslateDigest defaults to the configured provider.
	TranslateDigest ulpianoapp.TranslateDigestUseCase

	// IsInteractive reports whether a terminal is attached. Spinners are
	// shown only when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "ulpiano" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "ulpiano",
		Short:         "Roman law tutor backed by a glossary, a manual index and the Digest",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" && app.Config != nil {
				return nil
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			app.Config = cfg
			app.Logger = logger.NewLogger(cfg.LoggerConfig())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: $ULPIANO_CONFIG or ./ulpiano.yaml)")

	root.AddCommand(
		newServeCmd(app),
		newAskCmd(app),
		newPageCmd(app),
		newModernCmd(app),
		newKinshipCmd(app),
		newCorpusCmd(app),
	)

	return root
}

func (a *App) logger() logger.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return logger.NewNop()
}

// context attaches the App's logger to the command context.
func (a *App) context(cmd *cobra.Command) context.Context {
	return logger.ContextWithLogger(cmd.Context(), a.logger())
}

func (a *App) runtime(ctx context.Context) (*ulpianoapp.Runtime, error) {
	if a.Build != nil {
		return a.Build(ctx, a.Config, a.logger())
	}
	return ulpianoapp.Build(ctx, a.Config, a.logger())
}

func (a *App) importCorpusUseCase() ulpianoapp.ImportCorpusUseCase {
	if a.ImportCorpus != nil {
		return a.ImportCorpus
	}
	return ulpianoapp.NewCorpusService(a.Config.Corpus.Paths)
}

func (a *App) convertDigestUseCase() ulpianoapp.ConvertDigestUseCase {
	if a.ConvertDigest != nil {
		return a.ConvertDigest
	}
	return ulpianoapp.NewCorpusService(a.Config.Corpus.Paths)
}

func (a *App) translateDigestUseCase() (ulpianoapp.TranslateDigestUseCase, error) {
	if a.TranslateDigest != nil {
		return a.TranslateDigest, nil
	}
	return ulpianoapp.NewTranslationServiceFromConfig(a.Config, a.logger())
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
