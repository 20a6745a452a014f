package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ulpiano/internal/cli/formatter"
	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/alexanderramin/ulpiano/internal/repository"
	"github.com/spf13/cobra"
)

// defaultSnapshotPath is used by "corpus import" when corpus.db is unset.
const defaultSnapshotPath = "data/ulpiano.db"

func newCorpusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the glossary, topic index and Digest corpora",
	}

	cmd.AddCommand(
		newCorpusImportCmd(app),
		newCorpusDigestCmd(app),
		newCorpusTranslateCmd(app),
		newCorpusStatsCmd(app),
	)

	return cmd
}

func newCorpusImportCmd(app *App) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the corpus files into the SQLite snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = app.Config.Corpus.DB
			}
			if dbPath == "" {
				dbPath = defaultSnapshotPath
			}
			res, err := app.importCorpusUseCase().ImportCorpus(app.context(cmd), dbPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImport(res.Record, res.DBPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Snapshot database path (default: corpus.db or "+defaultSnapshotPath+")")

	return cmd
}

func newCorpusDigestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "digest <input> <output.json>",
		Short: "Split a raw Digest text or HTML page into the excerpt JSON format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.convertDigestUseCase().ConvertDigest(app.context(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDigest(n, args[1]))
			return nil
		},
	}
}

func newCorpusTranslateCmd(app *App) *cobra.Command {
	var (
		pause  time.Duration
		force  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "translate <input> <output.json>",
		Short: "Translate the Latin digest fragments into Spanish",
		Long: `Translate every fragment of a digest (excerpt JSON, raw text or HTML) that
has no Spanish text yet and write the excerpt JSON the tutor loads.
Fragments the provider could not translate are written as
` + intelligence.FailedTranslation + ` and are retried on the next run.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := app.translateDigestUseCase()
			if err != nil {
				return err
			}
			stop := app.spin(cmd, "Traduciendo el Digesto...")
			res, err := uc.TranslateDigest(app.context(cmd), args[0], args[1], intelligence.TranslateOptions{Pause: pause, Force: force})
			stop()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res.Report)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTranslation(res.Report, res.OutputPath))
			return nil
		},
	}

	cmd.Flags().DurationVar(&pause, "pause", intelligence.DefaultTranslatePause, "Minimum gap between provider calls")
	cmd.Flags().BoolVar(&force, "force", false, "Translate fragments that already have a translation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the counts as JSON")

	return cmd
}

func newCorpusStatsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many entries each corpus holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.context(cmd)
			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}
			stats := rt.Corpus.Stats()

			var last *repository.ImportRecord
			if app.Config.Corpus.DB != "" {
				last, err = app.importCorpusUseCase().LatestImport(ctx, app.Config.Corpus.DB)
				if err != nil && !errors.Is(err, repository.ErrNotFound) {
					return err
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					corpus.Stats
					LastImport *repository.ImportRecord `json:"last_import,omitempty"`
				}{stats, last})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStats(stats, last))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the counts as JSON")

	return cmd
}
