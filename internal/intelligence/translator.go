package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"github.com/alexanderramin/ulpiano/internal/domain"
	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/alexanderramin/ulpiano/internal/prompt"
	"golang.org/x/time/rate"
)

// FailedTranslation replaces the translation of a fragment the provider
// could not translate. Fragments carrying it are retried on the next run.
const FailedTranslation = "[TRADUCCIÓN FALLIDA]"

// DefaultTranslatePause spaces consecutive provider calls.
const DefaultTranslatePause = 500 * time.Millisecond

// TranslateOptions controls a translation run.
type TranslateOptions struct {
	// Pause is the minimum gap between provider calls. Zero means no pause.
	Pause time.Duration
	// Force translates fragments that already have a translation.
	Force bool
}

// TranslateReport counts the outcome of a translation run.
type TranslateReport struct {
	Translated int `json:"translated"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// DigestTranslator fills the Spanish text of digest fragments one at a time.
type DigestTranslator struct {
	client llm.Client
}

// NewDigestTranslator translates through client. Wrap client in an
// llm.CachingClient so reruns do not pay for fragments already translated.
func NewDigestTranslator(client llm.Client) *DigestTranslator {
	return &DigestTranslator{client: client}
}

// Translate returns a copy of excerpts with TranslatedText filled in. A
// provider failure marks that fragment with FailedTranslation and the run
// continues; only cancellation or a missing provider configuration abort it.
func (t *DigestTranslator) Translate(ctx context.Context, excerpts []domain.ExcerptEntry, opts TranslateOptions) ([]domain.ExcerptEntry, TranslateReport, error) {
	log := logger.FromContext(ctx)
	limit := rate.Inf
	if opts.Pause > 0 {
		limit = rate.Every(opts.Pause)
	}
	pacer := rate.NewLimiter(limit, 1)

	out := make([]domain.ExcerptEntry, len(excerpts))
	copy(out, excerpts)

	var report TranslateReport
	for i := range out {
		e := &out[i]
		source := strings.TrimSpace(e.SourceText)
		if source == "" || (!opts.Force && e.TranslatedText != "" && e.TranslatedText != FailedTranslation) {
			report.Skipped++
			continue
		}
		if err := pacer.Wait(ctx); err != nil {
			return nil, report, err
		}

		text, err := t.translate(ctx, e.Citation, source)
		switch {
		case err == nil:
			e.TranslatedText = text
			report.Translated++
		case ctx.Err() != nil:
			return nil, report, ctx.Err()
		case errors.Is(err, llm.ErrNotConfigured):
			return nil, report, err
		default:
			log.Warn("translation failed", "citation", e.Citation, "error", err)
			e.TranslatedText = FailedTranslation
			report.Failed++
		}
		log.Debug("fragment processed", "citation", e.Citation, "n", i+1, "total", len(out))
	}
	return out, report, nil
}

func (t *DigestTranslator) translate(ctx context.Context, citation, source string) (string, error) {
	resp, err := t.client.Complete(ctx, llm.Request{
		Task:     llm.TaskTranslate,
		Prompt:   prompt.Translate(citation, source),
		CacheKey: cache.TextKey(source, string(llm.TaskTranslate)),
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty translation", llm.ErrMalformedResponse)
	}
	return text, nil
}
