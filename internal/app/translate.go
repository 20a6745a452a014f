package app

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"github.com/alexanderramin/ulpiano/internal/config"
	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/alexanderramin/ulpiano/internal/logger"
)

// TranslationService translates excerpt files through the completion provider.
type TranslationService struct {
	translator *intelligence.DigestTranslator
}

func NewTranslationService(client llm.Client) *TranslationService {
	return &TranslationService{translator: intelligence.NewDigestTranslator(client)}
}

// NewTranslationServiceFromConfig wires the configured provider behind the
// configured response cache.
func NewTranslationServiceFromConfig(cfg *config.Config, log logger.Logger) (*TranslationService, error) {
	if err := cfg.LLM.Check(); err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, err
	}
	var observers llm.MultiObserver
	if cfg.LLM.LogCalls && log != nil {
		observers = append(observers, llm.NewLogObserver(log))
	}
	provider := llm.NewGeminiClient(cfg.LLM, observers)
	return NewTranslationService(llm.NewCachingClient(provider, c, observers)), nil
}

// TranslateDigest reads the excerpts at inputPath (JSON, digest text or
// HTML), translates the fragments that need it and writes them to
// outputPath. Fragments the provider failed on are written with the
// failure marker.
func (s *TranslationService) TranslateDigest(ctx context.Context, inputPath, outputPath string, opts intelligence.TranslateOptions) (*TranslateResult, error) {
	excerpts, err := corpus.LoadExcerpts(inputPath)
	if err != nil {
		return nil, fmt.Errorf("loading digest: %w", err)
	}
	if len(excerpts) == 0 {
		return nil, fmt.Errorf("no digest passages found in %s", inputPath)
	}

	translated, report, err := s.translator.Translate(ctx, excerpts, opts)
	if err != nil {
		return nil, fmt.Errorf("translating digest: %w", err)
	}
	if err := writeExcerpts(outputPath, translated); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("digest translated",
		"input", inputPath,
		"output", outputPath,
		"translated", report.Translated,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	return &TranslateResult{Report: report, OutputPath: outputPath}, nil
}
