// Package app wires configuration into the running tutor.
package app

import (
	"context"
	"fmt"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"github.com/alexanderramin/ulpiano/internal/config"
	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/db"
	"github.com/alexanderramin/ulpiano/internal/intelligence"
	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/alexanderramin/ulpiano/internal/metrics"
	"github.com/alexanderramin/ulpiano/internal/repository"
	"github.com/alexanderramin/ulpiano/internal/retrieval"
	"github.com/alexanderramin/ulpiano/internal/server"
)

// Runtime holds the read-only corpora and the services built on them.
type Runtime struct {
	Config    *config.Config
	Logger    logger.Logger
	Corpus    *corpus.Repository
	Retriever *retrieval.Retriever
	Cache     cache.Cache
	Metrics   *metrics.Metrics
	Tutor     intelligence.TutorService
}

// Build loads the corpora named by cfg and assembles the runtime.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	repo, err := LoadCorpus(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Assemble(cfg, repo, log)
}

// LoadCorpus reads the SQLite snapshot when corpus.db is set and the JSON
// files otherwise.
func LoadCorpus(ctx context.Context, cfg *config.Config) (*corpus.Repository, error) {
	if cfg.Corpus.DB == "" {
		repo, err := corpus.LoadFiles(cfg.Corpus.Paths)
		if err != nil {
			return nil, fmt.Errorf("loading corpus files: %w", err)
		}
		return repo, nil
	}

	database, err := db.OpenDB(cfg.Corpus.DB)
	if err != nil {
		return nil, fmt.Errorf("opening corpus snapshot: %w", err)
	}
	defer database.Close()

	snapshots := repository.NewSQLiteCorpusRepo(database, db.NewSQLiteUnitOfWork(database))
	repo, err := snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading corpus snapshot %s: %w", cfg.Corpus.DB, err)
	}
	return repo, nil
}

// Assemble builds the retrieval, cache and completion chain over repo.
func Assemble(cfg *config.Config, repo *corpus.Repository, log logger.Logger) (*Runtime, error) {
	if log == nil {
		log = logger.NewNop()
	}
	rcfg, err := cfg.RetrievalConfig()
	if err != nil {
		return nil, err
	}
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	observers := llm.MultiObserver{m}
	if cfg.LLM.LogCalls {
		observers = append(observers, llm.NewLogObserver(log))
	}

	provider := llm.NewGeminiClient(cfg.LLM, observers)
	client := llm.NewCachingClient(provider, c, observers)
	retriever := retrieval.New(repo, rcfg)

	log.Debug("runtime assembled",
		"corpus", repo.Stats(),
		"cache", cfg.Cache.Policy,
		"model", cfg.LLM.Model,
	)
	return &Runtime{
		Config:    cfg,
		Logger:    log,
		Corpus:    repo,
		Retriever: retriever,
		Cache:     c,
		Metrics:   m,
		Tutor:     intelligence.NewTutorService(retriever, client),
	}, nil
}

// Server builds the HTTP server for the runtime.
func (r *Runtime) Server() *server.Server {
	return server.New(r.Tutor, server.Options{
		Addr:       r.Config.Server.Addr,
		RateLimit:  r.Config.Server.RateLimit.Requests,
		RateWindow: r.Config.Server.RateLimit.Window,
		Logger:     r.Logger,
		Metrics:    r.Metrics,
		Cache:      r.Cache,
		Corpus:     r.Corpus.Stats(),
	})
}
