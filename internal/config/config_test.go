package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/alexanderramin/ulpiano/internal/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray ulpiano.yaml
// or .env is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ULPIANO_CONFIG", "ULPIANO_ADDR", "PORT", "ULPIANO_LLM_API_KEY", "GEMINI_API_KEY",
		"ULPIANO_CACHE_POLICY", "ULPIANO_CACHE_TTL", "ULPIANO_EXCERPT_LIMIT",
		"ULPIANO_TOPIC_STRATEGY", "ULPIANO_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 100, cfg.Server.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.Server.RateLimit.Window)
	assert.Equal(t, cache.PolicyLRU, cfg.Cache.Policy)
	assert.Equal(t, 50, cfg.Cache.Capacity)
	assert.Equal(t, "gemini-pro-latest", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, 3, cfg.Retrieval.ExcerptLimit)
	assert.Empty(t, cfg.Source)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
cache:
  policy: map
  max_entries: 10
  ttl: 10m
retrieval:
  topic_strategy: token
  excerpt_scoring: first
llm:
  model: gemini-test
corpus:
  glossary: g.json
  db: corpus.db
`), 0o644))
	t.Setenv("ULPIANO_CONFIG", path)
	t.Setenv("ULPIANO_ADDR", ":9090")
	t.Setenv("GEMINI_API_KEY", "k")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, ":9090", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, cache.PolicyMap, cfg.Cache.Policy)
	assert.Equal(t, 10, cfg.Cache.MaxEntries)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "gemini-test", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts, "unset keys keep defaults")
	assert.Equal(t, "k", cfg.LLM.APIKey)
	assert.Equal(t, "g.json", cfg.Corpus.Glossary)
	assert.Equal(t, "data/indice.json", cfg.Corpus.Topics)
	assert.Equal(t, "corpus.db", cfg.Corpus.DB)

	rc, err := cfg.RetrievalConfig()
	require.NoError(t, err)
	assert.Equal(t, retrieval.TopicToken, rc.TopicStrategy)
	assert.Equal(t, retrieval.ScoringFirstMatch, rc.ExcerptScoring)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPath), []byte("log:\n  level: debug\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, cfg.Source)
	assert.Equal(t, logger.DebugLevel, cfg.LoggerConfig().Level)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	os.Unsetenv("ULPIANO_LLM_API_KEY")
	t.Cleanup(func() { os.Unsetenv("ULPIANO_LLM_API_KEY") })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ULPIANO_LLM_API_KEY=from-dotenv\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.LLM.APIKey)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	_, err := Load("nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "Addr"},
		{"bad policy", func(c *Config) { c.Cache.Policy = "fifo" }, "Policy"},
		{"bad strategy", func(c *Config) { c.Retrieval.TopicStrategy = "fuzzy" }, "TopicStrategy"},
		{"zero limit", func(c *Config) { c.Retrieval.ExcerptLimit = 0 }, "ExcerptLimit"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"zero attempts", func(c *Config) { c.LLM.MaxAttempts = 0 }, "MaxAttempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Error(), tt.field)
			assert.Equal(t, llm.KindConfiguration, llm.Kind(err))
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestApplyEnv_Port(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4000")
	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, ":4000", cfg.Server.Addr)
}
