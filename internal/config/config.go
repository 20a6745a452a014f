// Package config loads ulpiano settings from defaults, an optional YAML
// file, a .env file and ULPIANO_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"github.com/alexanderramin/ulpiano/internal/corpus"
	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/alexanderramin/ulpiano/internal/logger"
	"github.com/alexanderramin/ulpiano/internal/retrieval"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when ULPIANO_CONFIG is unset and the file exists.
const DefaultPath = "ulpiano.yaml"

type RateLimitConfig struct {
	Requests int           `yaml:"requests" validate:"gte=0"`
	Window   time.Duration `yaml:"window" validate:"gte=0"`
}

type ServerConfig struct {
	Addr      string          `yaml:"addr" validate:"required"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type CorpusConfig struct {
	corpus.Paths `yaml:",inline"`
	// DB, when set, is a SQLite snapshot that replaces the JSON files.
	DB string `yaml:"db"`
}

type RetrievalConfig struct {
	ExcerptLimit   int    `yaml:"excerpt_limit" validate:"gte=1,lte=50"`
	TopicStrategy  string `yaml:"topic_strategy" validate:"oneof=whole token"`
	ExcerptScoring string `yaml:"excerpt_scoring" validate:"oneof=additive first first-match"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	LLM       llm.LLMConfig   `yaml:"llm"`
	Cache     cache.Config    `yaml:"cache"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Log       LogConfig       `yaml:"log"`

	// Source is the YAML file that was read, empty when none was.
	Source string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":3000",
			RateLimit: RateLimitConfig{Requests: 100, Window: 15 * time.Minute},
		},
		LLM: llm.DefaultConfig(),
		Cache: cache.Config{
			Policy:     cache.PolicyLRU,
			Capacity:   cache.DefaultCapacity,
			MaxEntries: cache.DefaultMaxEntries,
		},
		Corpus: CorpusConfig{Paths: corpus.Paths{
			Glossary: "data/glosario.json",
			Topics:   "data/indice.json",
			Excerpts: "data/digesto.json",
		}},
		Retrieval: RetrievalConfig{
			ExcerptLimit:   retrieval.DefaultExcerptLimit,
			TopicStrategy:  string(retrieval.TopicWhole),
			ExcerptScoring: string(retrieval.ScoringAdditive),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. An explicit path must exist; otherwise
// ULPIANO_CONFIG and then DefaultPath are tried.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = os.Getenv("ULPIANO_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}
	if err := cfg.readFile(path, explicit); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Source = path
	return nil
}

// ApplyEnv overrides fields from ULPIANO_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ULPIANO_ADDR"); v != "" {
		c.Server.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	setInt(&c.Server.RateLimit.Requests, "ULPIANO_RATE_LIMIT_REQUESTS")
	setDuration(&c.Server.RateLimit.Window, "ULPIANO_RATE_LIMIT_WINDOW")

	c.LLM.ApplyEnv()

	if v := os.Getenv("ULPIANO_CACHE_POLICY"); v != "" {
		c.Cache.Policy = cache.Policy(strings.ToLower(v))
	}
	setInt(&c.Cache.Capacity, "ULPIANO_CACHE_CAPACITY")
	setInt(&c.Cache.MaxEntries, "ULPIANO_CACHE_MAX_ENTRIES")
	setDuration(&c.Cache.TTL, "ULPIANO_CACHE_TTL")

	setString(&c.Corpus.Glossary, "ULPIANO_CORPUS_GLOSSARY")
	setString(&c.Corpus.Topics, "ULPIANO_CORPUS_TOPICS")
	setString(&c.Corpus.Excerpts, "ULPIANO_CORPUS_EXCERPTS")
	setString(&c.Corpus.DB, "ULPIANO_CORPUS_DB")

	setInt(&c.Retrieval.ExcerptLimit, "ULPIANO_EXCERPT_LIMIT")
	setString(&c.Retrieval.TopicStrategy, "ULPIANO_TOPIC_STRATEGY")
	setString(&c.Retrieval.ExcerptScoring, "ULPIANO_EXCERPT_SCORING")

	setString(&c.Log.Level, "ULPIANO_LOG_LEVEL")
	if v := os.Getenv("ULPIANO_LOG_JSON"); v != "" {
		c.Log.JSON, _ = strconv.ParseBool(v)
	}
}

var validate = validator.New()

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return e.err }

// ErrorKind implements llm.Kinder.
func (e *ValidationError) ErrorKind() llm.ErrorKind { return llm.KindConfiguration }

// Validate checks field constraints. A missing API key is not an error
// here; commands that call the provider check it with LLM.Check.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{err: err}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return ve
}

// RetrievalConfig converts the retrieval section.
func (c *Config) RetrievalConfig() (retrieval.Config, error) {
	strategy, err := retrieval.ParseTopicStrategy(c.Retrieval.TopicStrategy)
	if err != nil {
		return retrieval.Config{}, err
	}
	scoring, err := retrieval.ParseExcerptScoring(c.Retrieval.ExcerptScoring)
	if err != nil {
		return retrieval.Config{}, err
	}
	return retrieval.Config{
		ExcerptLimit:   c.Retrieval.ExcerptLimit,
		TopicStrategy:  strategy,
		ExcerptScoring: scoring,
	}, nil
}

// LoggerConfig converts the log section for logger.NewLogger.
func (c *Config) LoggerConfig() *logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = logger.ParseLevel(c.Log.Level)
	lc.JSON = c.Log.JSON
	return lc
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func setInt(dst *int, name string) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, name string) {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			*dst = d
		}
	}
}
