package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// TaskType identifies the kind of completion being requested.
type TaskType string

const (
	TaskDefine       TaskType = "define"
	TaskGenerateCase TaskType = "generate_case"
	TaskResolveCase  TaskType = "resolve_case"
	TaskModernLaw    TaskType = "modern_law"
	TaskKinship      TaskType = "kinship"
	TaskTranslate    TaskType = "translate"
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutMs   int     `yaml:"timeout_ms"` // overrides global if > 0
}

// LLMConfig holds all configuration for the completion subsystem.
type LLMConfig struct {
	LogCalls      bool                    `yaml:"log_calls"`
	BaseURL       string                  `yaml:"base_url" validate:"required,url"`
	Model         string                  `yaml:"model" validate:"required"`
	APIKey        string                  `yaml:"api_key"`
	TimeoutMs     int                     `yaml:"timeout_ms" validate:"gt=0"`
	MaxAttempts   int                     `yaml:"max_attempts" validate:"gte=1,lte=10"`
	BackoffBaseMs int                     `yaml:"backoff_base_ms" validate:"gt=0"`
	BackoffMaxMs  int                     `yaml:"backoff_max_ms" validate:"gte=0"`
	Tasks         map[TaskType]TaskConfig `yaml:"tasks"`
}

// DefaultBaseURL is the Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultConfig returns an LLMConfig with the production defaults. The API
// key is left empty.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		BaseURL:       DefaultBaseURL,
		Model:         "gemini-pro-latest",
		TimeoutMs:     30000,
		MaxAttempts:   3,
		BackoffBaseMs: 1000,
		BackoffMaxMs:  16000,
		Tasks: map[TaskType]TaskConfig{
			TaskDefine:       {Temperature: 0.4, MaxTokens: 2048, TimeoutMs: 60000},
			TaskGenerateCase: {Temperature: 0.8, MaxTokens: 512},
			TaskResolveCase:  {Temperature: 0.3, MaxTokens: 512},
			TaskModernLaw:    {Temperature: 0.3, MaxTokens: 512},
			TaskKinship:      {Temperature: 0.1, MaxTokens: 512},
			TaskTranslate:    {Temperature: 0.2, MaxTokens: 2048},
		},
	}
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for any unset values.
func LoadConfig() LLMConfig {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides cfg with any ULPIANO_LLM_* variables that are set.
// GEMINI_API_KEY is accepted when ULPIANO_LLM_API_KEY is unset.
func (c *LLMConfig) ApplyEnv() {
	if v := os.Getenv("ULPIANO_LLM_LOG_CALLS"); v != "" {
		c.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("ULPIANO_LLM_BASE_URL"); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("ULPIANO_LLM_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("ULPIANO_LLM_API_KEY"); v != "" {
		c.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	applyPositiveInt(&c.TimeoutMs, "ULPIANO_LLM_TIMEOUT_MS")
	applyPositiveInt(&c.MaxAttempts, "ULPIANO_LLM_MAX_ATTEMPTS")
	applyPositiveInt(&c.BackoffBaseMs, "ULPIANO_LLM_BACKOFF_BASE_MS")
	applyPositiveInt(&c.BackoffMaxMs, "ULPIANO_LLM_BACKOFF_MAX_MS")

	applyTaskTimeoutEnv(c, TaskDefine, "ULPIANO_LLM_DEFINE_TIMEOUT_MS")
	applyTaskTimeoutEnv(c, TaskGenerateCase, "ULPIANO_LLM_GENERATE_CASE_TIMEOUT_MS")
	applyTaskTimeoutEnv(c, TaskResolveCase, "ULPIANO_LLM_RESOLVE_CASE_TIMEOUT_MS")
	applyTaskTimeoutEnv(c, TaskModernLaw, "ULPIANO_LLM_MODERN_LAW_TIMEOUT_MS")
	applyTaskTimeoutEnv(c, TaskKinship, "ULPIANO_LLM_KINSHIP_TIMEOUT_MS")
	applyTaskTimeoutEnv(c, TaskTranslate, "ULPIANO_LLM_TRANSLATE_TIMEOUT_MS")
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return time.Duration(tc.TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RetryPolicy builds the retry policy described by the config.
func (c LLMConfig) RetryPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	if c.BackoffBaseMs > 0 {
		p.BaseDelay = time.Duration(c.BackoffBaseMs) * time.Millisecond
	}
	if c.BackoffMaxMs >= 0 {
		p.MaxDelay = time.Duration(c.BackoffMaxMs) * time.Millisecond
	}
	return p
}

// Check reports ErrNotConfigured when the provider cannot be called.
func (c LLMConfig) Check() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: set ULPIANO_LLM_API_KEY or GEMINI_API_KEY", ErrNotConfigured)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model is empty", ErrNotConfigured)
	}
	return nil
}

func applyPositiveInt(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		*dst = n
	}
}

func applyTaskTimeoutEnv(cfg *LLMConfig, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	if cfg.Tasks == nil {
		cfg.Tasks = make(map[TaskType]TaskConfig)
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
