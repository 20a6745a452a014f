package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// safetySettings block medium and higher harm probabilities in the four
// categories the provider supports.
var safetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	SafetySettings   []safetySetting   `json:"safetySettings,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

// geminiClient implements Client using the Gemini generateContent API.
type geminiClient struct {
	cfg      LLMConfig
	http     *resty.Client
	policy   RetryPolicy
	observer Observer
}

// NewGeminiClient creates a Client for the Gemini REST API. The API key is
// sent as a header and never appears in URLs or error messages.
func NewGeminiClient(cfg LLMConfig, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetTransport(&http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 5 * time.Second,
			}).DialContext,
		})
	return &geminiClient{
		cfg:      cfg,
		http:     client,
		policy:   cfg.RetryPolicy(),
		observer: observer,
	}
}

func (c *geminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if err := c.cfg.Check(); err != nil {
		c.report(req.Task, start, 0, err)
		return nil, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.cfg.TaskTimeout(req.Task)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body := c.buildRequest(req)

	var text, model string
	attempts, err := c.policy.Do(ctx, func(ctx context.Context, _ int) error {
		var callErr error
		text, model, callErr = c.doRequest(ctx, body)
		return callErr
	})

	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
			err = fmt.Errorf("%w after %s", ErrTimeout, timeout)
		case ctx.Err() != nil:
			err = ctx.Err()
		}
		c.report(req.Task, start, attempts, err)
		return nil, err
	}

	c.report(req.Task, start, attempts, nil)
	if model == "" {
		model = c.cfg.Model
	}
	return &Response{
		Text:      text,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
	}, nil
}

func (c *geminiClient) buildRequest(req Request) geminiRequest {
	body := geminiRequest{
		Contents:       []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		SafetySettings: safetySettings,
	}
	gen := &generationConfig{}
	if tc, ok := c.cfg.Tasks[req.Task]; ok {
		if tc.Temperature > 0 {
			temp := tc.Temperature
			gen.Temperature = &temp
		}
		gen.MaxOutputTokens = tc.MaxTokens
	}
	if req.JSON {
		gen.ResponseMimeType = "application/json"
	}
	if gen.Temperature != nil || gen.MaxOutputTokens > 0 || gen.ResponseMimeType != "" {
		body.GenerationConfig = gen
	}
	return body
}

// doRequest performs a single provider call and classifies the outcome.
func (c *geminiClient) doRequest(ctx context.Context, body geminiRequest) (string, string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/models/" + c.cfg.Model + ":generateContent")
	if err != nil {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		return "", "", fmt.Errorf("%w: %v", ErrProviderUnavailable, redact(err.Error(), c.cfg.APIKey))
	}

	raw := resp.Body()
	code := resp.StatusCode()
	if code == http.StatusServiceUnavailable || gjson.GetBytes(raw, "error.code").Int() == http.StatusServiceUnavailable {
		return "", "", fmt.Errorf("%w: %s", ErrOverloaded, providerMessage(raw, code))
	}
	if code != http.StatusOK {
		return "", "", fmt.Errorf("%w: status %d: %s", ErrProviderRejected, code, redact(providerMessage(raw, code), c.cfg.APIKey))
	}

	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text")
	if !text.Exists() || strings.TrimSpace(text.String()) == "" {
		reason := gjson.GetBytes(raw, "candidates.0.finishReason").String()
		if block := gjson.GetBytes(raw, "promptFeedback.blockReason").String(); block != "" {
			reason = block
		}
		if reason == "" {
			reason = "no candidate text"
		}
		return "", "", fmt.Errorf("%w: %s", ErrMalformedResponse, reason)
	}
	return text.String(), gjson.GetBytes(raw, "modelVersion").String(), nil
}

func (c *geminiClient) report(task TaskType, start time.Time, attempts int, err error) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:      task,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   err == nil,
		ErrorCode: string(Kind(err)),
	})
}

func providerMessage(raw []byte, code int) string {
	if msg := gjson.GetBytes(raw, "error.message").String(); msg != "" {
		return msg
	}
	return http.StatusText(code)
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "[redacted]")
}
