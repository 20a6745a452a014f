package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alexanderramin/ulpiano/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testConfig(baseURL string) LLMConfig {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.APIKey = "test-key"
	cfg.Model = "gemini-test"
	cfg.BackoffBaseMs = 1
	cfg.BackoffMaxMs = 5
	return cfg
}

func TestGeminiClient_Complete_Success(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.Reply("La compraventa es un contrato consensual."))

	client := NewGeminiClient(testConfig(stub.URL()), NoopObserver{})
	resp, err := client.Complete(context.Background(), Request{
		Task:   TaskDefine,
		Prompt: "Define compraventa",
		JSON:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, "La compraventa es un contrato consensual.", resp.Text)
	assert.Equal(t, "gemini-test", resp.Model)
	assert.Equal(t, 1, resp.Attempts)
	assert.False(t, resp.Cached)

	assert.Equal(t, "/models/gemini-test:generateContent", stub.LastPath())
	assert.Equal(t, "test-key", stub.LastAPIKey())
	assert.Equal(t, "Define compraventa", stub.LastPrompt())

	body := stub.LastBody()
	assert.Equal(t, "application/json", gjson.GetBytes(body, "generationConfig.responseMimeType").String())
	assert.Len(t, gjson.GetBytes(body, "safetySettings").Array(), 4)
	assert.Equal(t, "BLOCK_MEDIUM_AND_ABOVE", gjson.GetBytes(body, "safetySettings.0.threshold").String())
}

func TestGeminiClient_Complete_RetriesOverloadThenSucceeds(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.Overloaded, testutil.Overloaded, testutil.Reply("respuesta"))

	cfg := testConfig(stub.URL())
	cfg.MaxAttempts = 3

	client := NewGeminiClient(cfg, NoopObserver{})
	resp, err := client.Complete(context.Background(), Request{Task: TaskResolveCase, Prompt: "caso"})

	require.NoError(t, err)
	assert.Equal(t, "respuesta", resp.Text)
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, 3, stub.Calls())
}

func TestGeminiClient_Complete_RetryCap(t *testing.T) {
	for _, attempts := range []int{1, 2, 4} {
		stub := testutil.NewGeminiStub(t, testutil.Overloaded)

		cfg := testConfig(stub.URL())
		cfg.MaxAttempts = attempts

		client := NewGeminiClient(cfg, NoopObserver{})
		_, err := client.Complete(context.Background(), Request{Task: TaskDefine, Prompt: "p"})

		assert.ErrorIs(t, err, ErrOverloaded)
		assert.Equal(t, KindOverloaded, Kind(err))
		assert.Equal(t, attempts, stub.Calls())
	}
}

func TestGeminiClient_Complete_OverloadInBody(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.StubReply{
		Status: http.StatusOK,
		Body:   testutil.GeminiError(503, "The model is overloaded."),
	})

	cfg := testConfig(stub.URL())
	cfg.MaxAttempts = 2

	_, err := NewGeminiClient(cfg, NoopObserver{}).Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrOverloaded)
	assert.Equal(t, 2, stub.Calls())
}

func TestGeminiClient_Complete_MalformedIsRetried(t *testing.T) {
	stub := testutil.NewGeminiStub(t,
		testutil.StubReply{Status: http.StatusOK, Body: `{"candidates":[{"finishReason":"SAFETY"}]}`},
		testutil.Reply("ok"),
	)

	resp, err := NewGeminiClient(testConfig(stub.URL()), NoopObserver{}).Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 2, stub.Calls())
}

func TestGeminiClient_Complete_MalformedExhausted(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.StubReply{Status: http.StatusOK, Body: `{}`})

	_, err := NewGeminiClient(testConfig(stub.URL()), NoopObserver{}).Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, KindMalformed, Kind(err))
	assert.Equal(t, 3, stub.Calls())
}

func TestGeminiClient_Complete_RejectedIsNotRetried(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.StubReply{
		Status: http.StatusBadRequest,
		Body:   `{"error":{"code":400,"message":"API key not valid"}}`,
	})

	_, err := NewGeminiClient(testConfig(stub.URL()), NoopObserver{}).Complete(context.Background(), Request{Prompt: "p"})
	require.ErrorIs(t, err, ErrProviderRejected)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.NotContains(t, err.Error(), "test-key")
	assert.Equal(t, 1, stub.Calls())
}

func TestGeminiClient_Complete_Timeout(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.StubReply{Status: http.StatusOK, Text: "late", Delay: 2 * time.Second})

	cfg := testConfig(stub.URL())
	cfg.Tasks = map[TaskType]TaskConfig{TaskDefine: {TimeoutMs: 50}}

	start := time.Now()
	_, err := NewGeminiClient(cfg, NoopObserver{}).Complete(context.Background(), Request{Task: TaskDefine, Prompt: "p"})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, KindTimeout, Kind(err))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, stub.Calls())
}

func TestGeminiClient_Complete_RequestTimeoutOverride(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.StubReply{Status: http.StatusOK, Text: "late", Delay: 2 * time.Second})

	_, err := NewGeminiClient(testConfig(stub.URL()), NoopObserver{}).Complete(context.Background(), Request{
		Prompt:  "p",
		Timeout: 50 * time.Millisecond,
	})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestGeminiClient_Complete_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening

	_, err := NewGeminiClient(cfg, NoopObserver{}).Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, KindProvider, Kind(err))
}

func TestGeminiClient_Complete_NotConfigured(t *testing.T) {
	stub := testutil.NewGeminiStub(t)
	cfg := testConfig(stub.URL())
	cfg.APIKey = ""

	_, err := NewGeminiClient(cfg, NoopObserver{}).Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Equal(t, KindConfiguration, Kind(err))
	assert.Equal(t, 0, stub.Calls())
}

func TestGeminiClient_Complete_CanceledContext(t *testing.T) {
	stub := testutil.NewGeminiStub(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGeminiClient(testConfig(stub.URL()), NoopObserver{}).Complete(ctx, Request{Prompt: "p"})
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.Equal(t, 0, stub.Calls())
}

func TestGeminiClient_ObserverCalled(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.Overloaded, testutil.Reply("ok"))

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	_, err := NewGeminiClient(testConfig(stub.URL()), obs).Complete(context.Background(), Request{Task: TaskKinship, Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, TaskKinship, captured.Task)
	assert.Equal(t, "gemini-test", captured.Model)
	assert.Equal(t, 2, captured.Attempts)
	assert.True(t, captured.Success)
	assert.Empty(t, captured.ErrorCode)
}

func TestGeminiClient_ObserverErrorCode(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.Overloaded)
	cfg := testConfig(stub.URL())
	cfg.MaxAttempts = 1

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	_, err := NewGeminiClient(cfg, obs).Complete(context.Background(), Request{Prompt: "p"})

	assert.ErrorIs(t, err, ErrOverloaded)
	assert.False(t, captured.Success)
	assert.Equal(t, string(KindOverloaded), captured.ErrorCode)
}

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) { o.fn(e) }
