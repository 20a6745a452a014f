package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

// StubReply scripts one provider response.
type StubReply struct {
	Status int
	Text   string
	// Body replaces the generated payload when set.
	Body  string
	Delay time.Duration
}

// Overloaded is the provider's 503 reply.
var Overloaded = StubReply{Status: http.StatusServiceUnavailable}

// Reply returns a successful reply carrying text.
func Reply(text string) StubReply {
	return StubReply{Status: http.StatusOK, Text: text}
}

// GeminiStub is an httptest server speaking the generateContent protocol.
// Replies are served in order; the last one repeats.
type GeminiStub struct {
	Server *httptest.Server

	replies []StubReply
	calls   atomic.Int32

	mu         sync.Mutex
	lastPrompt string
	lastKey    string
	lastPath   string
	lastBody   []byte
}

// NewGeminiStub starts a stub server that is closed when the test ends.
// The test is skipped when no local listener can be opened.
func NewGeminiStub(t *testing.T, replies ...StubReply) *GeminiStub {
	t.Helper()
	if len(replies) == 0 {
		replies = []StubReply{Reply("ok")}
	}
	s := &GeminiStub{replies: replies}

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP test: local listener unavailable (%v)", r)
			}
		}()
		s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	}()
	t.Cleanup(s.Server.Close)
	return s
}

func (s *GeminiStub) handle(w http.ResponseWriter, r *http.Request) {
	n := int(s.calls.Add(1))
	reply := s.replies[min(n, len(s.replies))-1]

	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.lastBody = body
	s.lastPrompt = gjson.GetBytes(body, "contents.0.parts.0.text").String()
	s.lastKey = r.Header.Get("x-goog-api-key")
	s.lastPath = r.URL.Path
	s.mu.Unlock()

	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	switch {
	case reply.Body != "":
		_, _ = io.WriteString(w, reply.Body)
	case status == http.StatusOK:
		_, _ = io.WriteString(w, GeminiPayload(reply.Text))
	default:
		_, _ = io.WriteString(w, GeminiError(status, http.StatusText(status)))
	}
}

// URL returns the base URL to configure the client with.
func (s *GeminiStub) URL() string { return s.Server.URL }

// Calls returns the number of requests received.
func (s *GeminiStub) Calls() int { return int(s.calls.Load()) }

// LastPrompt returns the prompt text of the latest request.
func (s *GeminiStub) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPrompt
}

// LastAPIKey returns the x-goog-api-key header of the latest request.
func (s *GeminiStub) LastAPIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastKey
}

// LastPath returns the URL path of the latest request.
func (s *GeminiStub) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPath
}

// LastBody returns the raw JSON body of the latest request.
func (s *GeminiStub) LastBody() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.lastBody...)
}

// GeminiPayload renders a successful generateContent response.
func GeminiPayload(text string) string {
	payload := map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
			"finishReason": "STOP",
		}},
		"modelVersion": "gemini-test",
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

// GeminiError renders a provider error body.
func GeminiError(code int, message string) string {
	data, _ := json.Marshal(map[string]any{
		"error": map[string]any{"code": code, "message": message, "status": "UNAVAILABLE"},
	})
	return string(data)
}
