package llm

import (
	"context"
	"time"
)

// Request holds the parameters for one completion.
type Request struct {
	Task   TaskType
	Prompt string
	// CacheKey identifies semantically identical requests. Empty disables
	// caching for this request.
	CacheKey string
	// JSON asks the provider for an application/json answer.
	JSON bool
	// Timeout overrides the task timeout when positive.
	Timeout time.Duration
}

// Response holds the result of a completion.
type Response struct {
	Text      string
	Model     string
	LatencyMs int64
	Attempts  int
	Cached    bool
}

// Client sends prompts to a completion provider.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (*Response, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
