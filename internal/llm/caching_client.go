package llm

import (
	"context"
	"time"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"golang.org/x/sync/singleflight"
)

// CachingClient serves repeated requests from a cache. Concurrent misses
// for the same key share one provider call and only successful answers are
// stored. A caller whose context ends stops waiting without canceling the
// shared call for the others.
type CachingClient struct {
	next     Client
	cache    cache.Cache
	group    singleflight.Group
	observer Observer
}

// NewCachingClient decorates next with c.
func NewCachingClient(next Client, c cache.Cache, observer Observer) *CachingClient {
	if c == nil {
		c = cache.Nop{}
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &CachingClient{next: next, cache: c, observer: observer}
}

func (c *CachingClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.CacheKey == "" {
		return c.next.Complete(ctx, req)
	}
	if text, ok := c.cache.Get(req.CacheKey); ok {
		c.observer.OnCallComplete(LLMCallEvent{Task: req.Task, Success: true, Cached: true})
		return &Response{Text: text, Cached: true}, nil
	}

	start := time.Now()
	// Detached from the caller; the provider's task timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(req.CacheKey, func() (any, error) {
		if text, ok := c.cache.Get(req.CacheKey); ok {
			return &Response{Text: text, Cached: true}, nil
		}
		resp, err := c.next.Complete(flightCtx, req)
		if err != nil {
			return nil, err
		}
		c.cache.Put(req.CacheKey, resp.Text)
		return resp, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	resp := *res.Val.(*Response)
	if resp.LatencyMs == 0 {
		resp.LatencyMs = time.Since(start).Milliseconds()
	}
	return &resp, nil
}

// Cache exposes the underlying cache.
func (c *CachingClient) Cache() cache.Cache { return c.cache }
