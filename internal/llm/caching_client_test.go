package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/ulpiano/internal/cache"
	"github.com/alexanderramin/ulpiano/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingClient_HitSkipsProvider(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.Reply("respuesta"))
	client := NewCachingClient(NewGeminiClient(testConfig(stub.URL()), NoopObserver{}), cache.NewLRU(50, 0), NoopObserver{})

	req := Request{Task: TaskDefine, Prompt: "p", CacheKey: cache.Key("define", "dolo")}

	first, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Equal(t, 1, stub.Calls())

	second, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, stub.Calls(), "cache hit must not reach the provider")
}

func TestCachingClient_FailuresAreNotCached(t *testing.T) {
	stub := testutil.NewGeminiStub(t, testutil.Overloaded, testutil.Reply("ok"))
	cfg := testConfig(stub.URL())
	cfg.MaxAttempts = 1

	c := cache.NewLRU(50, 0)
	client := NewCachingClient(NewGeminiClient(cfg, NoopObserver{}), c, NoopObserver{})
	req := Request{Prompt: "p", CacheKey: "k"}

	_, err := client.Complete(context.Background(), req)
	require.ErrorIs(t, err, ErrOverloaded)
	assert.Equal(t, 0, c.Len())

	resp, err := client.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 1, c.Len())
}

func TestCachingClient_EmptyKeyBypassesCache(t *testing.T) {
	var calls atomic.Int32
	next := ClientFunc(func(context.Context, Request) (*Response, error) {
		calls.Add(1)
		return &Response{Text: "x"}, nil
	})
	c := cache.NewMap(10, 0)
	client := NewCachingClient(next, c, nil)

	for i := 0; i < 3; i++ {
		_, err := client.Complete(context.Background(), Request{Prompt: "p"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCachingClient_CollapsesConcurrentMisses(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	next := ClientFunc(func(context.Context, Request) (*Response, error) {
		calls.Add(1)
		<-release
		return &Response{Text: "shared"}, nil
	})
	client := NewCachingClient(next, cache.NewLRU(10, 0), nil)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := client.Complete(context.Background(), Request{Prompt: "p", CacheKey: "same"})
			if assert.NoError(t, err) {
				results[i] = resp.Text
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestCachingClient_CanceledCallerDoesNotFailFollowers(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	next := ClientFunc(func(ctx context.Context, _ Request) (*Response, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return &Response{Text: "shared"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	c := cache.NewLRU(10, 0)
	client := NewCachingClient(next, c, nil)
	req := Request{Prompt: "p", CacheKey: "same"}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := client.Complete(leaderCtx, req)
		leaderErr <- err
	}()
	<-started
	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	followerDone := make(chan *Response, 1)
	go func() {
		resp, err := client.Complete(context.Background(), req)
		assert.NoError(t, err)
		followerDone <- resp
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	resp := <-followerDone
	require.NotNil(t, resp)
	assert.Equal(t, "shared", resp.Text)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCachingClient_ReportsCachedEvent(t *testing.T) {
	next := ClientFunc(func(context.Context, Request) (*Response, error) {
		return nil, errors.New("unreachable")
	})
	c := cache.NewMap(10, 0)
	c.Put("k", "cached text")

	var events []LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { events = append(events, e) }}

	resp, err := NewCachingClient(next, c, obs).Complete(context.Background(), Request{Task: TaskModernLaw, CacheKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "cached text", resp.Text)
	require.Len(t, events, 1)
	assert.True(t, events[0].Cached)
	assert.Equal(t, TaskModernLaw, events[0].Task)
}
