package wechat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newAuthServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cgi-bin/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		n := calls.Add(1)
		fmt.Fprintf(w, `{"access_token":"token-%d","expires_in":7200}`, n)
	}))
}

func TestObtainCachesWithinTTL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newAuthServer(t, &calls)
	defer server.Close()

	cache := newTokenCache("id", "secret", server.URL, server.Client())

	ctx := context.Background()
	first, err := cache.obtain(ctx)
	if err != nil {
		t.Fatalf("obtain error: %v", err)
	}
	second, err := cache.obtain(ctx)
	if err != nil {
		t.Fatalf("obtain error: %v", err)
	}

	if first != second {
		t.Fatalf("expected cached token, got %q then %q", first, second)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 auth call, got %d", calls.Load())
	}
}

func TestObtainRefreshesAfterMargin(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newAuthServer(t, &calls)
	defer server.Close()

	cache := newTokenCache("id", "secret", server.URL, server.Client())
	clock := time.Now()
	cache.now = func() time.Time { return clock }

	ctx := context.Background()
	first, err := cache.obtain(ctx)
	if err != nil {
		t.Fatalf("obtain error: %v", err)
	}

	// Jump past expiry minus the safety margin.
	clock = clock.Add(7200*time.Second - tokenMargin + time.Second)

	second, err := cache.obtain(ctx)
	if err != nil {
		t.Fatalf("obtain error: %v", err)
	}

	if first == second {
		t.Fatalf("expected fresh token after margin window, still got %q", first)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 auth calls, got %d", calls.Load())
	}
}

func TestObtainFailureLeavesCacheEmpty(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			fmt.Fprint(w, `{"errcode":40001,"errmsg":"invalid credential"}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"recovered","expires_in":7200}`)
	}))
	defer server.Close()

	cache := newTokenCache("id", "secret", server.URL, server.Client())

	ctx := context.Background()
	if _, err := cache.obtain(ctx); err == nil {
		t.Fatal("expected error from rejected exchange")
	}

	token, err := cache.obtain(ctx)
	if err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if token != "recovered" {
		t.Fatalf("unexpected token after retry: %q", token)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 auth calls, got %d", calls.Load())
	}
}

func TestObtainConcurrentCallersShareOneRefresh(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newAuthServer(t, &calls)
	defer server.Close()

	cache := newTokenCache("id", "secret", server.URL, server.Client())

	var wg sync.WaitGroup
	tokens := make([]string, 8)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := cache.obtain(context.Background())
			if err != nil {
				t.Errorf("obtain error: %v", err)
				return
			}
			tokens[i] = tok
		}(i)
	}
	wg.Wait()

	for _, tok := range tokens {
		if tok != tokens[0] {
			t.Fatalf("callers saw different tokens: %q vs %q", tokens[0], tok)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single refresh, got %d", calls.Load())
	}
}
